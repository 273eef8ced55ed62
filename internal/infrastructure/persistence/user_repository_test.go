package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reuseday/backend/internal/domain/identity"
	"github.com/reuseday/backend/internal/domain/shared"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			seller_ratings TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func buildUser(email string, role identity.Role) *identity.User {
	return &identity.User{
		BaseEntity:  shared.NewBaseEntity(),
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
	}
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	ctx := context.Background()
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)

	u := buildUser("Jane@Example.com", identity.RoleUser)
	require.NoError(t, repo.Save(ctx, u))

	found, err := repo.FindByEmail(ctx, " jane@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_FindAdmins(t *testing.T) {
	ctx := context.Background()
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)

	require.NoError(t, repo.Save(ctx, buildUser("user@example.com", identity.RoleUser)))
	admin := buildUser("admin@example.com", identity.RoleAdmin)
	require.NoError(t, repo.Save(ctx, admin))

	admins, err := repo.FindAdmins(ctx)

	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)
}

func TestGormUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)

	seller := buildUser("seller@example.com", identity.RoleUser)
	require.NoError(t, repo.Save(ctx, seller))

	require.NoError(t, seller.AddSellerRating(identity.SellerRating{
		OrderID: uuid.New(),
		RaterID: uuid.New(),
		Stars:   5,
		Comment: "Great seller",
		RatedAt: time.Now(),
	}))

	require.NoError(t, repo.Update(ctx, seller))

	loaded, err := repo.FindByID(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, loaded.SellerRatings, 1)
	assert.Equal(t, 5, loaded.SellerRatings[0].Stars)
	assert.Equal(t, 5.0, loaded.AverageRating())

	missing := buildUser("ghost@example.com", identity.RoleUser)
	assert.ErrorIs(t, repo.Update(ctx, missing), shared.ErrNotFound)
}
