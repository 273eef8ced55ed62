package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuseday/backend/internal/domain/identity"
	"github.com/reuseday/backend/internal/domain/shared"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save stores a new user
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return r.db.WithContext(ctx).Create(toUserModel(u)).Error
}

// Update writes back a modified user
func (r *GormUserRepository) Update(ctx context.Context, u *identity.User) error {
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"display_name":   u.DisplayName,
			"role":           string(u.Role),
			"seller_ratings": u.SellerRatings,
			"updated_at":     u.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID loads a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model userModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return toDomainUser(&model), nil
}

// FindByEmail loads a user by email, ignoring case
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model userModel
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return toDomainUser(&model), nil
}

// FindAdmins returns all users with the admin role
func (r *GormUserRepository) FindAdmins(ctx context.Context) ([]*identity.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Where("role = ?", string(identity.RoleAdmin)).Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]*identity.User, len(models))
	for i := range models {
		users[i] = toDomainUser(&models[i])
	}
	return users, nil
}

// Ensure GormUserRepository implements the repository interface
var _ identity.UserRepository = (*GormUserRepository)(nil)
