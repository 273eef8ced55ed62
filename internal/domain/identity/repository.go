package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists user accounts
type UserRepository interface {
	Save(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindAdmins returns all users with the admin role
	FindAdmins(ctx context.Context) ([]*User, error)
}
