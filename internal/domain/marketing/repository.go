package marketing

import (
	"context"

	"github.com/google/uuid"
)

// DiscountCodeRepository persists discount codes
type DiscountCodeRepository interface {
	Save(ctx context.Context, code *DiscountCode) error
	Update(ctx context.Context, code *DiscountCode) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*DiscountCode, error)
	// FindByCode looks a code up by its case-insensitive value
	FindByCode(ctx context.Context, code string) (*DiscountCode, error)
	FindAll(ctx context.Context) ([]*DiscountCode, error)
}
