package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuseday/backend/internal/domain/marketing"
	"github.com/reuseday/backend/internal/domain/shared"
)

// GormDiscountCodeRepository implements marketing.DiscountCodeRepository
// using GORM
type GormDiscountCodeRepository struct {
	db *gorm.DB
}

// NewGormDiscountCodeRepository creates a new GormDiscountCodeRepository
func NewGormDiscountCodeRepository(db *gorm.DB) *GormDiscountCodeRepository {
	return &GormDiscountCodeRepository{db: db}
}

// Save stores a new discount code
func (r *GormDiscountCodeRepository) Save(ctx context.Context, dc *marketing.DiscountCode) error {
	return r.db.WithContext(ctx).Create(toDiscountCodeModel(dc)).Error
}

// Update writes back a modified discount code
func (r *GormDiscountCodeRepository) Update(ctx context.Context, dc *marketing.DiscountCode) error {
	result := r.db.WithContext(ctx).
		Model(&discountCodeModel{}).
		Where("id = ?", dc.ID).
		Updates(map[string]interface{}{
			"discount_percent": dc.DiscountPercent,
			"start_date":       dc.StartDate,
			"expiry_date":      dc.ExpiryDate,
			"is_active":        dc.IsActive,
			"updated_at":       dc.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a discount code
func (r *GormDiscountCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&discountCodeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID loads a discount code by ID
func (r *GormDiscountCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketing.DiscountCode, error) {
	var model discountCodeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return toDomainDiscountCode(&model), nil
}

// FindByCode looks a discount code up ignoring case
func (r *GormDiscountCodeRepository) FindByCode(ctx context.Context, code string) (*marketing.DiscountCode, error) {
	var model discountCodeModel
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return toDomainDiscountCode(&model), nil
}

// FindAll returns every discount code, newest first
func (r *GormDiscountCodeRepository) FindAll(ctx context.Context) ([]*marketing.DiscountCode, error) {
	var models []discountCodeModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	codes := make([]*marketing.DiscountCode, len(models))
	for i := range models {
		codes[i] = toDomainDiscountCode(&models[i])
	}
	return codes, nil
}

// Ensure GormDiscountCodeRepository implements the repository interface
var _ marketing.DiscountCodeRepository = (*GormDiscountCodeRepository)(nil)
