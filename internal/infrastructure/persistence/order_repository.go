package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuseday/backend/internal/domain/order"
	"github.com/reuseday/backend/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM. The order
// row is authoritative, ledger entries are written alongside it in the
// same transaction.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save stores a new order together with its ledger entries
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toOrderModel(o)).Error; err != nil {
			return err
		}

		for _, entry := range o.LedgerRoles() {
			model := ledgerEntryModel{
				ID:        uuid.New(),
				OwnerID:   entry.OwnerID,
				OrderID:   entry.OrderID,
				Role:      string(entry.Role),
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock updates an order using optimistic locking. Ledger entries
// never change after placement.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current orderModel
		if err := tx.Select("version").First(&current, "id = ?", o.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if current.Version != o.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		previousVersion := o.Version
		o.Version++
		o.UpdatedAt = time.Now()

		result := tx.Model(&orderModel{}).
			Where("id = ? AND version = ?", o.ID, previousVersion).
			Updates(map[string]interface{}{
				"status":       string(o.Status),
				"buyer_rating": ratingColumn(o.BuyerRating),
				"shipped_at":   o.ShippedAt,
				"completed_at": o.CompletedAt,
				"version":      o.Version,
				"updated_at":   o.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}
		return nil
	})
}

// FindByID loads an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model orderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return toDomainOrder(&model), nil
}

// FindForUser returns all orders in the user's ledger, newest first
func (r *GormOrderRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	var models []orderModel
	err := r.db.WithContext(ctx).
		Joins("JOIN order_ledger_entries ON order_ledger_entries.order_id = orders.id").
		Where("order_ledger_entries.owner_id = ?", userID).
		Order("orders.created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toDomainOrder(&models[i])
	}
	return orders, nil
}

// FindRoleForUser returns the ledger role of a user on an order
func (r *GormOrderRepository) FindRoleForUser(ctx context.Context, userID, orderID uuid.UUID) (order.Role, error) {
	var entry ledgerEntryModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND order_id = ?", userID, orderID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return order.Role(entry.Role), nil
}

// FindAll returns every order, newest first
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	var models []orderModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toDomainOrder(&models[i])
	}
	return orders, nil
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
