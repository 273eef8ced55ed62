package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reuseday/backend/internal/domain/notification"
	"github.com/reuseday/backend/internal/domain/shared"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save stores a single notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(toNotificationModel(n)).Error
}

// SaveAll stores a batch of notifications in one transaction
func (r *GormNotificationRepository) SaveAll(ctx context.Context, ns []*notification.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	models := make([]*notificationModel, len(ns))
	for i, n := range ns {
		models[i] = toNotificationModel(n)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

// FindByID loads a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model notificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return toDomainNotification(&model), nil
}

// FindForRecipient returns a recipient's notifications, newest first
func (r *GormNotificationRepository) FindForRecipient(ctx context.Context, recipientID uuid.UUID) ([]*notification.Notification, error) {
	var models []notificationModel
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	ns := make([]*notification.Notification, len(models))
	for i := range models {
		ns[i] = toDomainNotification(&models[i])
	}
	return ns, nil
}

// CountUnread counts a recipient's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// Update writes back a modified notification
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	result := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ?", n.ID).
		Updates(map[string]interface{}{
			"is_read":    n.IsRead,
			"updated_at": n.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead flags every unread notification of a recipient as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now(),
		}).Error
}

// Ensure GormNotificationRepository implements the repository interface
var _ notification.Repository = (*GormNotificationRepository)(nil)
