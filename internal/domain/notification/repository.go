package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists notifications
type Repository interface {
	Save(ctx context.Context, n *Notification) error
	// SaveAll stores a batch of notifications in one transaction
	SaveAll(ctx context.Context, ns []*Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	// FindForRecipient returns a recipient's notifications, newest first
	FindForRecipient(ctx context.Context, recipientID uuid.UUID) ([]*Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Update(ctx context.Context, n *Notification) error
	// MarkAllRead flags every unread notification of a recipient as read
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}
