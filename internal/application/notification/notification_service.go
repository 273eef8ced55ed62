package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/reuseday/backend/internal/domain/notification"
	"github.com/reuseday/backend/internal/domain/shared"
)

// Service handles inbox operations for a recipient
type Service struct {
	repo notification.Repository
}

// NewService creates a new notification Service
func NewService(repo notification.Repository) *Service {
	return &Service{repo: repo}
}

// ListForUser returns the user's notifications, newest first
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]NotificationResponse, error) {
	ns, err := s.repo.FindForRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(ns), nil
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flags one notification as read. Only the recipient can do so.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != userID {
		return shared.ErrNotFound
	}
	if n.IsRead {
		return nil
	}
	n.MarkRead()
	return s.repo.Update(ctx, n)
}

// MarkAllRead flags every unread notification of the user as read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
