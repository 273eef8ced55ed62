package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/reuseday/backend/internal/domain/notification"
)

// NotificationResponse is one inbox entry as returned to the client
type NotificationResponse struct {
	ID           uuid.UUID         `json:"id"`
	Type         string            `json:"type"`
	MessageKey   string            `json:"message_key"`
	Replacements map[string]string `json:"replacements"`
	Link         string            `json:"link,omitempty"`
	IsRead       bool              `json:"is_read"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ToNotificationResponse converts a notification to its response form
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         string(n.Type),
		MessageKey:   n.MessageKey,
		Replacements: n.Replacements,
		Link:         n.Link,
		IsRead:       n.IsRead,
		CreatedAt:    n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of notifications
func ToNotificationResponses(ns []*notification.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		responses[i] = ToNotificationResponse(n)
	}
	return responses
}
