package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reuseday/backend/internal/domain/notification"
	"github.com/reuseday/backend/internal/domain/shared"
)

func TestService_ListForUser(t *testing.T) {
	userID := uuid.New()
	repo := new(MockNotificationRepository)
	service := NewService(repo)

	n := notification.New(userID, notification.TypeOrderUpdate, MessageKeyOrderUpdate,
		notification.Replacements{"orderId": "a1b2c3", "status": "Shipped"}, LinkProfileOrders)
	repo.On("FindForRecipient", mock.Anything, userID).Return([]*notification.Notification{n}, nil)

	resp, err := service.ListForUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "order_update", resp[0].Type)
	assert.Equal(t, "a1b2c3", resp[0].Replacements["orderId"])
	assert.False(t, resp[0].IsRead)
}

func TestService_MarkRead(t *testing.T) {
	userID := uuid.New()

	t.Run("recipient marks their notification read", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewService(repo)

		n := notification.New(userID, notification.TypeOrderUpdate, MessageKeyOrderUpdate, nil, "")
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)
		repo.On("Update", mock.Anything, n).Return(nil)

		err := service.MarkRead(context.Background(), userID, n.ID)

		require.NoError(t, err)
		assert.True(t, n.IsRead)
	})

	t.Run("someone else's notification reads as not found", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewService(repo)

		n := notification.New(uuid.New(), notification.TypeOrderUpdate, MessageKeyOrderUpdate, nil, "")
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)

		err := service.MarkRead(context.Background(), userID, n.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		repo.AssertNotCalled(t, "Update")
		assert.False(t, n.IsRead)
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewService(repo)

		n := notification.New(userID, notification.TypeOrderUpdate, MessageKeyOrderUpdate, nil, "")
		n.MarkRead()
		repo.On("FindByID", mock.Anything, n.ID).Return(n, nil)

		err := service.MarkRead(context.Background(), userID, n.ID)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "Update")
	})
}

func TestService_MarkAllRead(t *testing.T) {
	userID := uuid.New()
	repo := new(MockNotificationRepository)
	service := NewService(repo)

	repo.On("MarkAllRead", mock.Anything, userID).Return(nil)

	err := service.MarkAllRead(context.Background(), userID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_UnreadCount(t *testing.T) {
	userID := uuid.New()
	repo := new(MockNotificationRepository)
	service := NewService(repo)

	repo.On("CountUnread", mock.Anything, userID).Return(int64(3), nil)

	count, err := service.UnreadCount(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
