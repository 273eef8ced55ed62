package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reuseday/backend/internal/domain/identity"
	"github.com/reuseday/backend/internal/domain/notification"
	"github.com/reuseday/backend/internal/domain/order"
	"github.com/reuseday/backend/internal/domain/shared"
)

// Message keys the client localizes
const (
	MessageKeyOrderUpdate = "notification_order_update"
	MessageKeyNewOrder    = "notification_new_order"
)

// Links attached to notifications
const (
	LinkProfileOrders = "/profile/orders"
	LinkAdminOrders   = "/admin/orders"
)

// OrderEventHandler turns order lifecycle events into inbox
// notifications. Status changes notify the counterpart of the acting
// user, placements additionally notify every admin.
type OrderEventHandler struct {
	notificationRepo notification.Repository
	userRepo         identity.UserRepository
	logger           *zap.Logger
}

// NewOrderEventHandler creates a new OrderEventHandler
func NewOrderEventHandler(
	notificationRepo notification.Repository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *OrderEventHandler {
	return &OrderEventHandler{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderEventHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderShipped,
		order.EventTypeOrderCompleted,
	}
}

// Handle processes an order lifecycle event
func (h *OrderEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		return h.handlePlaced(ctx, e)
	case *order.OrderShippedEvent:
		return h.handleStatusChange(ctx, e.ActorID, e.BuyerID, e.SellerID, e.ShortRef, e.Status)
	case *order.OrderCompletedEvent:
		return h.handleStatusChange(ctx, e.ActorID, e.BuyerID, e.SellerID, e.ShortRef, e.Status)
	default:
		h.logger.Error("unexpected event type",
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

// handlePlaced notifies all admins about the new order. The seller is
// not notified on placement, their copy simply appears in the ledger.
func (h *OrderEventHandler) handlePlaced(ctx context.Context, e *order.OrderPlacedEvent) error {
	admins, err := h.userRepo.FindAdmins(ctx)
	if err != nil {
		h.logger.Error("failed to load admins for new order notification",
			zap.String("order_id", e.AggregateID().String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to load admins: %w", err)
	}

	notifications := make([]*notification.Notification, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, notification.New(
			admin.ID,
			notification.TypeNewOrder,
			MessageKeyNewOrder,
			notification.Replacements{"orderId": e.ShortRef},
			LinkAdminOrders,
		))
	}

	if len(notifications) == 0 {
		return nil
	}

	if err := h.notificationRepo.SaveAll(ctx, notifications); err != nil {
		h.logger.Error("failed to save new order notifications",
			zap.String("order_id", e.AggregateID().String()),
			zap.Int("count", len(notifications)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save notifications: %w", err)
	}

	h.logger.Info("new order notifications created",
		zap.String("order_ref", e.ShortRef),
		zap.Int("admins", len(admins)),
	)
	return nil
}

// handleStatusChange notifies each party that did not act themselves.
// The actor never hears about their own change.
func (h *OrderEventHandler) handleStatusChange(ctx context.Context, actorID, buyerID, sellerID uuid.UUID, shortRef string, status order.Status) error {
	recipients := make([]uuid.UUID, 0, 2)
	if actorID != buyerID {
		recipients = append(recipients, buyerID)
	}
	if actorID != sellerID && sellerID != buyerID {
		recipients = append(recipients, sellerID)
	}

	if len(recipients) == 0 {
		return nil
	}

	notifications := make([]*notification.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		notifications = append(notifications, notification.New(
			recipientID,
			notification.TypeOrderUpdate,
			MessageKeyOrderUpdate,
			notification.Replacements{
				"orderId": shortRef,
				"status":  status.String(),
			},
			LinkProfileOrders,
		))
	}

	if err := h.notificationRepo.SaveAll(ctx, notifications); err != nil {
		h.logger.Error("failed to save order update notifications",
			zap.String("order_ref", shortRef),
			zap.String("status", status.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save notifications: %w", err)
	}

	h.logger.Info("order update notifications created",
		zap.String("order_ref", shortRef),
		zap.String("status", status.String()),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

// Ensure OrderEventHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderEventHandler)(nil)
