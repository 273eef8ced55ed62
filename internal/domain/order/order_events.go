package order

import (
	"github.com/google/uuid"

	"github.com/reuseday/backend/internal/domain/shared"
)

// Order event types
const (
	EventTypeOrderPlaced    = "OrderPlaced"
	EventTypeOrderShipped   = "OrderShipped"
	EventTypeOrderCompleted = "OrderCompleted"
)

// AggregateTypeOrder identifies the order aggregate in events
const AggregateTypeOrder = "Order"

// OrderPlacedEvent is raised when a new order is placed
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	BuyerID     uuid.UUID   `json:"buyer_id"`
	SellerID    uuid.UUID   `json:"seller_id"`
	SellingMode SellingMode `json:"selling_mode"`
	Status      Status      `json:"status"`
	ShortRef    string      `json:"short_ref"`
	Total       string      `json:"total"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent from the order
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		SellingMode:     o.SellingMode,
		Status:          o.Status,
		ShortRef:        o.ShortRef(),
		Total:           o.Total.String(),
	}
}

// EventType returns the event type
func (e *OrderPlacedEvent) EventType() string {
	return EventTypeOrderPlaced
}

// OrderShippedEvent is raised when the seller marks the order as shipped
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	ActorID  uuid.UUID `json:"actor_id"`
	BuyerID  uuid.UUID `json:"buyer_id"`
	SellerID uuid.UUID `json:"seller_id"`
	Status   Status    `json:"status"`
	ShortRef string    `json:"short_ref"`
}

// NewOrderShippedEvent creates an OrderShippedEvent from the order
func NewOrderShippedEvent(o *Order, actorID uuid.UUID) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID),
		ActorID:         actorID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		Status:          o.Status,
		ShortRef:        o.ShortRef(),
	}
}

// EventType returns the event type
func (e *OrderShippedEvent) EventType() string {
	return EventTypeOrderShipped
}

// OrderCompletedEvent is raised when the buyer confirms receipt
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	ActorID  uuid.UUID `json:"actor_id"`
	BuyerID  uuid.UUID `json:"buyer_id"`
	SellerID uuid.UUID `json:"seller_id"`
	Status   Status    `json:"status"`
	ShortRef string    `json:"short_ref"`
}

// NewOrderCompletedEvent creates an OrderCompletedEvent from the order
func NewOrderCompletedEvent(o *Order, actorID uuid.UUID) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, o.ID),
		ActorID:         actorID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		Status:          o.Status,
		ShortRef:        o.ShortRef(),
	}
}

// EventType returns the event type
func (e *OrderCompletedEvent) EventType() string {
	return EventTypeOrderCompleted
}
