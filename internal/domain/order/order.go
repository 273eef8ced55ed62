package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reuseday/backend/internal/domain/shared"
	"github.com/reuseday/backend/internal/domain/shared/valueobject"
)

// SellingMode determines how an order settles after checkout
type SellingMode string

const (
	// SellingModeDirect settles in person, the order completes immediately
	SellingModeDirect SellingMode = "direct"
	// SellingModeSecure holds the payment until the buyer confirms receipt
	SellingModeSecure SellingMode = "secure"
)

// IsValid checks if the selling mode is valid
func (m SellingMode) IsValid() bool {
	return m == SellingModeDirect || m == SellingModeSecure
}

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending          Status = "Pending"
	StatusAwaitingShipment Status = "AwaitingShipment"
	// StatusPaymentHeld is never persisted. It is the seller-facing view of
	// AwaitingShipment on a secure order, see StatusForUser.
	StatusPaymentHeld Status = "PaymentHeld"
	StatusShipped     Status = "Shipped"
	StatusDelivered   Status = "Delivered"
	StatusCompleted   Status = "Completed"
	StatusCancelled   Status = "Cancelled"
)

// IsValid checks if the status is a known lifecycle state
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAwaitingShipment, StatusPaymentHeld,
		StatusShipped, StatusDelivered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:          {StatusAwaitingShipment, StatusCompleted, StatusCancelled},
		StatusAwaitingShipment: {StatusShipped, StatusCancelled},
		StatusShipped:          {StatusDelivered, StatusCompleted},
		StatusDelivered:        {StatusCompleted},
		StatusCompleted:        {},
		StatusCancelled:        {},
	}
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// Item is the immutable snapshot of a listing at checkout time.
// Later edits to the listing never change an existing order.
type Item struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
	Quantity  int             `json:"quantity"`
	SellerID  uuid.UUID       `json:"seller_id"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// Subtotal returns unit price times quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// BuyerRating is the buyer's one-shot rating of the seller for this order
type BuyerRating struct {
	Rated   bool       `json:"rated"`
	Stars   int        `json:"stars,omitempty"`
	Comment string     `json:"comment,omitempty"`
	RatedAt *time.Time `json:"rated_at,omitempty"`
}

// Order is the aggregate root for a placed order. There is exactly one
// authoritative record per order, the buyer and seller views are
// projections over it.
type Order struct {
	shared.BaseAggregateRoot
	BuyerID     uuid.UUID
	SellerID    uuid.UUID
	Items       []Item
	Total       valueobject.Money
	Address     valueobject.Address
	SellingMode SellingMode
	Status      Status
	BuyerRating BuyerRating
	ShippedAt   *time.Time
	CompletedAt *time.Time
}

// NewOrder places an order from a checkout snapshot. The selling mode and
// seller are taken from the first item, all items in one order belong to
// the same seller. Secure orders start awaiting shipment, direct orders
// complete immediately.
func NewOrder(buyerID uuid.UUID, items []Item, address valueobject.Address, total valueobject.Money, mode SellingMode) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Buyer is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_SELLING_MODE", "Unknown selling mode")
	}
	if err := address.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Order total cannot be negative")
	}

	sellerID := items[0].SellerID
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		if items[i].Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
		if items[i].SellerID != sellerID {
			return nil, shared.NewDomainError("MIXED_SELLERS", "All items in an order must belong to the same seller")
		}
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		SellerID:          sellerID,
		Items:             items,
		Total:             total,
		Address:           address,
		SellingMode:       mode,
		BuyerRating:       BuyerRating{Rated: false},
	}

	if mode == SellingModeSecure {
		o.Status = StatusAwaitingShipment
	} else {
		now := time.Now()
		o.Status = StatusCompleted
		o.CompletedAt = &now
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// IsSelfPurchase reports whether the buyer bought their own listing
func (o *Order) IsSelfPurchase() bool {
	return o.BuyerID == o.SellerID
}

// StatusForUser returns the status as seen by the given user. The seller
// of a secure order that is awaiting shipment sees the payment as held.
func (o *Order) StatusForUser(userID uuid.UUID) Status {
	if o.SellingMode == SellingModeSecure &&
		o.Status == StatusAwaitingShipment &&
		userID == o.SellerID && !o.IsSelfPurchase() {
		return StatusPaymentHeld
	}
	return o.Status
}

// MarkShipped transitions the order to Shipped. Only the seller may ship.
func (o *Order) MarkShipped(actorID uuid.UUID) error {
	if actorID != o.SellerID {
		return shared.NewDomainError("NOT_SELLER", "Only the seller can mark an order as shipped")
	}
	if !o.Status.CanTransitionTo(StatusShipped) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot ship an order in status "+o.Status.String())
	}
	now := time.Now()
	o.Status = StatusShipped
	o.ShippedAt = &now
	o.Touch()
	o.AddDomainEvent(NewOrderShippedEvent(o, actorID))
	return nil
}

// ConfirmReceipt transitions the order to Completed, releasing the held
// payment. Only the buyer may confirm.
func (o *Order) ConfirmReceipt(actorID uuid.UUID) error {
	if actorID != o.BuyerID {
		return shared.NewDomainError("NOT_BUYER", "Only the buyer can confirm receipt")
	}
	if !o.Status.CanTransitionTo(StatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot confirm receipt of an order in status "+o.Status.String())
	}
	now := time.Now()
	o.Status = StatusCompleted
	o.CompletedAt = &now
	o.Touch()
	o.AddDomainEvent(NewOrderCompletedEvent(o, actorID))
	return nil
}

// Rate records the buyer's rating of the seller. An order can be rated
// once, and only after completion. Rating raises no domain event, so it
// never triggers counterpart notifications.
func (o *Order) Rate(actorID uuid.UUID, stars int, comment string) error {
	if actorID != o.BuyerID {
		return shared.NewDomainError("NOT_BUYER", "Only the buyer can rate an order")
	}
	if o.Status != StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only completed orders can be rated")
	}
	if o.BuyerRating.Rated {
		return shared.NewDomainError("ALREADY_RATED", "Order has already been rated")
	}
	if stars < 1 || stars > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5 stars")
	}
	now := time.Now()
	o.BuyerRating = BuyerRating{
		Rated:   true,
		Stars:   stars,
		Comment: comment,
		RatedAt: &now,
	}
	o.Touch()
	return nil
}

// LedgerRoles returns the ledger index entries this order should appear
// under. Direct orders and self purchases surface only in the buyer
// ledger, secure orders also in the seller's.
func (o *Order) LedgerRoles() []LedgerEntry {
	entries := []LedgerEntry{{OwnerID: o.BuyerID, OrderID: o.ID, Role: RoleBuyer}}
	if o.SellingMode == SellingModeSecure && !o.IsSelfPurchase() {
		entries = append(entries, LedgerEntry{OwnerID: o.SellerID, OrderID: o.ID, Role: RoleSeller})
	}
	return entries
}
