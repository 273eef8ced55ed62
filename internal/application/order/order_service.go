package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reuseday/backend/internal/domain/identity"
	"github.com/reuseday/backend/internal/domain/order"
	"github.com/reuseday/backend/internal/domain/shared"
	"github.com/reuseday/backend/internal/domain/shared/valueobject"
)

// Service handles order lifecycle operations
type Service struct {
	orderRepo      order.Repository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
}

// NewService creates a new order Service
func NewService(orderRepo order.Repository, userRepo identity.UserRepository) *Service {
	return &Service{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Place places an order for the buyer. The order row and its ledger
// entries are written in one transaction, then the placement event is
// published for notification fan-out.
func (s *Service) Place(ctx context.Context, buyerID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	items := make([]order.Item, len(req.Items))
	for i, it := range req.Items {
		currency := req.Currency
		if currency == "" {
			currency = valueobject.DefaultCurrency
		}
		items[i] = order.Item{
			ProductID: it.ProductID,
			Title:     it.Title,
			UnitPrice: decimal.NewFromFloat(it.UnitPrice),
			Currency:  currency,
			Quantity:  it.Quantity,
			SellerID:  it.SellerID,
			ImageURL:  it.ImageURL,
		}
	}

	total := valueobject.NewMoneyFromFloat(req.Total, req.Currency)
	o, err := order.NewOrder(buyerID, items, req.Address.toAddress(), total, order.SellingMode(req.SellingMode))
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o, buyerID)
	return &response, nil
}

// MarkShipped marks an order as shipped on behalf of the seller
func (s *Service) MarkShipped(ctx context.Context, actorID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.MarkShipped(actorID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o, actorID)
	return &response, nil
}

// ConfirmReceipt completes an order on behalf of the buyer, releasing
// the held payment
func (s *Service) ConfirmReceipt(ctx context.Context, actorID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.ConfirmReceipt(actorID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o, actorID)
	return &response, nil
}

// Rate records the buyer's rating on the order and mirrors it onto the
// seller's profile. Rating raises no events, so the counterpart is not
// notified.
func (s *Service) Rate(ctx context.Context, actorID, orderID uuid.UUID, req RateOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Rate(actorID, req.Stars, req.Comment); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	if !o.IsSelfPurchase() {
		if err := s.mirrorSellerRating(ctx, o); err != nil {
			return nil, err
		}
	}

	response := ToOrderResponse(o, actorID)
	return &response, nil
}

// mirrorSellerRating appends the order's rating to the seller's profile
func (s *Service) mirrorSellerRating(ctx context.Context, o *order.Order) error {
	seller, err := s.userRepo.FindByID(ctx, o.SellerID)
	if err != nil {
		return err
	}

	ratedAt := time.Now()
	if o.BuyerRating.RatedAt != nil {
		ratedAt = *o.BuyerRating.RatedAt
	}
	if err := seller.AddSellerRating(identity.SellerRating{
		OrderID: o.ID,
		RaterID: o.BuyerID,
		Stars:   o.BuyerRating.Stars,
		Comment: o.BuyerRating.Comment,
		RatedAt: ratedAt,
	}); err != nil {
		// The order is the source of truth, a duplicate on the profile
		// means the mirror already happened.
		if domainErr, ok := err.(*shared.DomainError); ok && domainErr.Code == "ALREADY_RATED" {
			return nil
		}
		return err
	}

	return s.userRepo.Update(ctx, seller)
}

// GetByID returns the order as seen by the requesting user. Users not in
// the order's ledger get a not found error.
func (s *Service) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.orderRepo.FindRoleForUser(ctx, userID, orderID); err != nil {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(o, userID)
	return &response, nil
}

// ListForUser returns the user's order ledger, newest first. A read
// failure yields an empty list rather than an error so the order page
// still renders.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindForUser(ctx, userID)
	if err != nil {
		return []OrderResponse{}, nil
	}
	return ToOrderResponses(orders, userID), nil
}

// ListAllForAdmin returns every order with its authoritative status,
// newest first. Like ListForUser, a read failure yields an empty list
// so the admin page still renders.
func (s *Service) ListAllForAdmin(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return []OrderResponse{}, nil
	}
	return ToOrderResponses(orders, uuid.Nil), nil
}

// publishEvents publishes the aggregate's pending events and clears them.
// Handler failures never fail the operation that raised the event.
func (s *Service) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		o.ClearDomainEvents()
		return
	}
	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}
