package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/reuseday/backend/internal/domain/order"
	"github.com/reuseday/backend/internal/domain/shared/valueobject"
)

// PlaceOrderItemRequest is one checkout line item
type PlaceOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	UnitPrice float64   `json:"unit_price" binding:"required,gte=0"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
	SellerID  uuid.UUID `json:"seller_id" binding:"required"`
	ImageURL  string    `json:"image_url"`
}

// AddressRequest is the shipping address submitted at checkout
type AddressRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Street   string `json:"street" binding:"required"`
	City     string `json:"city" binding:"required"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// PlaceOrderRequest is the request to place an order
type PlaceOrderRequest struct {
	Items       []PlaceOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Address     AddressRequest          `json:"address" binding:"required"`
	Total       float64                 `json:"total" binding:"gte=0"`
	Currency    string                  `json:"currency"`
	SellingMode string                  `json:"selling_mode" binding:"required,sellingmode"`
}

// RateOrderRequest is the buyer's rating of the seller
type RateOrderRequest struct {
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// OrderItemResponse is one line item in an order response
type OrderItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	UnitPrice float64   `json:"unit_price"`
	Currency  string    `json:"currency"`
	Quantity  int       `json:"quantity"`
	SellerID  uuid.UUID `json:"seller_id"`
	ImageURL  string    `json:"image_url,omitempty"`
}

// BuyerRatingResponse mirrors the order's rating state
type BuyerRatingResponse struct {
	Rated   bool       `json:"rated"`
	Stars   int        `json:"stars,omitempty"`
	Comment string     `json:"comment,omitempty"`
	RatedAt *time.Time `json:"rated_at,omitempty"`
}

// OrderResponse is the order as seen by a particular viewer. Status is
// projected for the viewer, the seller of an unshipped secure order sees
// PaymentHeld.
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	ShortRef    string              `json:"short_ref"`
	BuyerID     uuid.UUID           `json:"buyer_id"`
	SellerID    uuid.UUID           `json:"seller_id"`
	Items       []OrderItemResponse `json:"items"`
	Total       float64             `json:"total"`
	Currency    string              `json:"currency"`
	Address     AddressRequest      `json:"address"`
	SellingMode string              `json:"selling_mode"`
	Status      string              `json:"status"`
	BuyerRating BuyerRatingResponse `json:"buyer_rating"`
	ShippedAt   *time.Time          `json:"shipped_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Version     int                 `json:"version"`
}

// ToOrderResponse converts an order to its response form for a viewer.
// Pass uuid.Nil as viewerID for the unprojected admin view.
func ToOrderResponse(o *order.Order, viewerID uuid.UUID) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		price, _ := item.UnitPrice.Float64()
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: price,
			Currency:  item.Currency,
			Quantity:  item.Quantity,
			SellerID:  item.SellerID,
			ImageURL:  item.ImageURL,
		}
	}

	status := o.Status
	if viewerID != uuid.Nil {
		status = o.StatusForUser(viewerID)
	}

	total, _ := o.Total.Amount.Float64()
	return OrderResponse{
		ID:          o.ID,
		ShortRef:    o.ShortRef(),
		BuyerID:     o.BuyerID,
		SellerID:    o.SellerID,
		Items:       items,
		Total:       total,
		Currency:    o.Total.Currency,
		Address: AddressRequest{
			FullName: o.Address.FullName,
			Street:   o.Address.Street,
			City:     o.Address.City,
			ZipCode:  o.Address.ZipCode,
			Country:  o.Address.Country,
		},
		SellingMode: string(o.SellingMode),
		Status:      status.String(),
		BuyerRating: BuyerRatingResponse{
			Rated:   o.BuyerRating.Rated,
			Stars:   o.BuyerRating.Stars,
			Comment: o.BuyerRating.Comment,
			RatedAt: o.BuyerRating.RatedAt,
		},
		ShippedAt:   o.ShippedAt,
		CompletedAt: o.CompletedAt,
		CreatedAt:   o.CreatedAt,
		Version:     o.Version,
	}
}

// ToOrderResponses converts a slice of orders for a viewer
func ToOrderResponses(orders []*order.Order, viewerID uuid.UUID) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o, viewerID)
	}
	return responses
}

// toAddress converts the request address into the value object
func (r AddressRequest) toAddress() valueobject.Address {
	return valueobject.Address{
		FullName: r.FullName,
		Street:   r.Street,
		City:     r.City,
		ZipCode:  r.ZipCode,
		Country:  r.Country,
	}
}
