package marketing

import (
	"time"

	"github.com/google/uuid"

	"github.com/reuseday/backend/internal/domain/marketing"
)

// CreateDiscountCodeRequest is the request to create a discount code
type CreateDiscountCodeRequest struct {
	Code            string     `json:"code" binding:"required,max=64"`
	DiscountPercent float64    `json:"discount_percent" binding:"required,gt=0,lte=100"`
	StartDate       *time.Time `json:"start_date"`
	ExpiryDate      time.Time  `json:"expiry_date" binding:"required"`
}

// UpdateDiscountCodeRequest is the request to update a discount code.
// The code value itself is immutable.
type UpdateDiscountCodeRequest struct {
	DiscountPercent float64    `json:"discount_percent" binding:"required,gt=0,lte=100"`
	StartDate       *time.Time `json:"start_date"`
	ExpiryDate      time.Time  `json:"expiry_date" binding:"required"`
	IsActive        bool       `json:"is_active"`
}

// DiscountCodeResponse is the admin view of a discount code
type DiscountCodeResponse struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	DiscountPercent float64    `json:"discount_percent"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	ExpiryDate      time.Time  `json:"expiry_date"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ValidationResponse is the checkout-facing result of validating a code.
// Invalid codes carry no detail about why they failed.
type ValidationResponse struct {
	Valid           bool    `json:"valid"`
	Code            string  `json:"code,omitempty"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
}

// ToDiscountCodeResponse converts a discount code to its response form
func ToDiscountCodeResponse(dc *marketing.DiscountCode) DiscountCodeResponse {
	percent, _ := dc.DiscountPercent.Float64()
	return DiscountCodeResponse{
		ID:              dc.ID,
		Code:            dc.Code,
		DiscountPercent: percent,
		StartDate:       dc.StartDate,
		ExpiryDate:      dc.ExpiryDate,
		IsActive:        dc.IsActive,
		CreatedAt:       dc.CreatedAt,
	}
}

// ToDiscountCodeResponses converts a slice of discount codes
func ToDiscountCodeResponses(codes []*marketing.DiscountCode) []DiscountCodeResponse {
	responses := make([]DiscountCodeResponse, len(codes))
	for i, dc := range codes {
		responses[i] = ToDiscountCodeResponse(dc)
	}
	return responses
}
