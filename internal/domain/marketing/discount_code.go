package marketing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reuseday/backend/internal/domain/shared"
)

// DiscountCode is a redeemable promotional code. Codes are matched
// case-insensitively, validity windows are compared at day granularity.
type DiscountCode struct {
	shared.BaseEntity
	Code            string
	DiscountPercent decimal.Decimal
	StartDate       *time.Time
	ExpiryDate      time.Time
	IsActive        bool
}

// NewDiscountCode creates an active discount code
func NewDiscountCode(code string, discountPercent decimal.Decimal, startDate *time.Time, expiryDate time.Time) (*DiscountCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Discount code cannot be empty")
	}
	if discountPercent.LessThanOrEqual(decimal.Zero) || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_PERCENT", "Discount percent must be between 0 and 100")
	}
	return &DiscountCode{
		BaseEntity:      shared.NewBaseEntity(),
		Code:            code,
		DiscountPercent: discountPercent,
		StartDate:       startDate,
		ExpiryDate:      expiryDate,
		IsActive:        true,
	}, nil
}

// NormalizedCode returns the code in its canonical uppercase form
func (d *DiscountCode) NormalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(d.Code))
}

// Matches compares the given input against the code, ignoring case
func (d *DiscountCode) Matches(input string) bool {
	return d.NormalizedCode() == strings.ToUpper(strings.TrimSpace(input))
}

// startOfDay truncates a time to midnight in its own location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay moves a time to the last instant of its day
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// IsValidAt reports whether the code can be redeemed at the given time.
// The whole expiry day counts as valid, the whole start day too.
func (d *DiscountCode) IsValidAt(now time.Time) bool {
	if !d.IsActive {
		return false
	}
	day := startOfDay(now)
	if day.After(endOfDay(d.ExpiryDate)) {
		return false
	}
	if d.StartDate != nil && day.Before(startOfDay(*d.StartDate)) {
		return false
	}
	return true
}

// Deactivate turns the code off without deleting it
func (d *DiscountCode) Deactivate() {
	d.IsActive = false
	d.Touch()
}

// Update replaces the mutable fields of the code
func (d *DiscountCode) Update(discountPercent decimal.Decimal, startDate *time.Time, expiryDate time.Time, isActive bool) error {
	if discountPercent.LessThanOrEqual(decimal.Zero) || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_PERCENT", "Discount percent must be between 0 and 100")
	}
	d.DiscountPercent = discountPercent
	d.StartDate = startDate
	d.ExpiryDate = expiryDate
	d.IsActive = isActive
	d.Touch()
	return nil
}
