package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used when none is specified.
const DefaultCurrency = "EUR"

// Money represents a monetary amount with a currency
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney creates a Money value in the given currency
func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}
}

// NewMoneyFromFloat creates a Money value from a float amount
func NewMoneyFromFloat(amount float64, currency string) Money {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// Zero returns a zero amount in the default currency
func Zero() Money {
	return NewMoney(decimal.Zero, DefaultCurrency)
}

// Add adds two Money values of the same currency
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Mul multiplies the amount by a scalar quantity
func (m Money) Mul(qty int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(qty)), Currency: m.Currency}
}

// IsNegative reports whether the amount is below zero
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Equals compares amount and currency
func (m Money) Equals(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String formats the money as "12.34 EUR"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
