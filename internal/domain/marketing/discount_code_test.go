package marketing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCode(t *testing.T, code string, start *time.Time, expiry time.Time) *DiscountCode {
	t.Helper()
	dc, err := NewDiscountCode(code, decimal.NewFromInt(10), start, expiry)
	require.NoError(t, err)
	return dc
}

func TestNewDiscountCode(t *testing.T) {
	t.Run("creates an active code", func(t *testing.T) {
		dc := newCode(t, "SUMMER10", nil, time.Now().AddDate(0, 1, 0))

		assert.True(t, dc.IsActive)
		assert.Equal(t, "SUMMER10", dc.Code)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewDiscountCode("   ", decimal.NewFromInt(10), nil, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects percent out of range", func(t *testing.T) {
		_, err := NewDiscountCode("X", decimal.NewFromInt(0), nil, time.Now())
		assert.Error(t, err)

		_, err = NewDiscountCode("X", decimal.NewFromInt(101), nil, time.Now())
		assert.Error(t, err)
	})
}

func TestDiscountCode_Matches(t *testing.T) {
	dc := newCode(t, "Summer10", nil, time.Now().AddDate(0, 1, 0))

	assert.True(t, dc.Matches("SUMMER10"))
	assert.True(t, dc.Matches("summer10"))
	assert.True(t, dc.Matches("  sUmMeR10 "))
	assert.False(t, dc.Matches("SUMMER2"))
}

func TestDiscountCode_IsValidAt(t *testing.T) {
	now := time.Date(2026, 8, 15, 14, 30, 0, 0, time.UTC)

	t.Run("valid through the whole expiry day", func(t *testing.T) {
		expiry := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
		dc := newCode(t, "LASTDAY", nil, expiry)

		assert.True(t, dc.IsValidAt(now))
		assert.False(t, dc.IsValidAt(now.AddDate(0, 0, 1)))
	})

	t.Run("valid from the start of the start day", func(t *testing.T) {
		start := time.Date(2026, 8, 15, 23, 0, 0, 0, time.UTC)
		dc := newCode(t, "TODAY", &start, now.AddDate(0, 1, 0))

		assert.True(t, dc.IsValidAt(now), "start-day time of day is ignored")
		assert.False(t, dc.IsValidAt(now.AddDate(0, 0, -1)))
	})

	t.Run("inactive code is never valid", func(t *testing.T) {
		dc := newCode(t, "OFF", nil, now.AddDate(0, 1, 0))
		dc.Deactivate()

		assert.False(t, dc.IsValidAt(now))
	})
}

func TestDiscountCode_Update(t *testing.T) {
	dc := newCode(t, "SPRING", nil, time.Now().AddDate(0, 1, 0))

	newExpiry := time.Now().AddDate(0, 2, 0)
	err := dc.Update(decimal.NewFromInt(25), nil, newExpiry, false)

	require.NoError(t, err)
	assert.True(t, dc.DiscountPercent.Equal(decimal.NewFromInt(25)))
	assert.False(t, dc.IsActive)

	err = dc.Update(decimal.NewFromInt(200), nil, newExpiry, true)
	assert.Error(t, err)
}
