package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	marketingapp "github.com/reuseday/backend/internal/application/marketing"
	"github.com/reuseday/backend/internal/domain/marketing"
	"github.com/reuseday/backend/internal/domain/shared"
	"github.com/reuseday/backend/internal/interfaces/http/dto"
)

type mockDiscountRepo struct {
	mock.Mock
}

func (m *mockDiscountRepo) Save(ctx context.Context, dc *marketing.DiscountCode) error {
	args := m.Called(ctx, dc)
	return args.Error(0)
}

func (m *mockDiscountRepo) Update(ctx context.Context, dc *marketing.DiscountCode) error {
	args := m.Called(ctx, dc)
	return args.Error(0)
}

func (m *mockDiscountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDiscountRepo) FindByID(ctx context.Context, id uuid.UUID) (*marketing.DiscountCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.DiscountCode), args.Error(1)
}

func (m *mockDiscountRepo) FindByCode(ctx context.Context, code string) (*marketing.DiscountCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.DiscountCode), args.Error(1)
}

func (m *mockDiscountRepo) FindAll(ctx context.Context) ([]*marketing.DiscountCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*marketing.DiscountCode), args.Error(1)
}

func setupDiscountRouter(repo *mockDiscountRepo) *gin.Engine {
	svc := marketingapp.NewDiscountService(repo)
	h := NewDiscountHandler(svc)

	engine := gin.New()
	engine.GET("/discounts/validate", h.Validate)
	return engine
}

func TestDiscountHandler_Validate(t *testing.T) {
	t.Run("valid code returns percent", func(t *testing.T) {
		repo := new(mockDiscountRepo)
		dc, err := marketing.NewDiscountCode("SUMMER20", decimal.NewFromInt(20), nil, time.Now().AddDate(0, 1, 0))
		require.NoError(t, err)
		repo.On("FindByCode", mock.Anything, "SUMMER20").Return(dc, nil)

		engine := setupDiscountRouter(repo)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/discounts/validate?code=summer20", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, true, data["valid"])
		assert.Equal(t, "SUMMER20", data["code"])
		assert.Equal(t, 20.0, data["discount_percent"])
	})

	t.Run("unknown code is invalid, not an error", func(t *testing.T) {
		repo := new(mockDiscountRepo)
		repo.On("FindByCode", mock.Anything, "NOPE").Return(nil, shared.ErrNotFound)

		engine := setupDiscountRouter(repo)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/discounts/validate?code=nope", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, false, data["valid"])
		assert.NotContains(t, data, "discount_percent")
	})

	t.Run("empty code skips the repository", func(t *testing.T) {
		repo := new(mockDiscountRepo)

		engine := setupDiscountRouter(repo)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/discounts/validate", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		repo.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
	})
}
