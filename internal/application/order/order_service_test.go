package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reuseday/backend/internal/domain/identity"
	"github.com/reuseday/backend/internal/domain/order"
	"github.com/reuseday/backend/internal/domain/shared"
	"github.com/reuseday/backend/internal/domain/shared/valueobject"
)

func addressFixture() valueobject.Address {
	return valueobject.Address{
		FullName: "Jane Roe",
		Street:   "12 Canal Street",
		City:     "Amsterdam",
		ZipCode:  "1011AB",
		Country:  "NL",
	}
}

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindRoleForUser(ctx context.Context, userID, orderID uuid.UUID) (order.Role, error) {
	args := m.Called(ctx, userID, orderID)
	return args.Get(0).(order.Role), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *identity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAdmins(ctx context.Context) ([]*identity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.User), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func placeRequest(sellerID uuid.UUID, mode string) PlaceOrderRequest {
	return PlaceOrderRequest{
		Items: []PlaceOrderItemRequest{{
			ProductID: uuid.New(),
			Title:     "Vintage desk lamp",
			UnitPrice: 24.50,
			Quantity:  1,
			SellerID:  sellerID,
		}},
		Address: AddressRequest{
			FullName: "Jane Roe",
			Street:   "12 Canal Street",
			City:     "Amsterdam",
			ZipCode:  "1011AB",
			Country:  "NL",
		},
		Total:       24.50,
		SellingMode: mode,
	}
}

func storedSecureOrder(t *testing.T, buyerID, sellerID uuid.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(buyerID, []order.Item{{
		ProductID: uuid.New(),
		Title:     "Vintage desk lamp",
		UnitPrice: decimal.NewFromFloat(24.50),
		Currency:  "EUR",
		Quantity:  1,
		SellerID:  sellerID,
	}}, addressFixture(), valueobject.NewMoneyFromFloat(24.50, "EUR"), order.SellingModeSecure)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestService_Place(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("secure order is saved and placement event published", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		userRepo := new(MockUserRepository)
		publisher := new(MockEventPublisher)
		service := NewService(orderRepo, userRepo)
		service.SetEventPublisher(publisher)

		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := service.Place(context.Background(), buyerID, placeRequest(sellerID, "secure"))

		require.NoError(t, err)
		assert.Equal(t, "AwaitingShipment", resp.Status)
		assert.Equal(t, sellerID, resp.SellerID)
		assert.Len(t, resp.ShortRef, 6)
		orderRepo.AssertExpectations(t)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("direct order completes immediately", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil)

		resp, err := service.Place(context.Background(), buyerID, placeRequest(sellerID, "direct"))

		require.NoError(t, err)
		assert.Equal(t, "Completed", resp.Status)
		assert.NotNil(t, resp.CompletedAt)
	})

	t.Run("invalid mode is rejected before saving", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		_, err := service.Place(context.Background(), buyerID, placeRequest(sellerID, "auction"))

		require.Error(t, err)
		orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("save failure is returned", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := service.Place(context.Background(), buyerID, placeRequest(sellerID, "secure"))

		assert.Error(t, err)
	})
}

func TestService_MarkShipped(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("seller ships, event published after lock save", func(t *testing.T) {
		o := storedSecureOrder(t, buyerID, sellerID)
		orderRepo := new(MockOrderRepository)
		publisher := new(MockEventPublisher)
		service := NewService(orderRepo, new(MockUserRepository))
		service.SetEventPublisher(publisher)

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := service.MarkShipped(context.Background(), sellerID, o.ID)

		require.NoError(t, err)
		assert.Equal(t, "Shipped", resp.Status)
		assert.Empty(t, o.GetDomainEvents(), "events cleared after publish")
		orderRepo.AssertExpectations(t)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("buyer cannot ship", func(t *testing.T) {
		o := storedSecureOrder(t, buyerID, sellerID)
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := service.MarkShipped(context.Background(), buyerID, o.ID)

		require.Error(t, err)
		orderRepo.AssertNotCalled(t, "SaveWithLock")
	})

	t.Run("unknown order", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderID := uuid.New()
		orderRepo.On("FindByID", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

		_, err := service.MarkShipped(context.Background(), sellerID, orderID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ConfirmReceipt(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("buyer completes a shipped order", func(t *testing.T) {
		o := storedSecureOrder(t, buyerID, sellerID)
		require.NoError(t, o.MarkShipped(sellerID))
		o.ClearDomainEvents()

		orderRepo := new(MockOrderRepository)
		publisher := new(MockEventPublisher)
		service := NewService(orderRepo, new(MockUserRepository))
		service.SetEventPublisher(publisher)

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := service.ConfirmReceipt(context.Background(), buyerID, o.ID)

		require.NoError(t, err)
		assert.Equal(t, "Completed", resp.Status)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("version conflict propagates", func(t *testing.T) {
		o := storedSecureOrder(t, buyerID, sellerID)
		require.NoError(t, o.MarkShipped(sellerID))
		o.ClearDomainEvents()

		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(shared.ErrConflict)

		_, err := service.ConfirmReceipt(context.Background(), buyerID, o.ID)

		assert.ErrorIs(t, err, shared.ErrConflict)
	})
}

func TestService_Rate(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	completedOrder := func(t *testing.T) *order.Order {
		o := storedSecureOrder(t, buyerID, sellerID)
		require.NoError(t, o.MarkShipped(sellerID))
		require.NoError(t, o.ConfirmReceipt(buyerID))
		o.ClearDomainEvents()
		return o
	}

	t.Run("rating mirrors onto the seller profile without events", func(t *testing.T) {
		o := completedOrder(t)
		seller := &identity.User{BaseEntity: shared.NewBaseEntity(), Role: identity.RoleUser}
		seller.ID = sellerID

		orderRepo := new(MockOrderRepository)
		userRepo := new(MockUserRepository)
		publisher := new(MockEventPublisher)
		service := NewService(orderRepo, userRepo)
		service.SetEventPublisher(publisher)

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		userRepo.On("FindByID", mock.Anything, sellerID).Return(seller, nil)
		userRepo.On("Update", mock.Anything, seller).Return(nil)

		resp, err := service.Rate(context.Background(), buyerID, o.ID, RateOrderRequest{Stars: 5, Comment: "Great seller"})

		require.NoError(t, err)
		assert.True(t, resp.BuyerRating.Rated)
		require.Len(t, seller.SellerRatings, 1)
		assert.Equal(t, 5, seller.SellerRatings[0].Stars)
		assert.Equal(t, buyerID, seller.SellerRatings[0].RaterID)
		publisher.AssertNotCalled(t, "Publish")
		userRepo.AssertExpectations(t)
	})

	t.Run("second rating is rejected before any write", func(t *testing.T) {
		o := completedOrder(t)
		require.NoError(t, o.Rate(buyerID, 4, ""))

		orderRepo := new(MockOrderRepository)
		userRepo := new(MockUserRepository)
		service := NewService(orderRepo, userRepo)

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		_, err := service.Rate(context.Background(), buyerID, o.ID, RateOrderRequest{Stars: 1})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_RATED", domainErr.Code)
		orderRepo.AssertNotCalled(t, "SaveWithLock")
		userRepo.AssertNotCalled(t, "Update")
	})

	t.Run("self purchase skips the profile mirror", func(t *testing.T) {
		o := storedSecureOrder(t, buyerID, buyerID)
		require.NoError(t, o.MarkShipped(buyerID))
		require.NoError(t, o.ConfirmReceipt(buyerID))
		o.ClearDomainEvents()

		orderRepo := new(MockOrderRepository)
		userRepo := new(MockUserRepository)
		service := NewService(orderRepo, userRepo)

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)

		_, err := service.Rate(context.Background(), buyerID, o.ID, RateOrderRequest{Stars: 3})

		require.NoError(t, err)
		userRepo.AssertNotCalled(t, "FindByID")
	})
}

func TestService_GetByID(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("seller sees payment held projection", func(t *testing.T) {
		o := storedSecureOrder(t, buyerID, sellerID)
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("FindRoleForUser", mock.Anything, sellerID, o.ID).Return(order.RoleSeller, nil)

		resp, err := service.GetByID(context.Background(), sellerID, o.ID)

		require.NoError(t, err)
		assert.Equal(t, "PaymentHeld", resp.Status)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		o := storedSecureOrder(t, buyerID, sellerID)
		stranger := uuid.New()
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		orderRepo.On("FindRoleForUser", mock.Anything, stranger, o.ID).Return(order.Role(""), shared.ErrNotFound)

		_, err := service.GetByID(context.Background(), stranger, o.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ListForUser(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("returns projected orders", func(t *testing.T) {
		o := storedSecureOrder(t, buyerID, sellerID)
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("FindForUser", mock.Anything, sellerID).Return([]*order.Order{o}, nil)

		resp, err := service.ListForUser(context.Background(), sellerID)

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "PaymentHeld", resp[0].Status)
	})

	t.Run("read failure yields empty list", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("FindForUser", mock.Anything, buyerID).Return(nil, errors.New("db down"))

		resp, err := service.ListForUser(context.Background(), buyerID)

		require.NoError(t, err)
		assert.Empty(t, resp)
	})
}

func TestService_ListAllForAdmin(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("returns unprojected orders", func(t *testing.T) {
		o := storedSecureOrder(t, buyerID, sellerID)
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("FindAll", mock.Anything).Return([]*order.Order{o}, nil)

		resp, err := service.ListAllForAdmin(context.Background())

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "AwaitingShipment", resp[0].Status, "admin view is unprojected")
	})

	t.Run("read failure yields empty list", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewService(orderRepo, new(MockUserRepository))

		orderRepo.On("FindAll", mock.Anything).Return(nil, errors.New("db down"))

		resp, err := service.ListAllForAdmin(context.Background())

		require.NoError(t, err)
		assert.Empty(t, resp)
	})
}
