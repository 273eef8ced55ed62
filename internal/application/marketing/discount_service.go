package marketing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reuseday/backend/internal/domain/marketing"
	"github.com/reuseday/backend/internal/domain/shared"
)

// DiscountCache caches discount codes by their normalized value so
// checkout validation does not hit the database on every keystroke.
type DiscountCache interface {
	Get(ctx context.Context, normalizedCode string) (*marketing.DiscountCode, bool)
	Set(ctx context.Context, normalizedCode string, dc *marketing.DiscountCode)
	Invalidate(ctx context.Context, normalizedCode string)
}

// DiscountService handles discount code operations
type DiscountService struct {
	repo  marketing.DiscountCodeRepository
	cache DiscountCache
}

// NewDiscountService creates a new DiscountService
func NewDiscountService(repo marketing.DiscountCodeRepository) *DiscountService {
	return &DiscountService{repo: repo}
}

// SetCache sets an optional read-through cache for validation
func (s *DiscountService) SetCache(cache DiscountCache) {
	s.cache = cache
}

// Validate checks a code at checkout. Unknown, inactive and out-of-window
// codes all yield the same invalid result, the caller learns nothing
// about why.
func (s *DiscountService) Validate(ctx context.Context, code string, now time.Time) (*ValidationResponse, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return &ValidationResponse{Valid: false}, nil
	}

	dc, err := s.lookup(ctx, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &ValidationResponse{Valid: false}, nil
		}
		return nil, err
	}

	if !dc.IsValidAt(now) {
		return &ValidationResponse{Valid: false}, nil
	}

	percent, _ := dc.DiscountPercent.Float64()
	return &ValidationResponse{
		Valid:           true,
		Code:            dc.NormalizedCode(),
		DiscountPercent: percent,
	}, nil
}

// lookup reads through the cache when one is configured
func (s *DiscountService) lookup(ctx context.Context, normalized string) (*marketing.DiscountCode, error) {
	if s.cache != nil {
		if dc, ok := s.cache.Get(ctx, normalized); ok {
			return dc, nil
		}
	}

	dc, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, normalized, dc)
	}
	return dc, nil
}

// Create adds a new discount code. Codes are unique ignoring case.
func (s *DiscountService) Create(ctx context.Context, req CreateDiscountCodeRequest) (*DiscountCodeResponse, error) {
	dc, err := marketing.NewDiscountCode(req.Code, decimal.NewFromFloat(req.DiscountPercent), req.StartDate, req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, dc.NormalizedCode())
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.repo.Save(ctx, dc); err != nil {
		return nil, err
	}

	response := ToDiscountCodeResponse(dc)
	return &response, nil
}

// Update changes a discount code's terms and invalidates its cache entry
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, req UpdateDiscountCodeRequest) (*DiscountCodeResponse, error) {
	dc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := dc.Update(decimal.NewFromFloat(req.DiscountPercent), req.StartDate, req.ExpiryDate, req.IsActive); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, dc); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, dc.NormalizedCode())
	}

	response := ToDiscountCodeResponse(dc)
	return &response, nil
}

// Delete removes a discount code and invalidates its cache entry
func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	dc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, dc.NormalizedCode())
	}
	return nil
}

// List returns all discount codes for the admin panel
func (s *DiscountService) List(ctx context.Context) ([]DiscountCodeResponse, error) {
	codes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToDiscountCodeResponses(codes), nil
}
