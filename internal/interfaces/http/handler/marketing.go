package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	marketingapp "github.com/reuseday/backend/internal/application/marketing"
)

// DiscountHandler handles discount code API endpoints
type DiscountHandler struct {
	BaseHandler
	discountService *marketingapp.DiscountService
}

// NewDiscountHandler creates a new DiscountHandler
func NewDiscountHandler(discountService *marketingapp.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// Validate handles GET /discounts/validate?code=X. It is public,
// invalid codes return a negative result rather than an error.
func (h *DiscountHandler) Validate(c *gin.Context) {
	code := c.Query("code")

	resp, err := h.discountService.Validate(c.Request.Context(), code, time.Now())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Create handles POST /admin/discounts
func (h *DiscountHandler) Create(c *gin.Context) {
	var req marketingapp.CreateDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.discountService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Update handles PUT /admin/discounts/:id
func (h *DiscountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid discount code ID format")
		return
	}

	var req marketingapp.UpdateDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.discountService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete handles DELETE /admin/discounts/:id
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid discount code ID format")
		return
	}

	if err := h.discountService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /admin/discounts
func (h *DiscountHandler) List(c *gin.Context) {
	resp, err := h.discountService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
