package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	couponsvc "petmarket/internal/service/coupon"
)

type couponHandlers struct {
	svc   CouponService
	carts CartService
}

type validateCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// validate checks a code against the caller's current cart subtotal.
func (h couponHandlers) validate(c *gin.Context) {
	var in validateCouponRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "code required")
		return
	}
	cart, err := h.carts.Get(c.Request.Context(), currentOwner(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	discount, err := h.svc.Validate(c.Request.Context(), in.Code, cart.ItemsPrice())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": in.Code, "discount": discount})
}

func (h couponHandlers) list(c *gin.Context) {
	coupons, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

func (h couponHandlers) create(c *gin.Context) {
	var in couponsvc.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	coupon, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

func (h couponHandlers) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
