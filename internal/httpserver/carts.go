package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cartHandlers struct {
	svc CartService
}

type addItemRequest struct {
	PetID    string `json:"petId" binding:"required"`
	Quantity int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h cartHandlers) get(c *gin.Context) {
	cart, err := h.svc.Get(c.Request.Context(), currentOwner(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h cartHandlers) addItem(c *gin.Context) {
	var in addItemRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "petId required")
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	cart, err := h.svc.AddItem(c.Request.Context(), currentOwner(c), in.PetID, in.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h cartHandlers) changeQuantity(c *gin.Context) {
	var in quantityRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "quantity required")
		return
	}
	cart, err := h.svc.ChangeQuantity(c.Request.Context(), currentOwner(c), c.Param("lineId"), in.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

func (h cartHandlers) removeItem(c *gin.Context) {
	cart, err := h.svc.RemoveItem(c.Request.Context(), currentOwner(c), c.Param("lineId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// quote prices the cart, optionally applying ?coupon=CODE.
func (h cartHandlers) quote(c *gin.Context) {
	q, err := h.svc.PriceQuote(c.Request.Context(), currentOwner(c), c.Query("coupon"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": q})
}
