package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petmarket/internal/domain"
	ordersvc "petmarket/internal/service/order"
)

type orderHandlers struct {
	svc OrderService
}

type orderActionRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h orderHandlers) checkout(c *gin.Context) {
	var in ordersvc.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	u, _ := currentUser(c)
	orders, err := h.svc.Checkout(c.Request.Context(), u.ID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orders": orders})
}

func (h orderHandlers) listMine(c *gin.Context) {
	u, _ := currentUser(c)
	orders, err := h.svc.ListForCustomer(c.Request.Context(), u.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h orderHandlers) listForSeller(c *gin.Context) {
	u, _ := currentUser(c)
	orders, err := h.svc.ListForSeller(c.Request.Context(), u.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h orderHandlers) get(c *gin.Context) {
	u, _ := currentUser(c)
	order, err := h.svc.Get(c.Request.Context(), *u, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// action applies one workflow step: confirm, ship, deliver, complete, cancel.
func (h orderHandlers) action(c *gin.Context) {
	var in orderActionRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "action required")
		return
	}
	u, _ := currentUser(c)
	order, err := h.svc.Advance(c.Request.Context(), *u, c.Param("id"), in.Action)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
