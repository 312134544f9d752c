package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"petmarket/internal/domain"
	orderrepo "petmarket/internal/repository/order"
	accountsvc "petmarket/internal/service/account"
	chatsvc "petmarket/internal/service/chat"
	couponsvc "petmarket/internal/service/coupon"
	ordersvc "petmarket/internal/service/order"
	petsvc "petmarket/internal/service/pet"
)

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// respondServiceError maps known service errors onto HTTP statuses. Anything
// unrecognized is a 400 so validation messages surface to the client.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		respondError(c, http.StatusConflict, "already exists")
	case errors.Is(err, petsvc.ErrForbidden),
		errors.Is(err, ordersvc.ErrForbidden),
		errors.Is(err, chatsvc.ErrNotParticipant):
		respondError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, accountsvc.ErrInvalidCredentials),
		errors.Is(err, accountsvc.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ordersvc.ErrInvalidTransition):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, orderrepo.ErrNotEnoughStock):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, couponsvc.ErrInvalidCoupon),
		errors.Is(err, couponsvc.ErrBelowMinOrder),
		errors.Is(err, ordersvc.ErrEmptyCart):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(c, http.StatusBadRequest, err.Error())
	}
}
