package order

import (
	"context"
	"errors"

	"petmarket/internal/domain"
)

// ErrNotEnoughStock is returned when checkout would take a pet's stock
// below zero.
var ErrNotEnoughStock = errors.New("not enough stock")

type Repository interface {
	// CreateFromCart atomically decrements stock for every line, inserts the
	// given orders with their lines and closes the cart.
	CreateFromCart(ctx context.Context, cartID string, orders []domain.Order) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Order, error)
	// SetStatus applies from→to only when the order is still in from.
	SetStatus(ctx context.Context, id, from, to string) (*domain.Order, error)
	// Cancel sets the order cancelled (guarded by from) and restores stock.
	Cancel(ctx context.Context, id, from string) (*domain.Order, error)
}
