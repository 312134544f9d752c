package cart

import (
	"context"

	"petmarket/internal/domain"
)

type CreateCartInput struct {
	CustomerID *string
	GuestID    *string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, customerID string) (*domain.Cart, error)
	GetActiveByGuest(ctx context.Context, guestID string) (*domain.Cart, error)
	// AssignCustomerToGuest hands a guest's active cart to the customer they
	// just logged in as.
	AssignCustomerToGuest(ctx context.Context, guestID, customerID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, pet domain.Pet, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
	Close(ctx context.Context, cartID string) error
	// Delete drops a cart and its lines, e.g. a guest cart folded into a
	// customer cart at login.
	Delete(ctx context.Context, cartID string) error
}
