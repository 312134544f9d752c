package cache

import (
	"context"
	"errors"

	"petmarket/internal/domain"
)

// ErrCacheMiss means the owner has no cached cart.
var ErrCacheMiss = errors.New("cache miss")

// CartCache keeps the latest cart snapshot per owner (customer or guest id).
type CartCache interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Set(ctx context.Context, ownerID string, cart *domain.Cart) error
	Delete(ctx context.Context, ownerID string) error
}
