package token

import (
	"context"
	"time"
)

// Token is an opaque bearer credential. Exactly one of UserID/GuestID is set:
// customer and seller sessions carry a user id, anonymous carts a guest id.
type Token struct {
	Token     string
	UserID    *string
	GuestID   *string
	Kind      string
	ExpiresAt time.Time
}

type Repository interface {
	Create(ctx context.Context, t Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
