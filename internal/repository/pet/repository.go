package pet

import (
	"context"

	"petmarket/internal/domain"
)

// ListFilter narrows and orders the listing query. CategoryIDs is the already
// materialized id set (detail ids, or a parent subtree).
type ListFilter struct {
	Keyword     string
	CategoryIDs []string
	SellerID    string
	PriceMin    int64
	PriceMax    int64
	Gender      string
	City        string
	Sort        string
	Page        int
	Limit       int
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]domain.Pet, int, error)
	GetByID(ctx context.Context, id string) (*domain.Pet, error)
	Create(ctx context.Context, p domain.Pet) (*domain.Pet, error)
	Update(ctx context.Context, p domain.Pet) (*domain.Pet, error)
	Delete(ctx context.Context, id string) error
}
