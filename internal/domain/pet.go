package domain

import "time"

// Pet is a listed item: a live animal or an accessory, depending on its category.
type Pet struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"sellerId"`
	CategoryID  string    `json:"categoryId"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Price       int64     `json:"price"`
	Gender      string    `json:"gender,omitempty"`
	City        string    `json:"city,omitempty"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Sort keys accepted by the listing endpoint. Anything else falls back to newest.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)
