package domain

import "time"

// Cart states.
const (
	CartStateActive  = "active"
	CartStateOrdered = "ordered"
)

// Cart belongs to either a registered customer or a guest, never both.
type Cart struct {
	ID         string     `json:"id"`
	CustomerID *string    `json:"customerId,omitempty"`
	GuestID    *string    `json:"-"`
	State      string     `json:"state"`
	CreatedAt  time.Time  `json:"createdAt"`
	Lines      []CartLine `json:"lineItems"`
}

// CartLine is one pet in a cart. Lines are unique per pet id.
type CartLine struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cartId"`
	PetID     string    `json:"petId"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	Images    []string  `json:"images,omitempty"`
	SellerID  string    `json:"sellerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemsPrice sums price*qty over all lines. Zero for an empty cart.
func (c Cart) ItemsPrice() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.UnitPrice * int64(l.Quantity)
	}
	return sum
}
