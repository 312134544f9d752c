package domain

import "time"

// Order statuses. Transitions are enforced by the order service.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipping  = "shipping"
	OrderDelivered = "delivered"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customerId"`
	SellerID    string      `json:"sellerId"`
	Status      string      `json:"status"`
	ItemsPrice  int64       `json:"itemsPrice"`
	ShippingFee int64       `json:"shippingFee"`
	Discount    int64       `json:"discount"`
	Total       int64       `json:"total"`
	CouponCode  string      `json:"couponCode,omitempty"`
	Address     Address     `json:"shippingAddress"`
	Lines       []OrderLine `json:"lineItems"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderLine snapshots the pet at checkout time so later edits to the listing
// do not rewrite order history.
type OrderLine struct {
	ID        string `json:"id"`
	OrderID   string `json:"orderId"`
	PetID     string `json:"petId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

type Address struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Note     string `json:"note,omitempty"`
}
