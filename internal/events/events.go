package events

import (
	"context"
	"time"
)

// OrderStatusEvent is emitted once per applied order transition. The seller
// console and the notification pipeline consume these.
type OrderStatusEvent struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	SellerID   string    `json:"seller_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	PublishOrderStatus(ctx context.Context, ev OrderStatusEvent) error
}
