package domain

import "time"

// Conversation links one customer with one seller. At most one per pair.
type Conversation struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	SellerID   string    `json:"sellerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sentAt"`
}
