package chat

import (
	"context"

	"petmarket/internal/domain"
)

type Repository interface {
	// GetOrCreateConversation returns the conversation between the pair,
	// creating it on first contact.
	GetOrCreateConversation(ctx context.Context, customerID, sellerID string) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, limit int, before string) ([]domain.Message, error)
	CreateMessage(ctx context.Context, m domain.Message) (*domain.Message, error)
}
