package chat

import (
	"context"
	"errors"
	"strings"

	"petmarket/internal/domain"
	"petmarket/internal/relay"
	chatrepo "petmarket/internal/repository/chat"
)

// ErrNotParticipant is returned when a user touches a conversation they are
// not part of.
var ErrNotParticipant = errors.New("not a participant")

type userGetter interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type Service struct {
	repo  chatrepo.Repository
	users userGetter
	relay relay.Relay
}

func New(repo chatrepo.Repository, users userGetter, r relay.Relay) *Service {
	return &Service{repo: repo, users: users, relay: r}
}

// Open returns the conversation between the customer and the seller, creating
// it on first contact.
func (s *Service) Open(ctx context.Context, customerID, sellerID string) (*domain.Conversation, error) {
	if customerID == sellerID {
		return nil, errors.New("cannot chat with yourself")
	}
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Role != domain.RoleSeller {
		return nil, errors.New("recipient is not a seller")
	}
	return s.repo.GetOrCreateConversation(ctx, customerID, sellerID)
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// Messages pages a conversation oldest-first, optionally before a message id.
func (s *Service) Messages(ctx context.Context, userID, conversationID string, limit int, before string) ([]domain.Message, error) {
	if _, err := s.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID, limit, before)
}

// Send persists the message, then relays it to live subscribers. Relay
// failure does not undo persistence.
func (s *Service) Send(ctx context.Context, userID, conversationID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("message body required")
	}
	if _, err := s.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msg, err := s.repo.CreateMessage(ctx, domain.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Body:           body,
	})
	if err != nil {
		return nil, err
	}
	// Best effort: offline participants still see it on the next page load.
	_ = s.relay.Publish(ctx, *msg)
	return msg, nil
}

// Subscribe attaches to the conversation's live feed. The cancel func must be
// called when the consumer goes away.
func (s *Service) Subscribe(ctx context.Context, userID, conversationID string) (<-chan domain.Message, func(), error) {
	if _, err := s.conversationFor(ctx, userID, conversationID); err != nil {
		return nil, nil, err
	}
	return s.relay.Subscribe(ctx, conversationID)
}

func (s *Service) conversationFor(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	c, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if c.CustomerID != userID && c.SellerID != userID {
		return nil, ErrNotParticipant
	}
	return c, nil
}
