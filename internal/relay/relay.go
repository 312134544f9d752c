// Package relay fans chat messages out to whichever API instance holds the
// receiving end of a conversation.
package relay

import (
	"context"

	"petmarket/internal/domain"
)

type Relay interface {
	Publish(ctx context.Context, m domain.Message) error
	// Subscribe delivers messages for one conversation until cancel is
	// called. Delivery ordering across resubscribes is not guaranteed.
	Subscribe(ctx context.Context, conversationID string) (<-chan domain.Message, func(), error)
}
