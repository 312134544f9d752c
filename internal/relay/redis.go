package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"petmarket/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisRelay struct {
	client *redis.Client
	logger *log.Logger
}

func NewRedis(client *redis.Client, logger *log.Logger) *RedisRelay {
	return &RedisRelay{client: client, logger: logger}
}

func (r *RedisRelay) Publish(ctx context.Context, m domain.Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := r.client.Publish(ctx, channel(m.ConversationID), data).Err(); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (r *RedisRelay) Subscribe(ctx context.Context, conversationID string) (<-chan domain.Message, func(), error) {
	sub := r.client.Subscribe(ctx, channel(conversationID))
	// Force the subscription to be established before we hand out the channel.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan domain.Message)
	go func() {
		defer close(out)
		for raw := range sub.Channel() {
			var m domain.Message
			if err := json.Unmarshal([]byte(raw.Payload), &m); err != nil {
				r.logger.Printf("relay: drop malformed payload on %s: %v", raw.Channel, err)
				continue
			}
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		if err := sub.Close(); err != nil {
			r.logger.Printf("relay: close subscription: %v", err)
		}
	}
	return out, cancel, nil
}

func channel(conversationID string) string {
	return "chat:" + conversationID
}
