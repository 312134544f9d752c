package chat

import (
	"context"
	"errors"
	"strconv"

	"petmarket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetOrCreateConversation(ctx context.Context, customerID, sellerID string) (*domain.Conversation, error) {
	const q = `
INSERT INTO conversations (customer_id, seller_id)
VALUES ($1, $2)
ON CONFLICT (customer_id, seller_id) DO UPDATE
SET customer_id = EXCLUDED.customer_id
RETURNING id::text, customer_id::text, seller_id::text, created_at
`
	var c domain.Conversation
	if err := r.pool.QueryRow(ctx, q, customerID, sellerID).Scan(&c.ID, &c.CustomerID, &c.SellerID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	const q = `
SELECT id::text, customer_id::text, seller_id::text, created_at
FROM conversations
WHERE id = $1
`
	var c domain.Conversation
	if err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.CustomerID, &c.SellerID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	const q = `
SELECT id::text, customer_id::text, seller_id::text, created_at
FROM conversations
WHERE customer_id = $1 OR seller_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.CustomerID, &c.SellerID, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) ListMessages(ctx context.Context, conversationID string, limit int, before string) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `
SELECT id::text, conversation_id::text, sender_id::text, body, sent_at
FROM messages
WHERE conversation_id = $1
`
	args := []interface{}{conversationID}
	if before != "" {
		q += ` AND sent_at < (SELECT sent_at FROM messages WHERE id = $2)`
		args = append(args, before)
	}
	q += ` ORDER BY sent_at DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.SentAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Oldest first for rendering.
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

func (r *postgresRepo) CreateMessage(ctx context.Context, m domain.Message) (*domain.Message, error) {
	const q = `
INSERT INTO messages (conversation_id, sender_id, body)
VALUES ($1, $2, $3)
RETURNING id::text, sent_at
`
	out := m
	if err := r.pool.QueryRow(ctx, q, m.ConversationID, m.SenderID, m.Body).Scan(&out.ID, &out.SentAt); err != nil {
		return nil, err
	}
	return &out, nil
}
