package postgres

import (
	"context"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository"
)

type messageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (id, trade_id, sender_id, text, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.TradeID, m.SenderID, m.Text, m.CreatedAt)
	return classify(err, "message")
}

func (r *messageRepository) ListByTrade(ctx context.Context, tradeID string) ([]domain.Message, error) {
	query := `SELECT id, trade_id, sender_id, text, created_at FROM messages WHERE trade_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, tradeID)
	if err != nil {
		return nil, classify(err, "message")
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.TradeID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, classify(err, "message")
		}
		msgs = append(msgs, m)
	}
	return msgs, classify(rows.Err(), "message")
}
