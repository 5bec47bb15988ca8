package postgres

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"
)

type eventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Append(ctx context.Context, e *domain.ChangeEvent) error {
	query := `INSERT INTO change_events (id, kind, entity_id, payload, created_at, attempts) VALUES ($1, $2, $3, $4, $5, 0)`
	logger.DatabaseCall("INSERT", "change_events", "kind", e.Kind, "entityID", e.EntityID)
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Kind, e.EntityID, []byte(e.Payload), e.CreatedAt)
	return classify(err, "change event")
}

// ClaimPending leases events with SKIP LOCKED so several workers can drain
// the outbox without handing the same event to two of them.
func (r *eventRepository) ClaimPending(ctx context.Context, limit int, now time.Time, lease time.Duration) ([]domain.ChangeEvent, error) {
	query := `UPDATE change_events SET attempts = attempts + 1, claimed_until = $1
	          WHERE id IN (
	              SELECT id FROM change_events
	              WHERE delivered_at IS NULL AND (claimed_until IS NULL OR claimed_until < $2)
	              ORDER BY created_at, id LIMIT $3
	              FOR UPDATE SKIP LOCKED)
	          RETURNING id, kind, entity_id, payload, created_at, attempts, COALESCE(last_error, '')`
	logger.DatabaseCall("UPDATE", "change_events.claim", "limit", limit)
	rows, err := r.db.QueryContext(ctx, query, now.Add(lease), now, limit)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return nil, classify(err, "change event")
	}
	defer rows.Close()

	var events []domain.ChangeEvent
	for rows.Next() {
		var e domain.ChangeEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.Kind, &e.EntityID, &payload, &e.CreatedAt, &e.Attempts, &e.LastError); err != nil {
			return nil, classify(err, "change event")
		}
		e.Payload = payload
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "change event")
	}
	// RETURNING does not preserve the subquery order.
	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	logger.DatabaseResult("UPDATE", int64(len(events)), nil)
	return events, nil
}

func (r *eventRepository) MarkDelivered(ctx context.Context, id string, handlerErr string, now time.Time) error {
	lastErr := sql.NullString{String: handlerErr, Valid: handlerErr != ""}
	res, err := r.db.ExecContext(ctx, `UPDATE change_events SET delivered_at = $1, last_error = $2 WHERE id = $3`, now, lastErr, id)
	if err != nil {
		return classify(err, "change event")
	}
	return expectOne(res, "change event")
}
