package postgres

import (
	"context"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) (bool, error) {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID, "title", n.Title, "dedupeKey", n.DedupeKey)

	query := `INSERT INTO notifications (id, user_id, title, description, link, read, dedupe_key, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT (dedupe_key) DO NOTHING`
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID)
	res, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Description, n.Link, n.Read, nullString(n.DedupeKey), n.CreatedAt)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "userID", n.UserID)
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
		return false, classify(err, "notification")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, classify(err, "notification")
	}
	logger.DatabaseResult("INSERT", rows, nil, "notificationID", n.ID)
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID, "created", rows > 0)
	return rows > 0, nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, classify(err, "notification")
	}

	query := `SELECT id, user_id, title, description, link, read, created_at
	          FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, classify(err, "notification")
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Link, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, classify(err, "notification")
		}
		notes = append(notes, n)
	}
	return notes, count, classify(rows.Err(), "notification")
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return classify(err, "notification")
	}
	return expectOne(res, "notification")
}
