package postgres_test

import (
	"context"
	"testing"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	n := &domain.Notification{ID: "n1", UserID: "u2", Title: "New Trade Request", Link: "/inbox", DedupeKey: "trade-created:t1", CreatedAt: now}

	t.Run("Inserts", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO notifications (.+) ON CONFLICT \\(dedupe_key\\) DO NOTHING").
			WithArgs("n1", "u2", "New Trade Request", "", "/inbox", false, "trade-created:t1", now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		created, err := repo.Create(ctx, n)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("Duplicate key writes nothing", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO notifications").
			WillReturnResult(sqlmock.NewResult(0, 0))

		created, err := repo.Create(ctx, n)
		require.NoError(t, err)
		assert.False(t, created)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET read = TRUE WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("n1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkRead(context.Background(), "n1", "intruder")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
