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

func TestEventRepository_ClaimPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewEventRepository(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	lease := time.Minute

	mock.ExpectQuery("UPDATE change_events SET attempts = attempts \\+ 1 (.+) FOR UPDATE SKIP LOCKED").
		WithArgs(now.Add(lease), now, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "kind", "entity_id", "payload", "created_at", "attempts", "last_error"}).
			AddRow("e2", "trade.status_changed", "t1", []byte(`{"trade_id":"t1"}`), now.Add(time.Second), 1, "").
			AddRow("e1", "trade.created", "t1", []byte(`{"trade_id":"t1"}`), now, 1, ""))

	events, err := repo.ClaimPending(context.Background(), 10, now, lease)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, domain.EventTradeCreated, events[0].Kind)
	assert.Equal(t, "e2", events[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_MarkDelivered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewEventRepository(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE change_events SET delivered_at = \\$1, last_error = \\$2 WHERE id = \\$3").
		WithArgs(now, "user not found", "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkDelivered(context.Background(), "e1", "user not found", now))
	assert.NoError(t, mock.ExpectationsWereMet())
}
