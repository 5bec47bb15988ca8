package postgres_test

import (
	"context"
	"database/sql"
	"math"
	"testing"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository"
	"swapcircle-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var itemCols = []string{"id", "owner_id", "owner_name", "name", "description", "category", "condition", "location",
	"landmark", "looking_for", "image_url", "thumbnail_url", "status", "trade_type", "loan_duration_days", "created_at", "updated_at"}

func TestItemRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewItemRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		item := &domain.Item{
			ID: "item-1", OwnerID: "u1", OwnerName: "Ana", Name: "Drill", Category: "tools",
			Condition: domain.ItemConditionGood, Status: domain.ItemStatusAvailable,
			Preference: domain.TemporaryTerms{DurationDays: 14}, CreatedAt: now, UpdatedAt: now,
		}
		mock.ExpectExec("INSERT INTO items").
			WithArgs("item-1", "u1", "Ana", "Drill", "", "tools", domain.ItemConditionGood, "", "", "", "", "",
				domain.ItemStatusAvailable, domain.TradeTypeTemporary, 14, now, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, item))
	})

	t.Run("Duplicate id is a conflict", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO items").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &domain.Item{ID: "item-1", Preference: domain.PermanentTerms{}})
		assert.ErrorIs(t, err, domain.ErrStateConflict)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_GetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewItemRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Rebuilds temporary terms", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM items WHERE id = \\$1 FOR UPDATE").
			WithArgs("item-1").
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow("item-1", "u1", "Ana", "Drill", "", "tools", "good", "", "", "",
				"", "", "on-loan", "temporary", 7, now, now))

		item, err := repo.GetForUpdate(ctx, "item-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ItemStatusOnLoan, item.Status)
		assert.Equal(t, domain.TemporaryTerms{DurationDays: 7}, item.Preference)
	})

	t.Run("Permanent terms have no duration", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM items WHERE id = \\$1 FOR UPDATE").
			WithArgs("item-2").
			WillReturnRows(sqlmock.NewRows(itemCols).AddRow("item-2", "u1", "Ana", "Lamp", "", "home", "fair", "", "", "",
				"", "", "available", "permanent", nil, now, now))

		item, err := repo.GetForUpdate(ctx, "item-2")
		require.NoError(t, err)
		assert.Equal(t, domain.PermanentTerms{}, item.Preference)
	})

	t.Run("Missing item", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM items").
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetForUpdate(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_ListAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewItemRepository(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM items WHERE status = 'available' AND category = \\$1 AND owner_id <> \\$2").
		WithArgs("tools", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM items WHERE status = 'available' AND category = \\$1 AND owner_id <> \\$2 ORDER BY created_at DESC, id LIMIT \\$3 OFFSET \\$4").
		WithArgs("tools", "u1", int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow("item-9", "u2", "Ben", "Saw", "", "tools", "good", "", "", "",
			"", "", "available", "permanent", nil, now, now))

	items, count, err := repo.ListAvailable(context.Background(), repository.ItemFilter{Category: "tools", ExcludeOwnerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), count)
	require.Len(t, items, 1)
	assert.Equal(t, "item-9", items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_ListAvailableOffsetClamped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewItemRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM items WHERE status = 'available'").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT (.+) FROM items WHERE status = 'available' ORDER BY created_at DESC, id LIMIT \\$1 OFFSET \\$2").
		WithArgs(int32(20), int32(math.MaxInt32)).
		WillReturnRows(sqlmock.NewRows(itemCols))

	items, count, err := repo.ListAvailable(context.Background(), repository.ItemFilter{Page: 107374185, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int32(3), count)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_SetStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewItemRepository(db)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Missing item is NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE items SET status").
			WithArgs(domain.ItemStatusTraded, now, "gone").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetStatus(context.Background(), "gone", domain.ItemStatusTraded, now)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Driver failure is a dependency error", func(t *testing.T) {
		mock.ExpectExec("UPDATE items SET status").
			WillReturnError(sql.ErrConnDone)

		err := repo.SetStatus(context.Background(), "item-1", domain.ItemStatusTraded, now)
		assert.ErrorIs(t, err, domain.ErrDependency)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
