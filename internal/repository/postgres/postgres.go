package postgres

import (
	"context"
	"database/sql"
	"errors"

	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const maxTxAttempts = 3

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func bind(q DBTX) repository.Repositories {
	return repository.Repositories{
		Users:         NewUserRepository(q),
		Items:         NewItemRepository(q),
		Trades:        NewTradeRepository(q),
		Messages:      NewMessageRepository(q),
		Reviews:       NewReviewRepository(q),
		Notifications: NewNotificationRepository(q),
		Reports:       NewReportRepository(q),
		Events:        NewEventRepository(q),
	}
}

func (s *Store) Repositories() repository.Repositories {
	return bind(s.db)
}

// WithinTx runs fn in a serializable transaction, retrying serialization
// failures and deadlocks.
func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || !retryable(err) {
			return err
		}
		logger.Warn("Retrying serializable transaction", "attempt", attempt, "error", err)
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return classify(err, "transaction")
	}
	if err := fn(bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Error("Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(err, "transaction")
	}
	return nil
}

func retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	code := string(pqErr.Code)
	return code == pgerrcode.SerializationFailure || code == pgerrcode.DeadlockDetected
}
