package postgres

import (
	"context"
	"database/sql"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"

	"github.com/lib/pq"
)

type tradeRepository struct {
	db DBTX
}

func NewTradeRepository(db DBTX) repository.TradeRepository {
	return &tradeRepository{db: db}
}

const tradeColumns = `id, proposer_id, proposer_name, proposer_item_id, proposer_item_name,
	receiver_id, receiver_name, receiver_item_id, receiver_item_name, trade_type, loan_duration_days,
	status, message, agreed_start_proposer, agreed_start_receiver, agreed_return_proposer, agreed_return_receiver,
	reviewed_by_proposer, reviewed_by_receiver, loan_started_at, cancelled_by, cancelled_at, created_at, updated_at`

func (r *tradeRepository) Create(ctx context.Context, t *domain.Trade) error {
	tradeType, duration := domain.TermsColumns(t.Terms)
	query := `INSERT INTO trades (` + tradeColumns + `, participants)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	logger.DatabaseCall("INSERT", "trades", "tradeID", t.ID, "proposerID", t.ProposerID, "receiverID", t.ReceiverID)
	_, err := r.db.ExecContext(ctx, query, t.ID, t.ProposerID, t.ProposerName, t.ProposerItemID, t.ProposerItemName,
		t.ReceiverID, t.ReceiverName, t.ReceiverItemID, t.ReceiverItemName, tradeType, duration,
		t.Status, t.Message, t.Start.Proposer, t.Start.Receiver, t.Return.Proposer, t.Return.Receiver,
		t.ReviewedByProposer, t.ReviewedByReceiver, t.LoanStartedAt, nullString(t.CancelledBy), t.CancelledAt,
		t.CreatedAt, t.UpdatedAt, pq.Array(t.Participants()))
	logger.DatabaseResult("INSERT", 1, err, "tradeID", t.ID)
	return classify(err, "trade")
}

func (r *tradeRepository) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	return r.get(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id)
}

func (r *tradeRepository) GetForUpdate(ctx context.Context, id string) (*domain.Trade, error) {
	return r.get(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1 FOR UPDATE`, id)
}

func (r *tradeRepository) get(ctx context.Context, query, id string) (*domain.Trade, error) {
	t, err := scanTrade(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(err, "trade")
	}
	return t, nil
}

// Update writes the mutable state of a trade. Participants, items and terms
// are fixed at proposal time.
func (r *tradeRepository) Update(ctx context.Context, t *domain.Trade) error {
	query := `UPDATE trades SET status=$1, agreed_start_proposer=$2, agreed_start_receiver=$3,
	          agreed_return_proposer=$4, agreed_return_receiver=$5, reviewed_by_proposer=$6, reviewed_by_receiver=$7,
	          loan_started_at=$8, cancelled_by=$9, cancelled_at=$10, updated_at=$11 WHERE id=$12`
	logger.DatabaseCall("UPDATE", "trades", "tradeID", t.ID, "status", t.Status)
	res, err := r.db.ExecContext(ctx, query, t.Status, t.Start.Proposer, t.Start.Receiver, t.Return.Proposer,
		t.Return.Receiver, t.ReviewedByProposer, t.ReviewedByReceiver, t.LoanStartedAt, nullString(t.CancelledBy),
		t.CancelledAt, t.UpdatedAt, t.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "tradeID", t.ID)
		return classify(err, "trade")
	}
	return expectOne(res, "trade")
}

func (r *tradeRepository) ListByProposerItem(ctx context.Context, itemID string) ([]domain.Trade, error) {
	return r.list(ctx, `SELECT `+tradeColumns+` FROM trades WHERE proposer_item_id = $1 ORDER BY created_at, id`, itemID)
}

func (r *tradeRepository) ListByReceiverItem(ctx context.Context, itemID string) ([]domain.Trade, error) {
	return r.list(ctx, `SELECT `+tradeColumns+` FROM trades WHERE receiver_item_id = $1 ORDER BY created_at, id`, itemID)
}

func (r *tradeRepository) ListByParticipant(ctx context.Context, userID string) ([]domain.Trade, error) {
	return r.list(ctx, `SELECT `+tradeColumns+` FROM trades WHERE participants @> ARRAY[$1]::text[] ORDER BY updated_at DESC, id`, userID)
}

func (r *tradeRepository) ListOnLoan(ctx context.Context) ([]domain.Trade, error) {
	return r.list(ctx, `SELECT `+tradeColumns+` FROM trades WHERE status = $1 ORDER BY loan_started_at, id`, domain.TradeStatusOnLoan)
}

func (r *tradeRepository) ExistsPending(ctx context.Context, proposerItemID, receiverItemID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM trades WHERE proposer_item_id = $1 AND receiver_item_id = $2 AND status = 'pending')`
	if err := r.db.QueryRowContext(ctx, query, proposerItemID, receiverItemID).Scan(&exists); err != nil {
		return false, classify(err, "trade")
	}
	return exists, nil
}

func (r *tradeRepository) HasLive(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM trades WHERE (proposer_item_id = $1 OR receiver_item_id = $1)
	          AND status IN ('accepted', 'on-loan', 'return-pending'))`
	if err := r.db.QueryRowContext(ctx, query, itemID).Scan(&exists); err != nil {
		return false, classify(err, "trade")
	}
	return exists, nil
}

func (r *tradeRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	logger.DatabaseCall("DELETE", "trades", "count", len(ids))
	res, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return classify(err, "trade")
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("DELETE", n, nil)
	return nil
}

func (r *tradeRepository) list(ctx context.Context, query string, args ...any) ([]domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "trade")
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, classify(err, "trade")
		}
		trades = append(trades, *t)
	}
	return trades, classify(rows.Err(), "trade")
}

func scanTrade(row rowScanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var (
		tradeType   domain.TradeType
		duration    sql.NullInt32
		loanStarted sql.NullTime
		cancelledBy sql.NullString
		cancelledAt sql.NullTime
	)
	err := row.Scan(&t.ID, &t.ProposerID, &t.ProposerName, &t.ProposerItemID, &t.ProposerItemName,
		&t.ReceiverID, &t.ReceiverName, &t.ReceiverItemID, &t.ReceiverItemName, &tradeType, &duration,
		&t.Status, &t.Message, &t.Start.Proposer, &t.Start.Receiver, &t.Return.Proposer, &t.Return.Receiver,
		&t.ReviewedByProposer, &t.ReviewedByReceiver, &loanStarted, &cancelledBy, &cancelledAt,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if t.Terms, err = domain.TermsFromColumns(tradeType, nullIntPtr(duration)); err != nil {
		return nil, err
	}
	if loanStarted.Valid {
		t.LoanStartedAt = &loanStarted.Time
	}
	if cancelledAt.Valid {
		t.CancelledAt = &cancelledAt.Time
	}
	t.CancelledBy = cancelledBy.String
	return t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
