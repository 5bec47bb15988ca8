package postgres

import (
	"context"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"
)

type reviewRepository struct {
	db DBTX
}

func NewReviewRepository(db DBTX) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, trade_id, from_user_id, from_name, to_user_id, rating, comment, aggregated, created_at`

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (` + reviewColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	logger.DatabaseCall("INSERT", "reviews", "tradeID", rv.TradeID, "fromUserID", rv.FromUserID)
	_, err := r.db.ExecContext(ctx, query, rv.ID, rv.TradeID, rv.FromUserID, rv.FromName, rv.ToUserID, rv.Rating,
		rv.Comment, rv.Aggregated, rv.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "reviewID", rv.ID)
	return classify(err, "review")
}

func (r *reviewRepository) GetForUpdate(ctx context.Context, id string) (*domain.Review, error) {
	rv := &domain.Review{}
	err := r.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1 FOR UPDATE`, id).
		Scan(&rv.ID, &rv.TradeID, &rv.FromUserID, &rv.FromName, &rv.ToUserID, &rv.Rating, &rv.Comment, &rv.Aggregated, &rv.CreatedAt)
	if err != nil {
		return nil, classify(err, "review")
	}
	return rv, nil
}

func (r *reviewRepository) MarkAggregated(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reviews SET aggregated = TRUE WHERE id = $1`, id)
	if err != nil {
		return classify(err, "review")
	}
	return expectOne(res, "review")
}

func (r *reviewRepository) ListByTarget(ctx context.Context, userID string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE to_user_id = $1 ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, classify(err, "review")
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.TradeID, &rv.FromUserID, &rv.FromName, &rv.ToUserID, &rv.Rating, &rv.Comment, &rv.Aggregated, &rv.CreatedAt); err != nil {
			return nil, classify(err, "review")
		}
		reviews = append(reviews, rv)
	}
	return reviews, classify(rows.Err(), "review")
}
