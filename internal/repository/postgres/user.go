package postgres

import (
	"context"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, display_name, email, blocked_users, rating, review_count, created_at, updated_at`

func (r *userRepository) Upsert(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, display_name, email, blocked_users, rating, review_count, created_at, updated_at)
	          VALUES ($1, $2, $3, '{}', 0, 0, $4, $4)
	          ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name, email = EXCLUDED.email, updated_at = EXCLUDED.updated_at
	          RETURNING ` + userColumns
	logger.DatabaseCall("UPSERT", "users", "userID", u.ID)
	err := scanUser(r.db.QueryRowContext(ctx, query, u.ID, u.DisplayName, u.Email, u.UpdatedAt), u)
	logger.DatabaseResult("UPSERT", 1, err, "userID", u.ID)
	return classify(err, "user")
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *userRepository) get(ctx context.Context, query, id string) (*domain.User, error) {
	u := &domain.User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), u); err != nil {
		return nil, classify(err, "user")
	}
	return u, nil
}

func (r *userRepository) UpdateBlocked(ctx context.Context, id string, blocked []string, now time.Time) error {
	query := `UPDATE users SET blocked_users = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, pq.Array(blocked), now, id)
	if err != nil {
		return classify(err, "user")
	}
	return expectOne(res, "user")
}

func (r *userRepository) UpdateRating(ctx context.Context, id string, rating domain.UserRating, now time.Time) error {
	query := `UPDATE users SET rating = $1, review_count = $2, updated_at = $3 WHERE id = $4`
	logger.DatabaseCall("UPDATE", "users.rating", "userID", id, "rating", rating.Rating, "count", rating.ReviewCount)
	res, err := r.db.ExecContext(ctx, query, rating.Rating, rating.ReviewCount, now, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "userID", id)
		return classify(err, "user")
	}
	return expectOne(res, "user")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *domain.User) error {
	var blocked []string
	if err := row.Scan(&u.ID, &u.DisplayName, &u.Email, pq.Array(&blocked), &u.Rating, &u.ReviewCount, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return err
	}
	u.BlockedUsers = blocked
	return nil
}
