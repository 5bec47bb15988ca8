package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"
)

type itemRepository struct {
	db DBTX
}

func NewItemRepository(db DBTX) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, owner_id, owner_name, name, description, category, condition, location, landmark, looking_for,
	image_url, thumbnail_url, status, trade_type, loan_duration_days, created_at, updated_at`

func (r *itemRepository) Create(ctx context.Context, it *domain.Item) error {
	tradeType, duration := domain.TermsColumns(it.Preference)
	query := `INSERT INTO items (` + itemColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	logger.DatabaseCall("INSERT", "items", "itemID", it.ID, "ownerID", it.OwnerID)
	_, err := r.db.ExecContext(ctx, query, it.ID, it.OwnerID, it.OwnerName, it.Name, it.Description, it.Category,
		it.Condition, it.Location, it.Landmark, it.LookingFor, it.ImageURL, it.ThumbnailURL, it.Status,
		tradeType, duration, it.CreatedAt, it.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "itemID", it.ID)
	return classify(err, "item")
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

func (r *itemRepository) GetForUpdate(ctx context.Context, id string) (*domain.Item, error) {
	return r.get(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

func (r *itemRepository) get(ctx context.Context, query, id string) (*domain.Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(err, "item")
	}
	return it, nil
}

func (r *itemRepository) Update(ctx context.Context, it *domain.Item) error {
	tradeType, duration := domain.TermsColumns(it.Preference)
	query := `UPDATE items SET name=$1, description=$2, category=$3, condition=$4, location=$5, landmark=$6, looking_for=$7,
	          image_url=$8, thumbnail_url=$9, trade_type=$10, loan_duration_days=$11, updated_at=$12 WHERE id=$13`
	res, err := r.db.ExecContext(ctx, query, it.Name, it.Description, it.Category, it.Condition, it.Location, it.Landmark,
		it.LookingFor, it.ImageURL, it.ThumbnailURL, tradeType, duration, it.UpdatedAt, it.ID)
	if err != nil {
		return classify(err, "item")
	}
	return expectOne(res, "item")
}

func (r *itemRepository) SetStatus(ctx context.Context, id string, status domain.ItemStatus, now time.Time) error {
	logger.DatabaseCall("UPDATE", "items.status", "itemID", id, "status", status)
	res, err := r.db.ExecContext(ctx, `UPDATE items SET status = $1, updated_at = $2 WHERE id = $3`, status, now, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "itemID", id)
		return classify(err, "item")
	}
	return expectOne(res, "item")
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return classify(err, "item")
	}
	return expectOne(res, "item")
}

func (r *itemRepository) ListAvailable(ctx context.Context, f repository.ItemFilter) ([]domain.Item, int32, error) {
	where := ` FROM items WHERE status = 'available'`
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.ExcludeOwnerID != "" {
		args = append(args, f.ExcludeOwnerID)
		where += fmt.Sprintf(" AND owner_id <> $%d", len(args))
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*)"+where, args...).Scan(&count); err != nil {
		return nil, 0, classify(err, "item")
	}

	limit, offset := repository.PageWindow(f.Page, f.PageSize)
	query := "SELECT " + itemColumns + where + fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, classify(err, "item")
	}
	items, err := collectItems(rows)
	return items, count, err
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items WHERE owner_id = $1 ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, classify(err, "item")
	}
	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]domain.Item, error) {
	defer rows.Close()
	var items []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, classify(err, "item")
		}
		items = append(items, *it)
	}
	return items, classify(rows.Err(), "item")
}

func scanItem(row rowScanner) (*domain.Item, error) {
	it := &domain.Item{}
	var tradeType domain.TradeType
	var duration sql.NullInt32
	err := row.Scan(&it.ID, &it.OwnerID, &it.OwnerName, &it.Name, &it.Description, &it.Category, &it.Condition,
		&it.Location, &it.Landmark, &it.LookingFor, &it.ImageURL, &it.ThumbnailURL, &it.Status,
		&tradeType, &duration, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if it.Preference, err = domain.TermsFromColumns(tradeType, nullIntPtr(duration)); err != nil {
		return nil, err
	}
	return it, nil
}

func nullIntPtr(v sql.NullInt32) *int {
	if !v.Valid {
		return nil
	}
	d := int(v.Int32)
	return &d
}
