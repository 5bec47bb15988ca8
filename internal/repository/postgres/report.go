package postgres

import (
	"context"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository"
)

type reportRepository struct {
	db DBTX
}

func NewReportRepository(db DBTX) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, rp *domain.Report) error {
	query := `INSERT INTO reports (id, reporter_id, reported_id, trade_id, reason, comment, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, rp.ID, rp.ReporterID, rp.ReportedID, rp.TradeID, rp.Reason, rp.Comment, rp.Status, rp.CreatedAt)
	return classify(err, "report")
}
