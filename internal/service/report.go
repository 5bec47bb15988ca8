package service

import (
	"context"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"

	"github.com/google/uuid"
)

type reportService struct {
	store repository.Store
	clock Clock
}

func NewReportService(store repository.Store, clock Clock) ReportService {
	return &reportService{store: store, clock: clock}
}

// CreateReport files a report against the other participant of tradeID.
func (s *reportService) CreateReport(ctx context.Context, reporterID, tradeID string, reason domain.ReportReason, comment string) (*domain.Report, error) {
	comment, err := domain.ValidateReport(reason, comment)
	if err != nil {
		return nil, err
	}
	repos := s.store.Repositories()
	trade, err := repos.Trades.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	reportedID := trade.Counterparty(reporterID)
	if reportedID == "" {
		return nil, domain.Permission("only participants can report this trade")
	}

	report := &domain.Report{
		ID:         uuid.NewString(),
		ReporterID: reporterID,
		ReportedID: reportedID,
		TradeID:    tradeID,
		Reason:     reason,
		Comment:    comment,
		Status:     domain.ReportStatusPending,
		CreatedAt:  s.clock(),
	}
	if err := repos.Reports.Create(ctx, report); err != nil {
		logger.Error("Failed to file report", "tradeID", tradeID, "reporterID", reporterID, "error", err)
		return nil, err
	}
	logger.Info("Report filed", "reportID", report.ID, "tradeID", tradeID, "reason", reason)
	return report, nil
}
