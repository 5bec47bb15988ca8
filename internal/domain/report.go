package domain

import (
	"strings"
	"time"
)

type ReportReason string

const (
	ReportReasonSpam              ReportReason = "spam"
	ReportReasonHarassment        ReportReason = "harassment"
	ReportReasonFraud             ReportReason = "fraud"
	ReportReasonInappropriateItem ReportReason = "inappropriate-item"
	ReportReasonOther             ReportReason = "other"
)

func (r ReportReason) Valid() bool {
	switch r {
	case ReportReasonSpam, ReportReasonHarassment, ReportReasonFraud, ReportReasonInappropriateItem, ReportReasonOther:
		return true
	}
	return false
}

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusResolved ReportStatus = "resolved"
)

type Report struct {
	ID         string       `json:"id"`
	ReporterID string       `json:"reporter_id"`
	ReportedID string       `json:"reported_id"`
	TradeID    string       `json:"trade_id"`
	Reason     ReportReason `json:"reason"`
	Comment    string       `json:"comment"`
	Status     ReportStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
}

func ValidateReport(reason ReportReason, comment string) (string, error) {
	if !reason.Valid() {
		return "", Validation("report reason %q is not recognised", reason)
	}
	comment = strings.TrimSpace(comment)
	if reason == ReportReasonOther && comment == "" {
		return "", Validation("please describe the problem")
	}
	if len(comment) > MaxReviewCommentLength {
		return "", Validation("report comment must be at most %d characters", MaxReviewCommentLength)
	}
	return comment, nil
}
