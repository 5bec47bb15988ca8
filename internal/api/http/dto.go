package http

import (
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/service"
)

type preferenceDTO struct {
	Type         domain.TradeType `json:"type" validate:"required,oneof=permanent temporary"`
	DurationDays int              `json:"duration_days,omitempty" validate:"omitempty,min=1,max=365"`
}

func (p preferenceDTO) terms() domain.TradeTerms {
	if p.Type == domain.TradeTypeTemporary {
		return domain.TemporaryTerms{DurationDays: p.DurationDays}
	}
	return domain.PermanentTerms{}
}

func preferenceOf(t domain.TradeTerms) preferenceDTO {
	if tmp, ok := t.(domain.TemporaryTerms); ok {
		return preferenceDTO{Type: domain.TradeTypeTemporary, DurationDays: tmp.DurationDays}
	}
	return preferenceDTO{Type: domain.TradeTypePermanent}
}

type itemRequest struct {
	Name        string        `json:"name" validate:"required,max=120"`
	Description string        `json:"description" validate:"max=2000"`
	Category    string        `json:"category" validate:"required,max=60"`
	Condition   string        `json:"condition" validate:"required,oneof=new like-new good fair worn"`
	Location    string        `json:"location" validate:"max=200"`
	Landmark    string        `json:"landmark" validate:"max=200"`
	LookingFor  string        `json:"looking_for" validate:"max=500"`
	Preference  preferenceDTO `json:"preference"`
}

func (r itemRequest) input() service.ItemInput {
	return service.ItemInput{
		Details: domain.ItemDetails{
			Name:        r.Name,
			Description: r.Description,
			Category:    r.Category,
			Condition:   domain.ItemCondition(r.Condition),
			Location:    r.Location,
			Landmark:    r.Landmark,
			LookingFor:  r.LookingFor,
		},
		Preference: r.Preference.terms(),
	}
}

type itemResponse struct {
	domain.Item
	Preference preferenceDTO `json:"preference"`
}

func toItem(it *domain.Item) itemResponse {
	return itemResponse{Item: *it, Preference: preferenceOf(it.Preference)}
}

func toItems(items []domain.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for i := range items {
		out = append(out, toItem(&items[i]))
	}
	return out
}

type proposeRequest struct {
	ProposerItemID string `json:"proposer_item_id" validate:"required"`
	ReceiverItemID string `json:"receiver_item_id" validate:"required"`
	Message        string `json:"message" validate:"max=500"`
}

type tradeResponse struct {
	ID                 string             `json:"id"`
	Status             domain.TradeStatus `json:"status"`
	ProposerID         string             `json:"proposer_id"`
	ProposerName       string             `json:"proposer_name"`
	ProposerItemID     string             `json:"proposer_item_id"`
	ProposerItemName   string             `json:"proposer_item_name"`
	ReceiverID         string             `json:"receiver_id"`
	ReceiverName       string             `json:"receiver_name"`
	ReceiverItemID     string             `json:"receiver_item_id"`
	ReceiverItemName   string             `json:"receiver_item_name"`
	Terms              preferenceDTO      `json:"terms"`
	Message            string             `json:"message,omitempty"`
	Start              domain.Handshake   `json:"start"`
	Return             domain.Handshake   `json:"return"`
	ReviewedByProposer bool               `json:"reviewed_by_proposer"`
	ReviewedByReceiver bool               `json:"reviewed_by_receiver"`
	LoanStartedAt      *time.Time         `json:"loan_started_at,omitempty"`
	LoanDueAt          *time.Time         `json:"loan_due_at,omitempty"`
	CancelledBy        string             `json:"cancelled_by,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func toTrade(t *domain.Trade) tradeResponse {
	resp := tradeResponse{
		ID:                 t.ID,
		Status:             t.Status,
		ProposerID:         t.ProposerID,
		ProposerName:       t.ProposerName,
		ProposerItemID:     t.ProposerItemID,
		ProposerItemName:   t.ProposerItemName,
		ReceiverID:         t.ReceiverID,
		ReceiverName:       t.ReceiverName,
		ReceiverItemID:     t.ReceiverItemID,
		ReceiverItemName:   t.ReceiverItemName,
		Terms:              preferenceOf(t.Terms),
		Message:            t.Message,
		Start:              t.Start,
		Return:             t.Return,
		ReviewedByProposer: t.ReviewedByProposer,
		ReviewedByReceiver: t.ReviewedByReceiver,
		LoanStartedAt:      t.LoanStartedAt,
		CancelledBy:        t.CancelledBy,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
	if due, ok := t.LoanDueAt(); ok {
		resp.LoanDueAt = &due
	}
	return resp
}

func toTrades(trades []domain.Trade) []tradeResponse {
	out := make([]tradeResponse, 0, len(trades))
	for i := range trades {
		out = append(out, toTrade(&trades[i]))
	}
	return out
}

type inboxResponse struct {
	Invitations []tradeResponse `json:"invitations"`
	Sent        []tradeResponse `json:"sent"`
	Active      []tradeResponse `json:"active"`
	History     []tradeResponse `json:"history"`
}

type messageRequest struct {
	Text string `json:"text" validate:"required"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type reportRequest struct {
	Reason  domain.ReportReason `json:"reason" validate:"required"`
	Comment string              `json:"comment" validate:"max=1000"`
}

type profileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=80"`
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int32 `json:"total"`
}
