package grpc

import (
	"time"

	"swapcircle-backend/internal/domain"

	"google.golang.org/protobuf/types/known/structpb"
)

// Messages on the wire are google.protobuf.Struct documents. The mappers
// below build them from domain values; structpb.NewStruct only accepts
// plain Go values, so times are RFC 3339 strings.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func mapTerms(t domain.TradeTerms) map[string]any {
	out := map[string]any{"type": string(t.Type())}
	if tmp, ok := t.(domain.TemporaryTerms); ok {
		out["duration_days"] = tmp.DurationDays
	}
	return out
}

func mapHandshake(h domain.Handshake) map[string]any {
	return map[string]any{"proposer": h.Proposer, "receiver": h.Receiver}
}

func tradeFields(t *domain.Trade) map[string]any {
	fields := map[string]any{
		"id":                   t.ID,
		"status":               string(t.Status),
		"proposer_id":          t.ProposerID,
		"proposer_name":        t.ProposerName,
		"proposer_item_id":     t.ProposerItemID,
		"proposer_item_name":   t.ProposerItemName,
		"receiver_id":          t.ReceiverID,
		"receiver_name":        t.ReceiverName,
		"receiver_item_id":     t.ReceiverItemID,
		"receiver_item_name":   t.ReceiverItemName,
		"terms":                mapTerms(t.Terms),
		"message":              t.Message,
		"start":                mapHandshake(t.Start),
		"return":               mapHandshake(t.Return),
		"reviewed_by_proposer": t.ReviewedByProposer,
		"reviewed_by_receiver": t.ReviewedByReceiver,
		"created_at":           formatTime(t.CreatedAt),
		"updated_at":           formatTime(t.UpdatedAt),
	}
	if t.LoanStartedAt != nil {
		fields["loan_started_at"] = formatTime(*t.LoanStartedAt)
	}
	if due, ok := t.LoanDueAt(); ok {
		fields["loan_due_at"] = formatTime(due)
	}
	if t.CancelledBy != "" {
		fields["cancelled_by"] = t.CancelledBy
	}
	return fields
}

func MapDomainTradeToProto(t *domain.Trade) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"trade": tradeFields(t)})
}

func MapDomainReviewToProto(r *domain.Review) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"review": map[string]any{
		"id":           r.ID,
		"trade_id":     r.TradeID,
		"from_user_id": r.FromUserID,
		"from_name":    r.FromName,
		"to_user_id":   r.ToUserID,
		"rating":       r.Rating,
		"comment":      r.Comment,
		"created_at":   formatTime(r.CreatedAt),
	}})
}

func messageFields(m *domain.Message) map[string]any {
	return map[string]any{
		"id":         m.ID,
		"trade_id":   m.TradeID,
		"sender_id":  m.SenderID,
		"text":       m.Text,
		"created_at": formatTime(m.CreatedAt),
	}
}

func MapDomainMessageToProto(m *domain.Message) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"message": messageFields(m)})
}

func MapDomainMessagesToProto(msgs []domain.Message) (*structpb.Struct, error) {
	list := make([]any, 0, len(msgs))
	for i := range msgs {
		list = append(list, messageFields(&msgs[i]))
	}
	return structpb.NewStruct(map[string]any{"messages": list})
}

func MapDomainUserToProto(u *domain.User) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"user": map[string]any{
		"id":           u.ID,
		"display_name": u.Name(),
		"email":        u.Email,
		"rating":       u.Rating,
		"review_count": u.ReviewCount,
	}})
}

// stringField reads a string member, "" when absent or not a string.
func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// intField reads a numeric member. ok is false when the member is missing,
// not a number or not integral.
func intField(req *structpb.Struct, name string) (int, bool) {
	v, found := req.GetFields()[name]
	if !found {
		return 0, false
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != float64(int(n.NumberValue)) {
		return 0, false
	}
	return int(n.NumberValue), true
}
