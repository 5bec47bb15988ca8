package domain

import (
	"encoding/json"
	"time"
)

type EventKind string

const (
	EventTradeCreated       EventKind = "trade.created"
	EventTradeStatusChanged EventKind = "trade.status_changed"
	EventReviewCreated      EventKind = "review.created"
	EventItemDeleted        EventKind = "item.deleted"
)

// ChangeEvent is an outbox row written in the same transaction as the
// change it describes.
type ChangeEvent struct {
	ID          string
	Kind        EventKind
	EntityID    string
	Payload     json.RawMessage
	CreatedAt   time.Time
	DeliveredAt *time.Time
	Attempts    int
	LastError   string
}

type TradeCreatedPayload struct {
	TradeID          string   `json:"trade_id"`
	Participants     []string `json:"participants"`
	ProposerID       string   `json:"proposer_id"`
	ProposerName     string   `json:"proposer_name"`
	ReceiverItemName string   `json:"receiver_item_name"`
}

type TradeStatusChangedPayload struct {
	TradeID string      `json:"trade_id"`
	ActorID string      `json:"actor_id"`
	Action  TradeAction `json:"action"`
	From    TradeStatus `json:"from"`
	To      TradeStatus `json:"to"`
}

type ReviewCreatedPayload struct {
	ReviewID string `json:"review_id"`
	ToUserID string `json:"to_user_id"`
	Rating   int    `json:"rating"`
}

type ItemDeletedPayload struct {
	ItemID  string `json:"item_id"`
	OwnerID string `json:"owner_id"`
}

// NewChangeEvent marshals payload into an undelivered event.
func NewChangeEvent(id string, kind EventKind, entityID string, payload any, now time.Time) (*ChangeEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &ChangeEvent{ID: id, Kind: kind, EntityID: entityID, Payload: raw, CreatedAt: now}, nil
}

func (e *ChangeEvent) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return Validation("malformed %s payload for %s: %v", e.Kind, e.EntityID, err)
	}
	return nil
}
