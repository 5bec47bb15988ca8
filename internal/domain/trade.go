package domain

import (
	"time"
)

type TradeStatus string

const (
	TradeStatusPending       TradeStatus = "pending"
	TradeStatusAccepted      TradeStatus = "accepted"
	TradeStatusOnLoan        TradeStatus = "on-loan"
	TradeStatusReturnPending TradeStatus = "return-pending"
	TradeStatusCompleted     TradeStatus = "completed"
	TradeStatusRejected      TradeStatus = "rejected"
	TradeStatusCancelled     TradeStatus = "cancelled"
)

func (s TradeStatus) Valid() bool {
	switch s {
	case TradeStatusPending, TradeStatusAccepted, TradeStatusOnLoan, TradeStatusReturnPending,
		TradeStatusCompleted, TradeStatusRejected, TradeStatusCancelled:
		return true
	}
	return false
}

func (s TradeStatus) Terminal() bool {
	return s == TradeStatusCompleted || s == TradeStatusRejected || s == TradeStatusCancelled
}

// Live statuses hold both items locked.
func (s TradeStatus) Live() bool {
	return s == TradeStatusAccepted || s == TradeStatusOnLoan || s == TradeStatusReturnPending
}

// ChatEnabled is the window in which participants may exchange messages.
func (s TradeStatus) ChatEnabled() bool {
	return s.Live()
}

type Role string

const (
	RoleProposer Role = "proposer"
	RoleReceiver Role = "receiver"
)

func (r Role) Other() Role {
	if r == RoleProposer {
		return RoleReceiver
	}
	return RoleProposer
}

// Handshake is a two-party confirmation: one flag per role.
type Handshake struct {
	Proposer bool `json:"proposer"`
	Receiver bool `json:"receiver"`
}

func (h Handshake) Agreed(r Role) bool {
	if r == RoleProposer {
		return h.Proposer
	}
	return h.Receiver
}

func (h Handshake) Both() bool { return h.Proposer && h.Receiver }

func (h *Handshake) agree(r Role) {
	if r == RoleProposer {
		h.Proposer = true
	} else {
		h.Receiver = true
	}
}

type Trade struct {
	ID                 string
	ProposerID         string
	ProposerName       string
	ProposerItemID     string
	ProposerItemName   string
	ReceiverID         string
	ReceiverName       string
	ReceiverItemID     string
	ReceiverItemName   string
	Terms              TradeTerms
	Status             TradeStatus
	Message            string
	Start              Handshake
	Return             Handshake
	ReviewedByProposer bool
	ReviewedByReceiver bool
	LoanStartedAt      *time.Time
	CancelledBy        string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (t *Trade) Participants() []string {
	return []string{t.ProposerID, t.ReceiverID}
}

func (t *Trade) RoleOf(userID string) (Role, bool) {
	switch userID {
	case t.ProposerID:
		return RoleProposer, true
	case t.ReceiverID:
		return RoleReceiver, true
	}
	return "", false
}

func (t *Trade) UserFor(r Role) string {
	if r == RoleProposer {
		return t.ProposerID
	}
	return t.ReceiverID
}

// Counterparty returns the other participant, or "" when userID is not one.
func (t *Trade) Counterparty(userID string) string {
	role, ok := t.RoleOf(userID)
	if !ok {
		return ""
	}
	return t.UserFor(role.Other())
}

func (t *Trade) ItemIDs() []string {
	return []string{t.ProposerItemID, t.ReceiverItemID}
}

func (t *Trade) References(itemID string) bool {
	return t.ProposerItemID == itemID || t.ReceiverItemID == itemID
}

func (t *Trade) Reviewed(r Role) bool {
	if r == RoleProposer {
		return t.ReviewedByProposer
	}
	return t.ReviewedByReceiver
}

func (t *Trade) MarkReviewed(r Role, now time.Time) {
	if r == RoleProposer {
		t.ReviewedByProposer = true
	} else {
		t.ReviewedByReceiver = true
	}
	t.Touch(now)
}

// LoanDueAt is informational only; nothing transitions when it passes.
func (t *Trade) LoanDueAt() (time.Time, bool) {
	tmp, ok := t.Terms.(TemporaryTerms)
	if !ok || t.LoanStartedAt == nil {
		return time.Time{}, false
	}
	return t.LoanStartedAt.Add(time.Duration(tmp.DurationDays) * 24 * time.Hour), true
}

// Touch advances UpdatedAt, keeping it strictly increasing even when the
// clock does not move between two mutations.
func (t *Trade) Touch(now time.Time) {
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
}

// ValidateProposal checks the proposal preconditions against freshly loaded items.
func ValidateProposal(proposerID string, proposerItem, receiverItem *Item) error {
	if proposerItem.ID == receiverItem.ID {
		return Validation("a trade needs two different items")
	}
	if receiverItem.OwnerID == proposerID {
		return Validation("you cannot propose a trade for your own item")
	}
	if proposerItem.OwnerID != proposerID {
		return Permission("you can only offer items you own")
	}
	if receiverItem.Status != ItemStatusAvailable {
		return StateConflict("%s is no longer available for trade", receiverItem.Name)
	}
	if proposerItem.Status != ItemStatusAvailable {
		return StateConflict("your %s is not available for trade", proposerItem.Name)
	}
	if !SameMode(proposerItem.Preference, receiverItem.Preference) {
		return Validation("%s is offered as a %s swap; offer one of your items listed for %s swaps",
			receiverItem.Name, receiverItem.Preference.Type(), receiverItem.Preference.Type())
	}
	return nil
}

// NewTrade builds a pending trade. Terms come from the receiver's item.
func NewTrade(id string, proposer, receiver *User, proposerItem, receiverItem *Item, message string, now time.Time) *Trade {
	return &Trade{
		ID:               id,
		ProposerID:       proposer.ID,
		ProposerName:     proposer.DisplayName,
		ProposerItemID:   proposerItem.ID,
		ProposerItemName: proposerItem.Name,
		ReceiverID:       receiver.ID,
		ReceiverName:     receiver.DisplayName,
		ReceiverItemID:   receiverItem.ID,
		ReceiverItemName: receiverItem.Name,
		Terms:            receiverItem.Preference,
		Status:           TradeStatusPending,
		Message:          message,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
