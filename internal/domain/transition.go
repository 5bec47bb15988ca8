package domain

import "time"

type TradeAction string

const (
	ActionAccept        TradeAction = "accept"
	ActionReject        TradeAction = "reject"
	ActionCancel        TradeAction = "cancel"
	ActionConfirmStart  TradeAction = "confirm-start"
	ActionConfirmReturn TradeAction = "confirm-return"
)

func (a TradeAction) Valid() bool {
	switch a {
	case ActionAccept, ActionReject, ActionCancel, ActionConfirmStart, ActionConfirmReturn:
		return true
	}
	return false
}

type ItemEffect int

const (
	ItemsUnchanged ItemEffect = iota
	ItemsLock
	ItemsUnlock
)

// Transition describes what Apply did to a trade and what must happen to its
// items in the same atomic write.
type Transition struct {
	Action     TradeAction
	ActorID    string
	Role       Role
	From       TradeStatus
	To         TradeStatus
	Items      ItemEffect
	ItemStatus ItemStatus
}

func (tr Transition) StatusChanged() bool { return tr.From != tr.To }

// Apply validates action for actorID against the trade's current state and,
// on success, mutates the trade. On error the trade is left untouched.
func (t *Trade) Apply(action TradeAction, actorID string, now time.Time) (Transition, error) {
	role, ok := t.RoleOf(actorID)
	if !ok {
		return Transition{}, Permission("only participants of this trade can change it")
	}
	if !action.Valid() {
		return Transition{}, Validation("unknown trade action %q", action)
	}
	if t.Status.Terminal() {
		return Transition{}, StateConflict("this trade is already %s", t.Status)
	}

	tr := Transition{Action: action, ActorID: actorID, Role: role, From: t.Status, To: t.Status}

	switch action {
	case ActionAccept:
		if t.Status != TradeStatusPending {
			return Transition{}, StateConflict("trade already %s", t.Status)
		}
		if role != RoleReceiver {
			return Transition{}, Permission("only the receiver can accept a trade request")
		}
		tr.To = TradeStatusAccepted
		tr.Items = ItemsLock
		tr.ItemStatus = LockStatus(t.Terms)

	case ActionReject, ActionCancel:
		if t.Status == TradeStatusPending {
			if action == ActionReject && role != RoleReceiver {
				return Transition{}, Permission("only the receiver can reject a trade request; cancel it instead")
			}
			if action == ActionCancel && role != RoleProposer {
				return Transition{}, Permission("only the proposer can cancel a trade request; reject it instead")
			}
		} else {
			// Items were locked on accept.
			tr.Items = ItemsUnlock
			tr.ItemStatus = ItemStatusAvailable
		}
		if action == ActionReject {
			tr.To = TradeStatusRejected
		} else {
			tr.To = TradeStatusCancelled
		}

	case ActionConfirmStart:
		if t.Status != TradeStatusAccepted {
			return Transition{}, StateConflict("the trade can only be confirmed while it is accepted; it is %s", t.Status)
		}
		if t.Start.Agreed(role) {
			return Transition{}, StateConflict("you have already confirmed this trade")
		}
		if t.Start.Agreed(role.Other()) {
			if t.Terms.Type() == TradeTypeTemporary {
				tr.To = TradeStatusOnLoan
			} else {
				tr.To = TradeStatusCompleted
			}
		}

	case ActionConfirmReturn:
		if t.Terms.Type() != TradeTypeTemporary {
			return Transition{}, StateConflict("only temporary swaps have items to return")
		}
		if t.Status != TradeStatusOnLoan && t.Status != TradeStatusReturnPending {
			return Transition{}, StateConflict("items can only be returned while the swap is on loan; it is %s", t.Status)
		}
		if t.Return.Agreed(role) {
			return Transition{}, StateConflict("you have already confirmed the item return")
		}
		if t.Return.Agreed(role.Other()) {
			tr.To = TradeStatusCompleted
			tr.Items = ItemsUnlock
			tr.ItemStatus = ItemStatusAvailable
		} else if t.Status == TradeStatusOnLoan {
			tr.To = TradeStatusReturnPending
		}
	}

	// All checks passed, mutate.
	switch action {
	case ActionConfirmStart:
		t.Start.agree(role)
		if tr.To == TradeStatusOnLoan {
			started := now
			t.LoanStartedAt = &started
		}
	case ActionConfirmReturn:
		t.Return.agree(role)
	case ActionCancel:
		cancelledAt := now
		t.CancelledBy = actorID
		t.CancelledAt = &cancelledAt
	}
	t.Status = tr.To
	t.Touch(now)
	return tr, nil
}

// allowedTransitions lists every status change Apply can produce.
var allowedTransitions = map[TradeStatus][]TradeStatus{
	TradeStatusPending:       {TradeStatusAccepted, TradeStatusRejected, TradeStatusCancelled},
	TradeStatusAccepted:      {TradeStatusCompleted, TradeStatusOnLoan, TradeStatusRejected, TradeStatusCancelled},
	TradeStatusOnLoan:        {TradeStatusReturnPending, TradeStatusRejected, TradeStatusCancelled},
	TradeStatusReturnPending: {TradeStatusCompleted, TradeStatusRejected, TradeStatusCancelled},
}

// CanTransition reports whether from → to is a legal status change.
func CanTransition(from, to TradeStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
