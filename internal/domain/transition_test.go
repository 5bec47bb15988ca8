package domain_test

import (
	"testing"
	"time"

	"swapcircle-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func newTrade(terms domain.TradeTerms) *domain.Trade {
	proposer := &domain.User{ID: "ben", DisplayName: "Ben"}
	receiver := &domain.User{ID: "ana", DisplayName: "Ana"}
	offered := &domain.Item{ID: "guitar", OwnerID: "ben", Name: "Guitar", Status: domain.ItemStatusAvailable, Preference: terms}
	wanted := &domain.Item{ID: "bike", OwnerID: "ana", Name: "Bike", Status: domain.ItemStatusAvailable, Preference: terms}
	return domain.NewTrade("t-1", proposer, receiver, offered, wanted, "", t0)
}

func apply(t *testing.T, tr *domain.Trade, action domain.TradeAction, actor string) domain.Transition {
	t.Helper()
	res, err := tr.Apply(action, actor, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, !res.StatusChanged() || domain.CanTransition(res.From, res.To), "%s -> %s", res.From, res.To)
	return res
}

func TestApply_Accept(t *testing.T) {
	t.Run("Receiver Accepts", func(t *testing.T) {
		tr := newTrade(domain.PermanentTerms{})
		res := apply(t, tr, domain.ActionAccept, "ana")
		assert.Equal(t, domain.TradeStatusAccepted, tr.Status)
		assert.Equal(t, domain.ItemsLock, res.Items)
		assert.Equal(t, domain.ItemStatusTraded, res.ItemStatus)
	})

	t.Run("Temporary Locks On Loan", func(t *testing.T) {
		tr := newTrade(domain.TemporaryTerms{DurationDays: 7})
		res := apply(t, tr, domain.ActionAccept, "ana")
		assert.Equal(t, domain.ItemStatusOnLoan, res.ItemStatus)
	})

	t.Run("Proposer Cannot Accept", func(t *testing.T) {
		tr := newTrade(domain.PermanentTerms{})
		before := *tr
		_, err := tr.Apply(domain.ActionAccept, "ben", t0.Add(time.Minute))
		assert.ErrorIs(t, err, domain.ErrPermission)
		assert.Equal(t, before, *tr)
	})

	t.Run("Outsider", func(t *testing.T) {
		tr := newTrade(domain.PermanentTerms{})
		_, err := tr.Apply(domain.ActionAccept, "cleo", t0)
		assert.ErrorIs(t, err, domain.ErrPermission)
	})

	t.Run("Unknown Action", func(t *testing.T) {
		tr := newTrade(domain.PermanentTerms{})
		_, err := tr.Apply("launch", "ana", t0)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestApply_RejectAndCancel(t *testing.T) {
	tests := []struct {
		name     string
		accepted bool
		action   domain.TradeAction
		actor    string
		want     domain.TradeStatus
		items    domain.ItemEffect
		wantErr  error
	}{
		{"Receiver Rejects Pending", false, domain.ActionReject, "ana", domain.TradeStatusRejected, domain.ItemsUnchanged, nil},
		{"Proposer Cannot Reject Pending", false, domain.ActionReject, "ben", "", 0, domain.ErrPermission},
		{"Proposer Cancels Pending", false, domain.ActionCancel, "ben", domain.TradeStatusCancelled, domain.ItemsUnchanged, nil},
		{"Receiver Cannot Cancel Pending", false, domain.ActionCancel, "ana", "", 0, domain.ErrPermission},
		{"Either Cancels Accepted", true, domain.ActionCancel, "ana", domain.TradeStatusCancelled, domain.ItemsUnlock, nil},
		{"Either Rejects Accepted", true, domain.ActionReject, "ben", domain.TradeStatusRejected, domain.ItemsUnlock, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTrade(domain.PermanentTerms{})
			if tt.accepted {
				apply(t, tr, domain.ActionAccept, "ana")
			}
			res, err := tr.Apply(tt.action, tt.actor, t0.Add(time.Hour))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tr.Status)
			assert.Equal(t, tt.items, res.Items)
			if tt.action == domain.ActionCancel {
				assert.Equal(t, tt.actor, tr.CancelledBy)
				assert.NotNil(t, tr.CancelledAt)
			}
		})
	}
}

func TestApply_PermanentHandshake(t *testing.T) {
	tr := newTrade(domain.PermanentTerms{})
	apply(t, tr, domain.ActionAccept, "ana")

	res := apply(t, tr, domain.ActionConfirmStart, "ben")
	assert.False(t, res.StatusChanged())
	assert.True(t, tr.Start.Proposer)

	_, err := tr.Apply(domain.ActionConfirmStart, "ben", t0.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	res = apply(t, tr, domain.ActionConfirmStart, "ana")
	assert.Equal(t, domain.TradeStatusCompleted, res.To)
	assert.Equal(t, domain.ItemsUnchanged, res.Items)
	assert.Nil(t, tr.LoanStartedAt)

	_, err = tr.Apply(domain.ActionConfirmReturn, "ana", t0.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrStateConflict)
	_, err = tr.Apply(domain.ActionCancel, "ana", t0.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestApply_TemporaryLoan(t *testing.T) {
	tr := newTrade(domain.TemporaryTerms{DurationDays: 3})
	apply(t, tr, domain.ActionAccept, "ana")

	_, err := tr.Apply(domain.ActionConfirmReturn, "ana", t0)
	assert.ErrorIs(t, err, domain.ErrStateConflict)

	apply(t, tr, domain.ActionConfirmStart, "ana")
	res := apply(t, tr, domain.ActionConfirmStart, "ben")
	assert.Equal(t, domain.TradeStatusOnLoan, res.To)
	require.NotNil(t, tr.LoanStartedAt)
	due, ok := tr.LoanDueAt()
	require.True(t, ok)
	assert.Equal(t, tr.LoanStartedAt.Add(72*time.Hour), due)

	res = apply(t, tr, domain.ActionConfirmReturn, "ben")
	assert.Equal(t, domain.TradeStatusReturnPending, res.To)
	assert.Equal(t, domain.ItemsUnchanged, res.Items)

	res = apply(t, tr, domain.ActionConfirmReturn, "ana")
	assert.Equal(t, domain.TradeStatusCompleted, res.To)
	assert.Equal(t, domain.ItemsUnlock, res.Items)
	assert.Equal(t, domain.ItemStatusAvailable, res.ItemStatus)
}

func TestTouch_StrictlyIncreasing(t *testing.T) {
	tr := newTrade(domain.PermanentTerms{})
	tr.Touch(t0)
	assert.True(t, tr.UpdatedAt.After(t0))
	prev := tr.UpdatedAt
	tr.Touch(t0.Add(-time.Hour))
	assert.True(t, tr.UpdatedAt.After(prev))
}

func TestValidateProposal(t *testing.T) {
	mk := func(id, owner string, status domain.ItemStatus, terms domain.TradeTerms) *domain.Item {
		return &domain.Item{ID: id, OwnerID: owner, Name: id, Status: status, Preference: terms}
	}
	perm, temp := domain.PermanentTerms{}, domain.TemporaryTerms{DurationDays: 5}

	tests := []struct {
		name     string
		offered  *domain.Item
		wanted   *domain.Item
		wantKind domain.ErrorKind
	}{
		{"Same Item", mk("a", "ben", domain.ItemStatusAvailable, perm), mk("a", "ben", domain.ItemStatusAvailable, perm), domain.KindValidation},
		{"Own Item", mk("a", "ben", domain.ItemStatusAvailable, perm), mk("b", "ben", domain.ItemStatusAvailable, perm), domain.KindValidation},
		{"Not Owner", mk("a", "cleo", domain.ItemStatusAvailable, perm), mk("b", "ana", domain.ItemStatusAvailable, perm), domain.KindPermission},
		{"Wanted Unavailable", mk("a", "ben", domain.ItemStatusAvailable, perm), mk("b", "ana", domain.ItemStatusTraded, perm), domain.KindStateConflict},
		{"Mode Mismatch", mk("a", "ben", domain.ItemStatusAvailable, perm), mk("b", "ana", domain.ItemStatusAvailable, temp), domain.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateProposal("ben", tt.offered, tt.wanted)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, domain.KindOf(err))
		})
	}

	t.Run("Loan Lengths May Differ", func(t *testing.T) {
		err := domain.ValidateProposal("ben",
			mk("a", "ben", domain.ItemStatusAvailable, domain.TemporaryTerms{DurationDays: 30}),
			mk("b", "ana", domain.ItemStatusAvailable, temp))
		assert.NoError(t, err)
	})
}
