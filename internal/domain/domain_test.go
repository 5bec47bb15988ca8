package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"swapcircle-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("propose: %w", domain.StateConflict("%s is no longer available for trade", "Bike"))
	assert.ErrorIs(t, err, domain.ErrStateConflict)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, domain.KindStateConflict, domain.KindOf(err))
	assert.Equal(t, "Bike is no longer available for trade", domain.ReasonOf(err))

	plain := errors.New("connection refused")
	assert.Equal(t, domain.KindDependency, domain.KindOf(plain))
	assert.Equal(t, "the service is temporarily unavailable, please try again", domain.ReasonOf(plain))

	dep := domain.Dependency(plain, "could not save")
	assert.ErrorIs(t, dep, plain)
	assert.ErrorIs(t, dep, domain.ErrDependency)
}

func TestUserRating_Aggregate(t *testing.T) {
	r := domain.UserRating{}
	for _, v := range []int{5, 4, 4} {
		r = r.Aggregate(v)
	}
	assert.Equal(t, 3, r.ReviewCount)
	assert.Equal(t, 4.33, r.Rating)

	// Rounding happens at every step: 1.17 after six reviews, then 1.15,
	// while the exact mean of these seven ratings is 8/7 (1.14).
	drift := domain.UserRating{}
	for _, v := range []int{1, 1, 1, 1, 1, 2, 1} {
		drift = drift.Aggregate(v)
	}
	assert.Equal(t, 1.15, drift.Rating)
}

func TestValidateReview(t *testing.T) {
	_, err := domain.ValidateReview(0, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	comment, err := domain.ValidateReview(5, "  great swap  ")
	require.NoError(t, err)
	assert.Equal(t, "great swap", comment)
}

func TestValidateReport(t *testing.T) {
	_, err := domain.ValidateReport(domain.ReportReasonOther, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = domain.ValidateReport("rude", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = domain.ValidateReport(domain.ReportReasonSpam, "")
	assert.NoError(t, err)
}

func TestTerms(t *testing.T) {
	assert.NoError(t, domain.ValidateTerms(domain.PermanentTerms{}))
	assert.ErrorIs(t, domain.ValidateTerms(domain.TemporaryTerms{DurationDays: 0}), domain.ErrValidation)
	assert.ErrorIs(t, domain.ValidateTerms(domain.TemporaryTerms{DurationDays: domain.MaxLoanDurationDays + 1}), domain.ErrValidation)
	assert.ErrorIs(t, domain.ValidateTerms(nil), domain.ErrValidation)

	_, err := domain.TermsFromColumns(domain.TradeTypeTemporary, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, domain.SameMode(domain.PermanentTerms{}, nil))
}

func TestUser_BlockAndName(t *testing.T) {
	ana := &domain.User{ID: "ana", Email: "ana@example.com"}
	ben := &domain.User{ID: "ben", DisplayName: "Ben"}
	assert.Equal(t, "ana", ana.Name())
	assert.Equal(t, "Ben", ben.Name())

	assert.True(t, ben.Block("ana"))
	assert.False(t, ben.Block("ana"))
	assert.True(t, domain.EitherBlocked(ana, ben))
	assert.True(t, ben.Unblock("ana"))
	assert.False(t, domain.EitherBlocked(ana, ben))
}

func TestChangeEvent_Decode(t *testing.T) {
	ev, err := domain.NewChangeEvent("e-1", domain.EventItemDeleted, "bike", domain.ItemDeletedPayload{ItemID: "bike", OwnerID: "ana"}, t0)
	require.NoError(t, err)
	var p domain.ItemDeletedPayload
	require.NoError(t, ev.Decode(&p))
	assert.Equal(t, "ana", p.OwnerID)

	ev.Payload = []byte("{")
	assert.ErrorIs(t, ev.Decode(&p), domain.ErrValidation)
}
