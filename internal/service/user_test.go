package service_test

import (
	"testing"

	"swapcircle-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterProfileKeepsRating(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.Repositories().Users.UpdateRating(e.ctx, "ana", domain.UserRating{Rating: 4.5, ReviewCount: 2}, e.clock.Now()))

	user, err := e.users.RegisterProfile(e.ctx, "ana", "Ana B.", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana B.", user.DisplayName)
	assert.Equal(t, 4.5, user.Rating)
	assert.Equal(t, 2, user.ReviewCount)

	_, err = e.users.RegisterProfile(e.ctx, "", "Nobody", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_BlockUnblock(t *testing.T) {
	e := newEnv(t)

	_, err := e.users.BlockUser(e.ctx, "ana", "ana")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.users.BlockUser(e.ctx, "ana", "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	user, err := e.users.BlockUser(e.ctx, "ana", "ben")
	require.NoError(t, err)
	assert.Equal(t, []string{"ben"}, user.BlockedUsers)

	user, err = e.users.BlockUser(e.ctx, "ana", "ben")
	require.NoError(t, err)
	assert.Equal(t, []string{"ben"}, user.BlockedUsers, "blocking twice is a no-op")

	user, err = e.users.UnblockUser(e.ctx, "ana", "ben")
	require.NoError(t, err)
	assert.Empty(t, user.BlockedUsers)

	stored, err := e.users.GetUser(e.ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, stored.BlockedUsers)
}

func TestReportService_CreateReport(t *testing.T) {
	e := newEnv(t)
	x := e.item(t, "ben", "Bike", domain.PermanentTerms{})
	y := e.item(t, "ana", "Guitar", domain.PermanentTerms{})
	trade := e.propose(t, "ana", y, x)

	report, err := e.reports.CreateReport(e.ctx, "ben", trade.ID, domain.ReportReasonSpam, "")
	require.NoError(t, err)
	assert.Equal(t, "ana", report.ReportedID)
	assert.Equal(t, domain.ReportStatusPending, report.Status)

	_, err = e.reports.CreateReport(e.ctx, "ben", trade.ID, domain.ReportReasonOther, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.reports.CreateReport(e.ctx, "cleo", trade.ID, domain.ReportReasonFraud, "")
	assert.ErrorIs(t, err, domain.ErrPermission)
}

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	e := newEnv(t)
	notes := e.store.Repositories().Notifications
	for _, id := range []string{"n1", "n2"} {
		_, err := notes.Create(e.ctx, &domain.Notification{ID: id, UserID: "ana", Title: id, CreatedAt: e.clock.Now()})
		require.NoError(t, err)
		e.clock.Advance(1)
	}

	list, total, err := e.notes.ListNotifications(e.ctx, "ana", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "n2", list[0].ID)

	assert.ErrorIs(t, e.notes.MarkNotificationRead(e.ctx, "ben", "n1"), domain.ErrNotFound)
	require.NoError(t, e.notes.MarkNotificationRead(e.ctx, "ana", "n1"))

	list, _, err = e.notes.ListNotifications(e.ctx, "ana", 1, 10)
	require.NoError(t, err)
	assert.True(t, list[1].Read)
}

func TestNotificationService_ListPastEnd(t *testing.T) {
	e := newEnv(t)
	_, err := e.store.Repositories().Notifications.Create(e.ctx, &domain.Notification{ID: "n1", UserID: "ana", CreatedAt: e.clock.Now()})
	require.NoError(t, err)

	list, total, err := e.notes.ListNotifications(e.ctx, "ana", 107374185, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Empty(t, list)
}
