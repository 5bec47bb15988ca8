package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPusher struct {
	mock.Mock
}

func (m *mockPusher) Name() string { return "mock" }

func (m *mockPusher) Push(ctx context.Context, to *domain.User, n *domain.Notification) error {
	args := m.Called(ctx, to, n)
	return args.Error(0)
}

func fixedClock() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

func TestNotifier_Notify(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Repositories().Users.Upsert(ctx, &domain.User{ID: "u2", DisplayName: "Ben", Email: "ben@example.com"}))

	pusher := new(mockPusher)
	pusher.On("Push", mock.Anything, mock.MatchedBy(func(u *domain.User) bool { return u.ID == "u2" }), mock.Anything).
		Return(errors.New("offline")).Once()

	n := NewNotifier(store, fixedClock, pusher)
	note := domain.Notification{UserID: "u2", Title: "New Trade Request", DedupeKey: "trade-created:t1"}

	created, err := n.Notify(ctx, note)
	require.NoError(t, err)
	assert.True(t, created, "push failures do not fail the notification")

	created, err = n.Notify(ctx, note)
	require.NoError(t, err)
	assert.False(t, created)

	notes, total, err := store.Repositories().Notifications.List(ctx, "u2", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Equal(t, fixedClock(), notes[0].CreatedAt)
	assert.NotEmpty(t, notes[0].ID)
	pusher.AssertExpectations(t)
}

func TestRenderEmail_EscapesContent(t *testing.T) {
	plain, htmlBody := renderEmail(&domain.Notification{Title: "Hi <b>", Description: "a & b"}, "https://app/inbox")
	assert.Contains(t, plain, "a & b")
	assert.Contains(t, htmlBody, "Hi &lt;b&gt;")
	assert.Contains(t, htmlBody, "a &amp; b")
	assert.True(t, strings.Contains(htmlBody, `href="https://app/inbox"`))
}
