package service_test

import (
	"strings"
	"testing"
	"time"

	"swapcircle-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_Conversation(t *testing.T) {
	e := newEnv(t)
	x := e.item(t, "ben", "Bike", domain.PermanentTerms{})
	y := e.item(t, "ana", "Guitar", domain.PermanentTerms{})
	trade := e.propose(t, "ana", y, x)

	t.Run("Closed While Pending", func(t *testing.T) {
		_, err := e.msgs.SendMessage(e.ctx, "ana", trade.ID, "hello")
		assert.ErrorIs(t, err, domain.ErrStateConflict)
	})

	_, err := e.trades.AcceptTrade(e.ctx, "ben", trade.ID)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		before, err := e.trades.GetTrade(e.ctx, "ana", trade.ID)
		require.NoError(t, err)

		first, err := e.msgs.SendMessage(e.ctx, "ana", trade.ID, "  meet at noon?  ")
		require.NoError(t, err)
		assert.Equal(t, "meet at noon?", first.Text)
		e.clock.Advance(time.Minute)
		_, err = e.msgs.SendMessage(e.ctx, "ben", trade.ID, "sure")
		require.NoError(t, err)

		msgs, err := e.msgs.ListMessages(e.ctx, "ben", trade.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "meet at noon?", msgs[0].Text)
		assert.Equal(t, "sure", msgs[1].Text)

		after, err := e.trades.GetTrade(e.ctx, "ana", trade.ID)
		require.NoError(t, err)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("Empty And Too Long", func(t *testing.T) {
		_, err := e.msgs.SendMessage(e.ctx, "ana", trade.ID, "   ")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = e.msgs.SendMessage(e.ctx, "ana", trade.ID, strings.Repeat("a", domain.MaxMessageLength+1))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Outsider", func(t *testing.T) {
		_, err := e.msgs.SendMessage(e.ctx, "cleo", trade.ID, "hi")
		assert.ErrorIs(t, err, domain.ErrPermission)
		_, err = e.msgs.ListMessages(e.ctx, "cleo", trade.ID)
		assert.ErrorIs(t, err, domain.ErrPermission)
	})

	t.Run("Blocked", func(t *testing.T) {
		_, err := e.users.BlockUser(e.ctx, "ben", "ana")
		require.NoError(t, err)
		_, err = e.msgs.SendMessage(e.ctx, "ana", trade.ID, "hello?")
		assert.ErrorIs(t, err, domain.ErrPermission)
		_, err = e.msgs.ListMessages(e.ctx, "ben", trade.ID)
		assert.ErrorIs(t, err, domain.ErrPermission)
	})
}
