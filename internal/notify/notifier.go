// Package notify records in-app notifications and fans them out to push
// channels. The notification row is the durable record; pushes are best effort.
package notify

import (
	"context"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"

	"github.com/google/uuid"
)

type Pusher interface {
	Name() string
	Push(ctx context.Context, to *domain.User, n *domain.Notification) error
}

type Notifier struct {
	store   repository.Store
	clock   func() time.Time
	pushers []Pusher
}

func NewNotifier(store repository.Store, clock func() time.Time, pushers ...Pusher) *Notifier {
	return &Notifier{store: store, clock: clock, pushers: pushers}
}

// Notify records note unless its DedupeKey was already used and reports
// whether it was new. Only new notifications are pushed.
func (n *Notifier) Notify(ctx context.Context, note domain.Notification) (bool, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = n.clock()
	}
	created, err := n.store.Repositories().Notifications.Create(ctx, &note)
	if err != nil {
		logger.Error("Failed to record notification", "userID", note.UserID, "dedupeKey", note.DedupeKey, "error", err)
		return false, err
	}
	if !created {
		logger.Debug("Notification already recorded", "userID", note.UserID, "dedupeKey", note.DedupeKey)
		return false, nil
	}
	n.push(ctx, &note)
	return true, nil
}

func (n *Notifier) push(ctx context.Context, note *domain.Notification) {
	if len(n.pushers) == 0 {
		return
	}
	user, err := n.store.Repositories().Users.GetByID(ctx, note.UserID)
	if err != nil {
		logger.Warn("Skipping push, recipient not loaded", "userID", note.UserID, "error", err)
		return
	}
	for _, p := range n.pushers {
		if err := p.Push(ctx, user, note); err != nil {
			logger.Warn("Push failed", "pusher", p.Name(), "userID", note.UserID, "notificationID", note.ID, "error", err)
		}
	}
}
