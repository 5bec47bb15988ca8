package service

import (
	"context"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository"

	"github.com/google/uuid"
)

// appendEvent writes the outbox row for a change; callers pass the
// repositories of the transaction that makes the change.
func appendEvent(ctx context.Context, events repository.EventRepository, kind domain.EventKind, entityID string, payload any, now time.Time) error {
	ev, err := domain.NewChangeEvent(uuid.NewString(), kind, entityID, payload, now)
	if err != nil {
		return domain.Dependency(err, "the service is temporarily unavailable, please try again")
	}
	return events.Append(ctx, ev)
}

func profileRequired(err error) error {
	if domain.KindOf(err) == domain.KindNotFound {
		return domain.NotFound("your profile is not registered yet")
	}
	return err
}
