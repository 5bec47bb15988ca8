// Package trigger reacts to committed changes. Services append change events
// to the outbox inside their transactions; the Dispatcher claims them and runs
// the handlers registered for each kind.
//
// Delivery is at-least-once, so handlers must tolerate seeing an event twice.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"
)

const (
	DefaultBatchSize = 50
	DefaultLease     = 2 * time.Minute
)

type Handler func(ctx context.Context, ev domain.ChangeEvent) error

type Dispatcher struct {
	store     repository.Store
	clock     func() time.Time
	handlers  map[domain.EventKind][]Handler
	batchSize int
	lease     time.Duration
}

func NewDispatcher(store repository.Store, clock func() time.Time, batchSize int, lease time.Duration) *Dispatcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if lease <= 0 {
		lease = DefaultLease
	}
	return &Dispatcher{
		store:     store,
		clock:     clock,
		handlers:  make(map[domain.EventKind][]Handler),
		batchSize: batchSize,
		lease:     lease,
	}
}

// Register adds h for kind. Handlers for the same kind run in registration order.
func (d *Dispatcher) Register(kind domain.EventKind, h Handler) {
	d.handlers[kind] = append(d.handlers[kind], h)
}

// DispatchPending drains the outbox and returns the number of events
// delivered. A failing handler does not stop delivery: the event is marked
// delivered with the error recorded and is not retried.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	events := d.store.Repositories().Events
	delivered := 0
	for {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}
		batch, err := events.ClaimPending(ctx, d.batchSize, d.clock(), d.lease)
		if err != nil {
			logger.Error("Failed to claim change events", "error", err)
			return delivered, err
		}
		for _, ev := range batch {
			handlerErr := d.handle(ctx, ev)
			var reason string
			if handlerErr != nil {
				reason = handlerErr.Error()
				logger.Error("Change event handler failed",
					"eventID", ev.ID, "kind", ev.Kind, "entityID", ev.EntityID, "attempt", ev.Attempts, "error", handlerErr)
			}
			if err := events.MarkDelivered(ctx, ev.ID, reason, d.clock()); err != nil {
				// The lease expires and the event is replayed.
				logger.Error("Failed to mark change event delivered", "eventID", ev.ID, "error", err)
				continue
			}
			delivered++
		}
		if len(batch) < d.batchSize {
			return delivered, nil
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev domain.ChangeEvent) error {
	handlers := d.handlers[ev.Kind]
	if len(handlers) == 0 {
		logger.Warn("No handler registered for change event", "eventID", ev.ID, "kind", ev.Kind)
		return nil
	}
	var errs []error
	for _, h := range handlers {
		if err := safeRun(ctx, h, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func safeRun(ctx context.Context, h Handler, ev domain.ChangeEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h(ctx, ev)
}
