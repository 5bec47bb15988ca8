// Package memory is an in-process Store with the same semantics as the
// PostgreSQL one. A transaction works on a copy of the dataset that replaces
// the live one on commit, so a failed fn leaves nothing behind.
package memory

import (
	"context"
	"sync"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository"
)

type dataset struct {
	users         map[string]domain.User
	items         map[string]domain.Item
	trades        map[string]domain.Trade
	messages      []domain.Message
	reviews       map[string]domain.Review
	notifications []domain.Notification
	reports       []domain.Report
	events        []domain.ChangeEvent
	claimedUntil  map[string]time.Time
}

func newDataset() *dataset {
	return &dataset{
		users:        map[string]domain.User{},
		items:        map[string]domain.Item{},
		trades:       map[string]domain.Trade{},
		reviews:      map[string]domain.Review{},
		claimedUntil: map[string]time.Time{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, u := range d.users {
		c.users[k] = copyUser(u)
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.trades {
		c.trades[k] = v
	}
	for k, v := range d.reviews {
		c.reviews[k] = v
	}
	for k, v := range d.claimedUntil {
		c.claimedUntil[k] = v
	}
	c.messages = append([]domain.Message(nil), d.messages...)
	c.notifications = append([]domain.Notification(nil), d.notifications...)
	c.reports = append([]domain.Report(nil), d.reports...)
	c.events = append([]domain.ChangeEvent(nil), d.events...)
	return c
}

func copyUser(u domain.User) domain.User {
	u.BlockedUsers = append([]string(nil), u.BlockedUsers...)
	return u
}

type Store struct {
	mu   sync.Mutex
	data *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

// view routes repository calls either to the live dataset under the store
// lock or to the transaction's private copy.
type view struct {
	store *Store
	tx    *dataset
}

func (v *view) with(fn func(d *dataset) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.data)
}

func (v *view) repositories() repository.Repositories {
	return repository.Repositories{
		Users:         &userRepository{v},
		Items:         &itemRepository{v},
		Trades:        &tradeRepository{v},
		Messages:      &messageRepository{v},
		Reviews:       &reviewRepository{v},
		Notifications: &notificationRepository{v},
		Reports:       &reportRepository{v},
		Events:        &eventRepository{v},
	}
}

func (s *Store) Repositories() repository.Repositories {
	return (&view{store: s}).repositories()
}

// WithinTx holds the store lock for the whole of fn, which serializes
// transactions the way SELECT ... FOR UPDATE does on the shared rows.
func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return domain.Dependency(err, "the request was cancelled")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	if err := fn((&view{store: s, tx: tx}).repositories()); err != nil {
		return err
	}
	s.data = tx
	return nil
}
