package service_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository/memory"
	"swapcircle-backend/internal/service"
	"swapcircle-backend/internal/storage"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, key, contentType string, r io.Reader) (storage.Object, error) {
	args := m.Called(ctx, key, contentType, r)
	return args.Get(0).(storage.Object), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type env struct {
	ctx     context.Context
	store   *memory.Store
	clock   *testClock
	blobs   *MockBlobStore
	users   service.UserService
	items   service.ItemService
	trades  service.TradeService
	msgs    service.MessageService
	reviews service.ReviewService
	reports service.ReportService
	notes   service.NotificationService
}

// newEnv registers ana, ben and cleo.
func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{now: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)}
	blobs := &MockBlobStore{}
	e := &env{
		ctx:     context.Background(),
		store:   store,
		clock:   clock,
		blobs:   blobs,
		users:   service.NewUserService(store, clock.Now),
		items:   service.NewItemService(store, blobs, clock.Now),
		trades:  service.NewTradeService(store, clock.Now),
		msgs:    service.NewMessageService(store, clock.Now),
		reviews: service.NewReviewService(store, clock.Now),
		reports: service.NewReportService(store, clock.Now),
		notes:   service.NewNotificationService(store),
	}
	for id, name := range map[string]string{"ana": "Ana", "ben": "Ben", "cleo": "Cleo"} {
		_, err := e.users.RegisterProfile(e.ctx, id, name, id+"@example.com")
		require.NoError(t, err)
	}
	return e
}

func (e *env) item(t *testing.T, ownerID, name string, terms domain.TradeTerms) *domain.Item {
	t.Helper()
	it, err := e.items.CreateItem(e.ctx, ownerID, service.ItemInput{
		Details: domain.ItemDetails{
			Name:      name,
			Category:  "tools",
			Condition: domain.ItemConditionGood,
		},
		Preference: terms,
	})
	require.NoError(t, err)
	e.clock.Advance(time.Second)
	return it
}

func (e *env) itemStatus(t *testing.T, id string) domain.ItemStatus {
	t.Helper()
	it, err := e.store.Repositories().Items.GetByID(e.ctx, id)
	require.NoError(t, err)
	return it.Status
}

func (e *env) propose(t *testing.T, proposerID string, offered, wanted *domain.Item) *domain.Trade {
	t.Helper()
	trade, err := e.trades.ProposeTrade(e.ctx, proposerID, service.ProposeInput{
		ProposerItemID: offered.ID,
		ReceiverItemID: wanted.ID,
		Message:        "  interested?  ",
	})
	require.NoError(t, err)
	e.clock.Advance(time.Second)
	return trade
}

// drainEvents claims every pending change event and marks it delivered.
func (e *env) drainEvents(t *testing.T) []domain.ChangeEvent {
	t.Helper()
	events := e.store.Repositories().Events
	claimed, err := events.ClaimPending(e.ctx, 1000, e.clock.Now(), time.Minute)
	require.NoError(t, err)
	for _, ev := range claimed {
		require.NoError(t, events.MarkDelivered(e.ctx, ev.ID, "", e.clock.Now()))
	}
	return claimed
}

func statusChanges(t *testing.T, events []domain.ChangeEvent) []domain.TradeStatusChangedPayload {
	t.Helper()
	var out []domain.TradeStatusChangedPayload
	for _, ev := range events {
		if ev.Kind != domain.EventTradeStatusChanged {
			continue
		}
		var p domain.TradeStatusChangedPayload
		require.NoError(t, ev.Decode(&p))
		out = append(out, p)
	}
	return out
}
