package repository

import (
	"context"
	"math"
	"time"

	"swapcircle-backend/internal/domain"
)

type UserRepository interface {
	// Upsert creates the profile or refreshes its display name and e-mail.
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetForUpdate(ctx context.Context, id string) (*domain.User, error)
	UpdateBlocked(ctx context.Context, id string, blocked []string, now time.Time) error
	UpdateRating(ctx context.Context, id string, rating domain.UserRating, now time.Time) error
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageWindow turns a 1-based page into LIMIT and OFFSET. The offset is
// computed in int64 and clamped to MaxInt32, so a page past the end yields
// an empty result instead of a wrapped offset.
func PageWindow(page, pageSize int32) (limit, offset int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	off := (int64(page) - 1) * int64(pageSize)
	if off > math.MaxInt32 {
		off = math.MaxInt32
	}
	return pageSize, int32(off)
}

type ItemFilter struct {
	Category       string
	ExcludeOwnerID string
	Page           int32
	PageSize       int32
}

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Item, error)
	// Update writes descriptive fields, preference and image URLs. Status is
	// written only through SetStatus.
	Update(ctx context.Context, item *domain.Item) error
	SetStatus(ctx context.Context, id string, status domain.ItemStatus, now time.Time) error
	Delete(ctx context.Context, id string) error
	ListAvailable(ctx context.Context, filter ItemFilter) ([]domain.Item, int32, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Item, error)
}

type TradeRepository interface {
	Create(ctx context.Context, trade *domain.Trade) error
	GetByID(ctx context.Context, id string) (*domain.Trade, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Trade, error)
	Update(ctx context.Context, trade *domain.Trade) error
	ListByProposerItem(ctx context.Context, itemID string) ([]domain.Trade, error)
	ListByReceiverItem(ctx context.Context, itemID string) ([]domain.Trade, error)
	// ListByParticipant returns the user's trades, newest UpdatedAt first.
	ListByParticipant(ctx context.Context, userID string) ([]domain.Trade, error)
	ExistsPending(ctx context.Context, proposerItemID, receiverItemID string) (bool, error)
	// HasLive reports whether an accepted, on-loan or return-pending trade references the item.
	HasLive(ctx context.Context, itemID string) (bool, error)
	ListOnLoan(ctx context.Context) ([]domain.Trade, error)
	DeleteMany(ctx context.Context, ids []string) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	// ListByTrade returns messages ordered by CreatedAt then ID.
	ListByTrade(ctx context.Context, tradeID string) ([]domain.Message, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetForUpdate(ctx context.Context, id string) (*domain.Review, error)
	MarkAggregated(ctx context.Context, id string) error
	ListByTarget(ctx context.Context, userID string) ([]domain.Review, error)
}

type NotificationRepository interface {
	// Create inserts n unless a notification with the same DedupeKey exists.
	// It reports whether a row was written.
	Create(ctx context.Context, n *domain.Notification) (bool, error)
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
}

type EventRepository interface {
	Append(ctx context.Context, event *domain.ChangeEvent) error
	// ClaimPending leases up to limit undelivered events whose previous lease
	// has expired, oldest first.
	ClaimPending(ctx context.Context, limit int, now time.Time, lease time.Duration) ([]domain.ChangeEvent, error)
	MarkDelivered(ctx context.Context, id string, handlerErr string, now time.Time) error
}

// Repositories is the set of repositories bound to one connection or transaction.
type Repositories struct {
	Users         UserRepository
	Items         ItemRepository
	Trades        TradeRepository
	Messages      MessageRepository
	Reviews       ReviewRepository
	Notifications NotificationRepository
	Reports       ReportRepository
	Events        EventRepository
}

type Store interface {
	Repositories() Repositories
	// WithinTx runs fn in one serializable transaction. fn's repositories
	// must not be used after it returns. An error from fn rolls back.
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
