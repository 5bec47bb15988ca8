package service

import (
	"context"
	"io"
	"time"

	"swapcircle-backend/internal/domain"
)

// Clock is injected so tests control time.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now().UTC() }

type ItemInput struct {
	Details    domain.ItemDetails
	Preference domain.TradeTerms
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID string, in ItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID string, in ItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, ownerID, itemID string) error
	RelistItem(ctx context.Context, ownerID, itemID string) (*domain.Item, error)
	GetItem(ctx context.Context, itemID string) (*domain.Item, error)
	ListAvailableItems(ctx context.Context, viewerID, category string, page, pageSize int32) ([]domain.Item, int32, error)
	ListMyItems(ctx context.Context, ownerID string) ([]domain.Item, error)
	AttachImage(ctx context.Context, ownerID, itemID string, upload ImageUpload) (*domain.Item, error)
}

type ProposeInput struct {
	ProposerItemID string
	ReceiverItemID string
	Message        string
}

// TradeInbox groups a user's trades the way the inbox shows them.
type TradeInbox struct {
	Invitations []domain.Trade
	Sent        []domain.Trade
	Active      []domain.Trade
	History     []domain.Trade
}

type TradeService interface {
	ProposeTrade(ctx context.Context, proposerID string, in ProposeInput) (*domain.Trade, error)
	AcceptTrade(ctx context.Context, userID, tradeID string) (*domain.Trade, error)
	RejectTrade(ctx context.Context, userID, tradeID string) (*domain.Trade, error)
	CancelTrade(ctx context.Context, userID, tradeID string) (*domain.Trade, error)
	ConfirmStart(ctx context.Context, userID, tradeID string) (*domain.Trade, error)
	ConfirmReturn(ctx context.Context, userID, tradeID string) (*domain.Trade, error)
	// Transition applies any action; the named methods above delegate to it.
	Transition(ctx context.Context, userID, tradeID string, action domain.TradeAction) (*domain.Trade, error)
	GetTrade(ctx context.Context, userID, tradeID string) (*domain.Trade, error)
	ListTrades(ctx context.Context, userID string) (*TradeInbox, error)
}

type MessageService interface {
	SendMessage(ctx context.Context, senderID, tradeID, text string) (*domain.Message, error)
	ListMessages(ctx context.Context, userID, tradeID string) ([]domain.Message, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, fromUserID, tradeID string, rating int, comment string) (*domain.Review, error)
	ListReviews(ctx context.Context, userID string) ([]domain.Review, error)
}

type UserService interface {
	RegisterProfile(ctx context.Context, userID, displayName, email string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	BlockUser(ctx context.Context, userID, targetID string) (*domain.User, error)
	UnblockUser(ctx context.Context, userID, targetID string) (*domain.User, error)
}

type ReportService interface {
	CreateReport(ctx context.Context, reporterID, tradeID string, reason domain.ReportReason, comment string) (*domain.Report, error)
}

type NotificationService interface {
	ListNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
}
