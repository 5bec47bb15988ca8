package service

import (
	"context"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"

	"github.com/google/uuid"
)

type messageService struct {
	store repository.Store
	clock Clock
}

func NewMessageService(store repository.Store, clock Clock) MessageService {
	return &messageService{store: store, clock: clock}
}

func (s *messageService) SendMessage(ctx context.Context, senderID, tradeID, text string) (*domain.Message, error) {
	logger.EnterMethod("messageService.SendMessage", "tradeID", tradeID, "senderID", senderID)
	text, err := domain.NormalizeMessage(text)
	if err != nil {
		return nil, err
	}

	var msg *domain.Message
	err = s.store.WithinTx(ctx, func(r repository.Repositories) error {
		trade, err := r.Trades.GetForUpdate(ctx, tradeID)
		if err != nil {
			return err
		}
		if err := checkConversation(ctx, r, trade, senderID); err != nil {
			return err
		}
		now := s.clock()
		msg = &domain.Message{
			ID:        uuid.NewString(),
			TradeID:   tradeID,
			SenderID:  senderID,
			Text:      text,
			CreatedAt: now,
		}
		if err := r.Messages.Create(ctx, msg); err != nil {
			return err
		}
		trade.Touch(now)
		return r.Trades.Update(ctx, trade)
	})
	if err != nil {
		logger.ExitMethodWithError("messageService.SendMessage", err, "tradeID", tradeID)
		return nil, err
	}
	logger.ExitMethod("messageService.SendMessage", "messageID", msg.ID)
	return msg, nil
}

func (s *messageService) ListMessages(ctx context.Context, userID, tradeID string) ([]domain.Message, error) {
	repos := s.store.Repositories()
	trade, err := repos.Trades.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if err := checkConversation(ctx, repos, trade, userID); err != nil {
		return nil, err
	}
	return repos.Messages.ListByTrade(ctx, tradeID)
}

func checkConversation(ctx context.Context, r repository.Repositories, trade *domain.Trade, userID string) error {
	counterpartyID := trade.Counterparty(userID)
	if counterpartyID == "" {
		return domain.Permission("only participants can use this conversation")
	}
	if !trade.Status.ChatEnabled() {
		return domain.StateConflict("chat is only open while the trade is in progress; it is %s", trade.Status)
	}
	user, err := r.Users.GetByID(ctx, userID)
	if err != nil {
		return profileRequired(err)
	}
	other, err := r.Users.GetByID(ctx, counterpartyID)
	if err != nil {
		return err
	}
	if domain.EitherBlocked(user, other) {
		return domain.Permission("this conversation is unavailable")
	}
	return nil
}
