package service

import (
	"context"
	"sort"
	"strings"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"

	"github.com/google/uuid"
)

const maxProposalMessageLength = 500

type tradeService struct {
	store repository.Store
	clock Clock
}

func NewTradeService(store repository.Store, clock Clock) TradeService {
	return &tradeService{store: store, clock: clock}
}

func (s *tradeService) ProposeTrade(ctx context.Context, proposerID string, in ProposeInput) (*domain.Trade, error) {
	logger.EnterMethod("tradeService.ProposeTrade", "proposerID", proposerID,
		"proposerItemID", in.ProposerItemID, "receiverItemID", in.ReceiverItemID)

	message := strings.TrimSpace(in.Message)
	if len(message) > maxProposalMessageLength {
		return nil, domain.Validation("the message must be at most %d characters", maxProposalMessageLength)
	}
	if in.ProposerItemID == "" || in.ReceiverItemID == "" {
		return nil, domain.Validation("choose the item you want and one of yours to offer")
	}

	var trade *domain.Trade
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		proposer, err := r.Users.GetByID(ctx, proposerID)
		if err != nil {
			return profileRequired(err)
		}
		items, err := lockItems(ctx, r.Items, in.ReceiverItemID, in.ProposerItemID)
		if err != nil {
			return err
		}
		receiverItem, proposerItem := items[in.ReceiverItemID], items[in.ProposerItemID]
		if receiverItem == nil {
			return domain.NotFound("the item you asked for no longer exists")
		}
		if proposerItem == nil {
			return domain.NotFound("the item you offered no longer exists")
		}
		if err := domain.ValidateProposal(proposerID, proposerItem, receiverItem); err != nil {
			return err
		}

		receiver, err := r.Users.GetByID(ctx, receiverItem.OwnerID)
		if err != nil {
			return err
		}
		if domain.EitherBlocked(proposer, receiver) {
			return domain.Permission("you cannot trade with this user")
		}

		dup, err := r.Trades.ExistsPending(ctx, proposerItem.ID, receiverItem.ID)
		if err != nil {
			return err
		}
		if dup {
			return domain.StateConflict("you already have a pending request offering %s for %s", proposerItem.Name, receiverItem.Name)
		}

		now := s.clock()
		trade = domain.NewTrade(uuid.NewString(), proposer, receiver, proposerItem, receiverItem, message, now)
		trade.ProposerName, trade.ReceiverName = proposer.Name(), receiver.Name()
		if err := r.Trades.Create(ctx, trade); err != nil {
			return err
		}
		return appendEvent(ctx, r.Events, domain.EventTradeCreated, trade.ID, domain.TradeCreatedPayload{
			TradeID:          trade.ID,
			Participants:     trade.Participants(),
			ProposerID:       trade.ProposerID,
			ProposerName:     trade.ProposerName,
			ReceiverItemName: trade.ReceiverItemName,
		}, now)
	})
	if err != nil {
		logger.ExitMethodWithError("tradeService.ProposeTrade", err, "proposerID", proposerID)
		return nil, err
	}
	logger.ExitMethod("tradeService.ProposeTrade", "tradeID", trade.ID)
	return trade, nil
}

func (s *tradeService) AcceptTrade(ctx context.Context, userID, tradeID string) (*domain.Trade, error) {
	return s.Transition(ctx, userID, tradeID, domain.ActionAccept)
}

func (s *tradeService) RejectTrade(ctx context.Context, userID, tradeID string) (*domain.Trade, error) {
	return s.Transition(ctx, userID, tradeID, domain.ActionReject)
}

func (s *tradeService) CancelTrade(ctx context.Context, userID, tradeID string) (*domain.Trade, error) {
	return s.Transition(ctx, userID, tradeID, domain.ActionCancel)
}

func (s *tradeService) ConfirmStart(ctx context.Context, userID, tradeID string) (*domain.Trade, error) {
	return s.Transition(ctx, userID, tradeID, domain.ActionConfirmStart)
}

func (s *tradeService) ConfirmReturn(ctx context.Context, userID, tradeID string) (*domain.Trade, error) {
	return s.Transition(ctx, userID, tradeID, domain.ActionConfirmReturn)
}

// Transition locks the trade, then its items, decides, and writes the trade,
// the item statuses and the change event in one transaction.
func (s *tradeService) Transition(ctx context.Context, userID, tradeID string, action domain.TradeAction) (*domain.Trade, error) {
	logger.EnterMethod("tradeService.Transition", "tradeID", tradeID, "userID", userID, "action", action)

	var trade *domain.Trade
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		trade, err = r.Trades.GetForUpdate(ctx, tradeID)
		if err != nil {
			return err
		}
		items, err := lockItems(ctx, r.Items, trade.ItemIDs()...)
		if err != nil {
			return err
		}

		now := s.clock()
		tr, err := trade.Apply(action, userID, now)
		if err != nil {
			return err
		}

		switch tr.Items {
		case domain.ItemsLock:
			for _, id := range trade.ItemIDs() {
				it := items[id]
				if it == nil {
					return domain.NotFound("an item in this trade no longer exists")
				}
				if it.Status != domain.ItemStatusAvailable {
					return domain.StateConflict("%s is no longer available", it.Name)
				}
			}
			fallthrough
		case domain.ItemsUnlock:
			for _, id := range trade.ItemIDs() {
				if err := r.Items.SetStatus(ctx, id, tr.ItemStatus, now); err != nil {
					return err
				}
			}
		}

		if err := r.Trades.Update(ctx, trade); err != nil {
			return err
		}
		if !tr.StatusChanged() {
			return nil
		}
		return appendEvent(ctx, r.Events, domain.EventTradeStatusChanged, trade.ID, domain.TradeStatusChangedPayload{
			TradeID: trade.ID,
			ActorID: userID,
			Action:  action,
			From:    tr.From,
			To:      tr.To,
		}, now)
	})
	if err != nil {
		logger.ExitMethodWithError("tradeService.Transition", err, "tradeID", tradeID, "action", action)
		return nil, err
	}
	logger.ExitMethod("tradeService.Transition", "tradeID", tradeID, "status", trade.Status)
	return trade, nil
}

func (s *tradeService) GetTrade(ctx context.Context, userID, tradeID string) (*domain.Trade, error) {
	trade, err := s.store.Repositories().Trades.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if _, ok := trade.RoleOf(userID); !ok {
		return nil, domain.Permission("only participants can view this trade")
	}
	return trade, nil
}

func (s *tradeService) ListTrades(ctx context.Context, userID string) (*TradeInbox, error) {
	trades, err := s.store.Repositories().Trades.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	inbox := &TradeInbox{}
	for _, t := range trades {
		switch {
		case t.Status == domain.TradeStatusPending && t.ReceiverID == userID:
			inbox.Invitations = append(inbox.Invitations, t)
		case t.Status == domain.TradeStatusPending:
			inbox.Sent = append(inbox.Sent, t)
		case t.Status.Live():
			inbox.Active = append(inbox.Active, t)
		default:
			inbox.History = append(inbox.History, t)
		}
	}
	return inbox, nil
}

// lockItems loads the given items FOR UPDATE in id order so concurrent
// transactions lock them in the same order. Missing items are absent from
// the result.
func lockItems(ctx context.Context, items repository.ItemRepository, ids ...string) (map[string]*domain.Item, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	locked := make(map[string]*domain.Item, len(sorted))
	for _, id := range sorted {
		if _, seen := locked[id]; seen {
			continue
		}
		it, err := items.GetForUpdate(ctx, id)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				continue
			}
			return nil, err
		}
		locked[id] = it
	}
	return locked, nil
}
