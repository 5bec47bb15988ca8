package trigger

import (
	"context"
	"fmt"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"
)

// Notifier records a notification, skipping it when its dedupe key was used.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) (bool, error)
}

// Reactions holds the handlers the marketplace runs on committed changes.
type Reactions struct {
	store    repository.Store
	notifier Notifier
	clock    func() time.Time
}

func NewReactions(store repository.Store, notifier Notifier, clock func() time.Time) *Reactions {
	return &Reactions{store: store, notifier: notifier, clock: clock}
}

// RegisterAll wires every reaction into d.
func (r *Reactions) RegisterAll(d *Dispatcher) {
	d.Register(domain.EventTradeCreated, r.OnTradeCreated)
	d.Register(domain.EventTradeStatusChanged, r.OnTradeStatusChanged)
	d.Register(domain.EventReviewCreated, r.OnReviewCreated)
	d.Register(domain.EventItemDeleted, r.OnItemDeleted)
}

// OnTradeCreated tells the receiver about a new request.
func (r *Reactions) OnTradeCreated(ctx context.Context, ev domain.ChangeEvent) error {
	var p domain.TradeCreatedPayload
	if err := ev.Decode(&p); err != nil {
		return err
	}
	receiverID, err := receiverOf(p)
	if err != nil {
		logger.Error("Cannot derive trade receiver", "tradeID", p.TradeID, "participants", p.Participants, "error", err)
		return err
	}
	_, err = r.notifier.Notify(ctx, domain.Notification{
		UserID:      receiverID,
		Title:       "New Trade Request",
		Description: fmt.Sprintf("%s wants to trade for your %s!", p.ProposerName, p.ReceiverItemName),
		Link:        domain.InboxLink,
		DedupeKey:   "trade-created:" + p.TradeID,
	})
	return err
}

func receiverOf(p domain.TradeCreatedPayload) (string, error) {
	if len(p.Participants) != 2 || p.Participants[0] == p.Participants[1] {
		return "", domain.Validation("trade %s must have exactly two participants", p.TradeID)
	}
	switch p.ProposerID {
	case p.Participants[0]:
		return p.Participants[1], nil
	case p.Participants[1]:
		return p.Participants[0], nil
	}
	return "", domain.Validation("proposer of trade %s is not a participant", p.TradeID)
}

var statusCopy = map[domain.TradeStatus]struct{ title, format string }{
	domain.TradeStatusAccepted:      {"Trade Accepted", "%s accepted your trade for %s."},
	domain.TradeStatusRejected:      {"Trade Declined", "%s declined the trade for %s."},
	domain.TradeStatusCancelled:     {"Trade Cancelled", "%s cancelled the trade for %s."},
	domain.TradeStatusOnLoan:        {"Loan Started", "%s confirmed the handover of %s. Enjoy the swap!"},
	domain.TradeStatusReturnPending: {"Return Confirmed", "%s confirmed the return of %s. Please confirm it too."},
	domain.TradeStatusCompleted:     {"Trade Completed", "%s completed the trade for %s. Leave a review!"},
}

// OnTradeStatusChanged audits item statuses against the trade and notifies
// the other party of the actor. Item statuses were written with the trade;
// this reaction never writes them.
func (r *Reactions) OnTradeStatusChanged(ctx context.Context, ev domain.ChangeEvent) error {
	var p domain.TradeStatusChangedPayload
	if err := ev.Decode(&p); err != nil {
		return err
	}
	repos := r.store.Repositories()
	trade, err := repos.Trades.GetByID(ctx, p.TradeID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			logger.Info("Trade removed before its status change was handled", "tradeID", p.TradeID)
			return nil
		}
		return err
	}
	r.auditItems(ctx, repos, trade)

	copyText, ok := statusCopy[p.To]
	if !ok {
		return nil
	}
	recipientID := trade.Counterparty(p.ActorID)
	if recipientID == "" {
		return domain.Validation("actor %s is not a participant of trade %s", p.ActorID, p.TradeID)
	}
	actorName := "Your trading partner"
	if actor, err := repos.Users.GetByID(ctx, p.ActorID); err == nil {
		actorName = actor.Name()
	}
	_, err = r.notifier.Notify(ctx, domain.Notification{
		UserID:      recipientID,
		Title:       copyText.title,
		Description: fmt.Sprintf(copyText.format, actorName, itemNameFor(trade, recipientID)),
		Link:        domain.TradeLink(trade.ID),
		DedupeKey:   fmt.Sprintf("trade-status:%s:%s", p.TradeID, p.To),
	})
	return err
}

// itemNameFor names the item the recipient is receiving.
func itemNameFor(t *domain.Trade, userID string) string {
	if userID == t.ProposerID {
		return t.ReceiverItemName
	}
	return t.ProposerItemName
}

// auditItems logs items whose status disagrees with a live trade. Terminal
// trades are not audited since their items may have moved on.
func (r *Reactions) auditItems(ctx context.Context, repos repository.Repositories, t *domain.Trade) {
	if !t.Status.Live() {
		return
	}
	want := domain.LockStatus(t.Terms)
	for _, id := range t.ItemIDs() {
		it, err := repos.Items.GetByID(ctx, id)
		if err != nil {
			logger.Warn("Live trade references an unreadable item", "tradeID", t.ID, "itemID", id, "error", err)
			continue
		}
		if it.Status != want {
			logger.Warn("Item status inconsistent with trade",
				"tradeID", t.ID, "tradeStatus", t.Status, "itemID", id, "itemStatus", it.Status, "expected", want)
		}
	}
}

// OnReviewCreated folds the review into the target's running average once.
func (r *Reactions) OnReviewCreated(ctx context.Context, ev domain.ChangeEvent) error {
	var p domain.ReviewCreatedPayload
	if err := ev.Decode(&p); err != nil {
		return err
	}
	return r.store.WithinTx(ctx, func(tx repository.Repositories) error {
		review, err := tx.Reviews.GetForUpdate(ctx, p.ReviewID)
		if err != nil {
			return err
		}
		if review.Aggregated {
			logger.Debug("Review already aggregated", "reviewID", review.ID)
			return nil
		}
		user, err := tx.Users.GetForUpdate(ctx, review.ToUserID)
		if err != nil {
			logger.Error("Cannot aggregate review for missing user", "reviewID", review.ID, "userID", review.ToUserID, "error", err)
			return err
		}
		next := domain.UserRating{Rating: user.Rating, ReviewCount: user.ReviewCount}.Aggregate(review.Rating)
		if err := tx.Users.UpdateRating(ctx, user.ID, next, r.clock()); err != nil {
			return err
		}
		if err := tx.Reviews.MarkAggregated(ctx, review.ID); err != nil {
			return err
		}
		logger.Info("Rating updated", "userID", user.ID, "rating", next.Rating, "reviewCount", next.ReviewCount)
		return nil
	})
}

// OnItemDeleted removes every trade that references the deleted item. A live
// trade also hands the counterpart item back to its owner.
func (r *Reactions) OnItemDeleted(ctx context.Context, ev domain.ChangeEvent) error {
	var p domain.ItemDeletedPayload
	if err := ev.Decode(&p); err != nil {
		return err
	}
	removed := 0
	err := r.store.WithinTx(ctx, func(tx repository.Repositories) error {
		asProposer, err := tx.Trades.ListByProposerItem(ctx, p.ItemID)
		if err != nil {
			return err
		}
		asReceiver, err := tx.Trades.ListByReceiverItem(ctx, p.ItemID)
		if err != nil {
			return err
		}

		seen := make(map[string]bool)
		var ids []string
		now := r.clock()
		for _, t := range append(asProposer, asReceiver...) {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			ids = append(ids, t.ID)
			if !t.Status.Live() {
				continue
			}
			for _, itemID := range t.ItemIDs() {
				if itemID == p.ItemID {
					continue
				}
				err := tx.Items.SetStatus(ctx, itemID, domain.ItemStatusAvailable, now)
				if err != nil && domain.KindOf(err) != domain.KindNotFound {
					return err
				}
			}
		}
		if len(ids) == 0 {
			return nil
		}
		removed = len(ids)
		return tx.Trades.DeleteMany(ctx, ids)
	})
	if err != nil {
		return err
	}
	if removed > 0 {
		logger.Info("Removed trades of deleted item", "itemID", p.ItemID, "trades", removed)
	}
	return nil
}
