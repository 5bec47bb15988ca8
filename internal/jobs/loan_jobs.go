package jobs

import (
	"context"
	"fmt"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
)

// SendLoanDueReminders notifies both parties of every on-loan trade whose
// loan period has passed. It never changes the trade.
func (jr *JobRunner) SendLoanDueReminders() {
	jr.runWithRecovery("SendLoanDueReminders", func(ctx context.Context) {
		trades, err := jr.store.Repositories().Trades.ListOnLoan(ctx)
		if err != nil {
			logger.Error("Failed to query on-loan trades", "error", err)
			return
		}

		now := jr.clock()
		count := 0
		for _, t := range trades {
			due, ok := t.LoanDueAt()
			if !ok || now.Before(due) {
				continue
			}
			for _, userID := range t.Participants() {
				description := fmt.Sprintf("The loan period for %s ended on %s. Please arrange the return.",
					heldItem(&t, userID), due.Format("Jan 2, 2006"))
				created, err := jr.notifier.Notify(ctx, domain.Notification{
					UserID:      userID,
					Title:       "Loan Period Ended",
					Description: description,
					Link:        domain.TradeLink(t.ID),
					DedupeKey:   fmt.Sprintf("loan-due:%s:%s", t.ID, userID),
				})
				if err != nil {
					logger.Error("Failed to send loan due reminder",
						"trade_id", t.ID,
						"user_id", userID,
						"error", err)
					continue
				}
				if created {
					count++
				}
			}
		}

		logger.Info("Loan due reminders sent", "count", count)
	})
}

// heldItem is the item userID borrowed in t.
func heldItem(t *domain.Trade, userID string) string {
	if userID == t.ProposerID {
		return t.ReceiverItemName
	}
	return t.ProposerItemName
}
