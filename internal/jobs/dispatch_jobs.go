package jobs

import (
	"context"

	"swapcircle-backend/internal/logger"
)

// DispatchEvents delivers pending change events to their reactions.
func (jr *JobRunner) DispatchEvents() {
	jr.runWithRecovery("DispatchEvents", func(ctx context.Context) {
		delivered, err := jr.dispatcher.DispatchPending(ctx)
		if err != nil {
			logger.Error("Failed to dispatch change events", "delivered", delivered, "error", err)
			return
		}
		if delivered > 0 {
			logger.Info("Dispatched change events", "count", delivered)
		}
	})
}
