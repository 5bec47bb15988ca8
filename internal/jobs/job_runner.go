package jobs

import (
	"context"
	"time"

	"swapcircle-backend/internal/config"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"
	"swapcircle-backend/internal/trigger"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store      repository.Store
	dispatcher *trigger.Dispatcher
	notifier   trigger.Notifier
	clock      func() time.Time
	config     *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store repository.Store, dispatcher *trigger.Dispatcher, notifier trigger.Notifier, clock func() time.Time, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:      store,
		dispatcher: dispatcher,
		notifier:   notifier,
		clock:      clock,
		config:     cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Debug("Starting job", "job", jobName)
	jobFunc(context.Background())
	logger.Debug("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.DispatchEvents()
	jr.SendLoanDueReminders()
}
