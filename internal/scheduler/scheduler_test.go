package scheduler_test

import (
	"testing"
	"time"

	"swapcircle-backend/internal/config"
	"swapcircle-backend/internal/jobs"
	"swapcircle-backend/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		DispatchEvents:   "*/5 * * * * *",
		LoanDueReminders: "0 0 8 * * *",
	}}
	runner := jobs.NewJobRunner(nil, nil, nil, time.Now, cfg)

	s, err := scheduler.NewScheduler(runner)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		DispatchEvents:   "every now and then",
		LoanDueReminders: "0 0 8 * * *",
	}}
	_, err := scheduler.NewScheduler(jobs.NewJobRunner(nil, nil, nil, time.Now, cfg))
	assert.Error(t, err)
}
