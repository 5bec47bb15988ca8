package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"swapcircle-backend/internal/app"
	"swapcircle-backend/internal/config"
	"swapcircle-backend/internal/jobs"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'dispatch-events', 'loan-due-reminders', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Store.Type == "memory" {
		log.Fatalf("The worker needs a shared store; with store.type memory the server dispatches events itself")
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting SwapCircle worker...", "log_level", cfg.Log.Level)

	store, closeStore, err := app.OpenStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	ctx := context.Background()
	fbApp, err := app.FirebaseApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize firebase: %v", err)
	}
	notifier, err := app.Notifier(ctx, cfg, store, fbApp)
	if err != nil {
		log.Fatalf("Failed to initialize notifications: %v", err)
	}

	// Initialize Job Runner
	jobRunner := app.JobRunner(cfg, store, notifier)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Worker scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down worker scheduler...")
	cronScheduler.Stop()
	logger.Info("Worker scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "dispatch-events":
		jobRunner.DispatchEvents()
	case "loan-due-reminders":
		jobRunner.SendLoanDueReminders()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - dispatch-events\n")
		fmt.Printf("  - loan-due-reminders\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
