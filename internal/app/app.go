// Package app assembles the collaborators shared by the server and worker
// binaries from configuration.
package app

import (
	"context"
	"database/sql"
	"fmt"

	firebase "firebase.google.com/go/v4"
	_ "github.com/lib/pq"
	"google.golang.org/api/option"

	"swapcircle-backend/internal/config"
	"swapcircle-backend/internal/jobs"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/notify"
	"swapcircle-backend/internal/repository"
	"swapcircle-backend/internal/repository/memory"
	"swapcircle-backend/internal/repository/postgres"
	"swapcircle-backend/internal/security"
	"swapcircle-backend/internal/service"
	"swapcircle-backend/internal/trigger"
)

// OpenStore returns the configured store and a function releasing it.
func OpenStore(cfg *config.Config) (repository.Store, func(), error) {
	if cfg.Store.Type == "memory" {
		logger.Info("Using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")
	return postgres.NewStore(db), func() { db.Close() }, nil
}

func needsFirebase(cfg *config.Config) bool {
	return cfg.Auth.Provider == "firebase" || cfg.Notify.FCMEnabled
}

// FirebaseApp returns nil when neither Firebase auth nor FCM is configured.
func FirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	if !needsFirebase(cfg) {
		return nil, nil
	}
	var opts []option.ClientOption
	if cfg.Auth.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Auth.FirebaseCredentialsFile))
	}
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Auth.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	return fbApp, nil
}

// Verifier returns the identity provider selected by auth.provider.
func Verifier(ctx context.Context, cfg *config.Config, fbApp *firebase.App) (security.IdentityVerifier, error) {
	if cfg.Auth.Provider == "firebase" {
		v, err := security.NewFirebaseVerifier(ctx, fbApp)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return security.NewTokenManager(cfg.Auth.JWTSecret, cfg.AccessTokenTTL()), nil
}

// Notifier stores notifications and fans them out to the configured pushers.
func Notifier(ctx context.Context, cfg *config.Config, store repository.Store, fbApp *firebase.App) (*notify.Notifier, error) {
	var pushers []notify.Pusher
	if cfg.Notify.FCMEnabled {
		fcm, err := notify.NewFCMPusher(ctx, fbApp)
		if err != nil {
			return nil, err
		}
		pushers = append(pushers, fcm)
	}
	if sg := cfg.Notify.SendGrid; sg.APIKey != "" {
		pushers = append(pushers, notify.NewEmailPusher(sg.APIKey, sg.FromEmail, sg.FromName, cfg.Notify.AppURL))
	}
	for _, p := range pushers {
		logger.Info("Notification channel enabled", "channel", p.Name())
	}
	return notify.NewNotifier(store, service.SystemClock, pushers...), nil
}

// JobRunner wires the event dispatcher and its reactions for the scheduled jobs.
func JobRunner(cfg *config.Config, store repository.Store, notifier trigger.Notifier) *jobs.JobRunner {
	dispatcher := trigger.NewDispatcher(store, service.SystemClock, cfg.Scheduler.EventBatchSize, cfg.EventLease())
	trigger.NewReactions(store, notifier, service.SystemClock).RegisterAll(dispatcher)
	return jobs.NewJobRunner(store, dispatcher, notifier, service.SystemClock, cfg)
}
