package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "swapcircle-backend/internal/api/grpc"
	"swapcircle-backend/internal/api/grpc/interceptor"
	httpapi "swapcircle-backend/internal/api/http"
	"swapcircle-backend/internal/app"
	"swapcircle-backend/internal/config"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/scheduler"
	"swapcircle-backend/internal/service"
	"swapcircle-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting SwapCircle backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http", cfg.HTTPAddress(), "grpc", cfg.GRPCAddress(), "store", cfg.Store.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	fbApp, err := app.FirebaseApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize firebase: %v", err)
	}
	verifier, err := app.Verifier(ctx, cfg, fbApp)
	if err != nil {
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}
	logger.Info("Identity provider configured", "provider", cfg.Auth.Provider)

	// Initialize Storage Service
	blobs, err := storage.New(storage.Config{
		Type:      cfg.Storage.Type,
		Dir:       cfg.Storage.UploadDir,
		BaseURL:   cfg.Storage.BaseURL,
		CloudName: cfg.Storage.CloudName,
		APIKey:    cfg.Storage.APIKey,
		APISecret: cfg.Storage.APISecret,
		Folder:    cfg.Storage.Folder,
	})
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}
	localImages, _ := blobs.(*storage.LocalStore)

	// Initialize Services
	clock := service.SystemClock
	userSvc := service.NewUserService(store, clock)
	itemSvc := service.NewItemService(store, blobs, clock)
	tradeSvc := service.NewTradeService(store, clock)
	messageSvc := service.NewMessageService(store, clock)
	reviewSvc := service.NewReviewService(store, clock)
	reportSvc := service.NewReportService(store, clock)
	noteSvc := service.NewNotificationService(store)

	// The in-memory store is private to this process, so its events are
	// dispatched here instead of by the worker.
	if cfg.Store.Type == "memory" {
		notifier, err := app.Notifier(ctx, cfg, store, fbApp)
		if err != nil {
			log.Fatalf("Failed to initialize notifications: %v", err)
		}
		cron, err := scheduler.NewScheduler(app.JobRunner(cfg, store, notifier))
		if err != nil {
			log.Fatalf("Failed to initialize scheduler: %v", err)
		}
		cron.Start()
		defer cron.Stop()
	}

	// Set up HTTP server
	httpServer := &http.Server{
		Addr: cfg.HTTPAddress(),
		Handler: httpapi.NewRouter(httpapi.Deps{
			Verifier:       verifier,
			Users:          userSvc,
			Items:          itemSvc,
			Trades:         tradeSvc,
			Messages:       messageSvc,
			Reviews:        reviewSvc,
			Reports:        reportSvc,
			Notifications:  noteSvc,
			Images:         localImages,
			MaxUploadBytes: cfg.MaxUploadBytes(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up gRPC server
	lis, err := net.Listen("tcp", cfg.GRPCAddress())
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		interceptor.Errors(),
		interceptor.NewAuthInterceptor(verifier).Unary(),
	))
	api.RegisterTradeServiceServer(grpcServer, api.NewTradeHandler(userSvc, itemSvc, tradeSvc, reviewSvc, messageSvc))
	healthpb.RegisterHealthServer(grpcServer, health.NewServer())

	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()
	go func() {
		logger.Info("gRPC server listening", "address", cfg.GRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped. Goodbye!")
}
