package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharpfade/barber-booking-api/config"
	"github.com/sharpfade/barber-booking-api/controllers"
	"github.com/sharpfade/barber-booking-api/models"
	"github.com/sharpfade/barber-booking-api/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("starting barber booking api", zap.String("env", cfg.GoEnv))

	// Connect to database
	if err := config.ConnectDatabase(cfg, logger); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database migration completed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newObjectStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to configure object storage", zap.Error(err))
	}

	deps := buildDependencies(cfg, db, logger, services.NewPaystackService(cfg), store)

	dispatcher := services.NewDispatcher(
		db,
		services.NewMailer(cfg, logger),
		services.MustEmailRenderer(),
		logger,
		time.Duration(cfg.NotifyPollSeconds)*time.Second,
		cfg.NotifyMaxAttempts,
	)
	go dispatcher.Run(ctx)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           controllers.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newObjectStore returns the S3 store, or nil when no bucket is configured.
func newObjectStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (services.ObjectStore, error) {
	if !cfg.S3Enabled() {
		logger.Warn("AWS_S3_BUCKET not set, barber photo uploads are disabled")
		return nil, nil
	}
	store, err := services.NewS3Service(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// buildDependencies wires the services the router needs. store may be nil.
func buildDependencies(cfg *config.Config, db *gorm.DB, logger *zap.Logger, verifier services.PaymentVerifier, store services.ObjectStore) *controllers.Dependencies {
	var photos *services.PhotoService
	if store != nil {
		photos = services.NewPhotoService(db, store, logger)
	}
	outbox := services.NewOutbox(db, logger)

	return &controllers.Dependencies{
		Config:      cfg,
		DB:          db,
		Logger:      logger,
		Auth:        services.NewAuthService(db, cfg, logger),
		Orders:      services.NewOrderService(db, verifier, outbox, cfg, logger),
		Assignments: services.NewAssignmentService(db, outbox, photos, logger),
		Jobs:        services.NewJobService(db, outbox, cfg.AdminEmail, logger),
		Reviews:     services.NewReviewService(db, logger),
		Analytics:   services.NewAnalyticsService(db, logger),
		Staff:       services.NewStaffService(db, photos, logger),
		Photos:      photos,
		Outbox:      outbox,
	}
}
