package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/medicore/medicore/internal/admin"
	"github.com/medicore/medicore/internal/app"
	"github.com/medicore/medicore/internal/appointments"
	"github.com/medicore/medicore/internal/auth"
	"github.com/medicore/medicore/internal/doctors"
	"github.com/medicore/medicore/internal/feedback"
	"github.com/medicore/medicore/internal/observability"
	"github.com/medicore/medicore/internal/patients"
	"github.com/medicore/medicore/internal/platform/cache"
	"github.com/medicore/medicore/internal/platform/db"
	"github.com/medicore/medicore/internal/prescriptions"
	"github.com/medicore/medicore/internal/reports"
	"github.com/medicore/medicore/internal/storage"
	"github.com/medicore/medicore/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var backend storage.Backend
	localUploadDir := ""
	if cfg.UseObjectStore() {
		backend, err = storage.NewObjectStore(ctx, storage.ObjectStoreConfig{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Endpoint:     cfg.S3Endpoint,
			UsePathStyle: cfg.S3UsePathStyle,
			Timeout:      cfg.S3Timeout,
			PresignTTL:   cfg.S3PresignTTL,
		}, logger)
		if err != nil {
			logger.Error("init object store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("storage backend", slog.String("kind", "s3"), slog.String("bucket", cfg.S3Bucket))
	} else {
		backend, err = storage.NewLocal(cfg.UploadDir, logger)
		if err != nil {
			logger.Error("init local storage", slog.Any("error", err))
			os.Exit(1)
		}
		localUploadDir = cfg.UploadDir
		logger.Info("storage backend", slog.String("kind", "local"), slog.String("dir", cfg.UploadDir))
	}
	uploads := storage.NewPipeline(backend, cfg.UploadMaxBytes)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	guard := auth.Guard{Tokens: tokens, Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens)
	authHandler := auth.NewHandler(logger, authService)

	patientsRepo := patients.NewRepository(dbpool)
	patientsService := patients.NewService(patientsRepo)
	patientsHandler := patients.NewHandler(logger, patientsService, guard)

	doctorsRepo := doctors.NewRepository(dbpool)
	doctorsService := doctors.NewService(doctorsRepo)
	doctorsHandler := doctors.NewHandler(logger, doctorsService, guard)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	appointmentsRepo := appointments.NewRepository(dbpool)
	appointmentsService := appointments.NewService(appointmentsRepo, jobClient, logger)
	appointmentsHandler := appointments.NewHandler(logger, appointmentsService, guard)

	prescriptionsRepo := prescriptions.NewRepository(dbpool)
	prescriptionsService := prescriptions.NewService(prescriptionsRepo)
	prescriptionsHandler := prescriptions.NewHandler(logger, prescriptionsService, guard)

	metrics := observability.NewMetrics()

	reportsRepo := reports.NewRepository(dbpool)
	reportsService := reports.NewService(reportsRepo, uploads, logger)
	reportsHandler := reports.NewHandler(logger, reportsService, guard, metrics)

	feedbackRepo := feedback.NewRepository(dbpool)
	feedbackService := feedback.NewService(feedbackRepo, uploads, logger)
	feedbackHandler := feedback.NewHandler(logger, feedbackService, guard, metrics)

	adminRepo := admin.NewRepository(dbpool)
	adminCache := admin.NewCache(redisClient, 5*time.Minute)
	adminService := admin.NewService(adminRepo, adminCache, logger)
	adminHandler := admin.NewHandler(logger, adminService, guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		AuthHandler:          authHandler,
		PatientsHandler:      patientsHandler,
		DoctorsHandler:       doctorsHandler,
		AppointmentsHandler:  appointmentsHandler,
		PrescriptionsHandler: prescriptionsHandler,
		ReportsHandler:       reportsHandler,
		FeedbackHandler:      feedbackHandler,
		AdminHandler:         adminHandler,
		JobHandler:           jobHandler,
		Metrics:              metrics,
		LocalUploadDir:       localUploadDir,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
