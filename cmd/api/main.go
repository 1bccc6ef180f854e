package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/groupflow-app/groupflow/pkg/validator"

	"github.com/groupflow-app/groupflow/internal/adapter/handler"
	"github.com/groupflow-app/groupflow/internal/adapter/memory"
	"github.com/groupflow-app/groupflow/internal/adapter/repository"
	"github.com/groupflow-app/groupflow/internal/domain/repositories"
	"github.com/groupflow-app/groupflow/internal/infrastructure/cache"
	"github.com/groupflow-app/groupflow/internal/infrastructure/database"
	httpmw "github.com/groupflow-app/groupflow/internal/infrastructure/http/middleware"
	"github.com/groupflow-app/groupflow/internal/infrastructure/storage"
	"github.com/groupflow-app/groupflow/internal/usecase/export"
	meetingUsecase "github.com/groupflow-app/groupflow/internal/usecase/meeting"
	"github.com/groupflow-app/groupflow/internal/usecase/orchestration"
	"github.com/groupflow-app/groupflow/internal/usecase/snapshot"
	"github.com/groupflow-app/groupflow/internal/usecase/submission"
	"github.com/groupflow-app/groupflow/internal/usecase/voting"
	"github.com/groupflow-app/groupflow/pkg/config"
	"github.com/groupflow-app/groupflow/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Idempotency-Key"},
		AllowCredentials: true,
	}))

	// Select the durable store. The memory driver keeps everything in-process
	// and exists for development and tests.
	var store repositories.Store
	switch cfg.Store.Driver {
	case "postgres":
		logger.Info("connecting to database")
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)

		if cfg.Database.AutoMigrate {
			if cfg.Server.Environment == "production" {
				log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Manage schema with sql-migrate.")
			}
			logger.Info("running sql-migrate migrations")
			if err := database.Migrate(db); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		store = repository.NewStore(db)
	case "memory":
		logger.Warn("using in-memory store, all data is lost on restart")
		store = memory.NewStore()
	}

	// Select the idempotency ledger. The store driver reuses the durable
	// store; the redis driver elects winners via SetNX.
	var ledger repositories.IdempotencyRepository
	switch cfg.Ledger.Driver {
	case "redis":
		logger.Info("connecting to redis for the idempotency ledger")
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		ledger = cache.NewRedisLedger(redisClient, cfg.Ledger.RecordTTL)
	case "store":
		ledger = store.Ledger()
	}

	// Initialize JWT manager
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	// Initialize services
	meetingService := meetingUsecase.NewMeetingService(store, logger)
	orchestrationService := orchestration.NewOrchestrationService(store, logger)
	submissionService := submission.NewSubmissionService(store, ledger, logger, cfg.Ledger.WaitTimeout, cfg.Ledger.PollInterval)
	votingService := voting.NewVotingService(store, logger)
	snapshotService := snapshot.NewSnapshotService(store)

	// Result exports need object storage; skip the wiring when disabled
	var exportService export.Service
	if cfg.Storage.Enabled {
		logger.Info("connecting to object storage", zap.String("endpoint", cfg.Storage.Endpoint))
		minioClient, err := storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to connect to object storage: %v", err)
		}
		exportService = export.NewExportService(store, minioClient, logger)
	} else {
		logger.Info("object storage disabled, result exports unavailable")
	}

	// Initialize handlers
	meetingHandler := handler.NewMeetingHandler(meetingService, snapshotService, logger)
	activityHandler := handler.NewActivityHandler(orchestrationService, exportService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	voteHandler := handler.NewVoteHandler(votingService, logger)

	// Setup router with handlers
	authEchoMW := httpmw.EchoAuth(jwtManager)
	router := handler.NewRouter(cfg, meetingHandler, activityHandler, submissionHandler, voteHandler, authEchoMW)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("server stopped gracefully")
}
