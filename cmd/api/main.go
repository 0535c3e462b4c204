package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tratativas/internal/config"
	"tratativas/internal/database"
	"tratativas/internal/database/migration"
	handlers "tratativas/internal/http/handler"
	"tratativas/internal/http/middleware"
	"tratativas/internal/otel"
	"tratativas/internal/render"
	"tratativas/internal/repository/postgres"
	"tratativas/internal/service"
	"tratativas/internal/staging"
	"tratativas/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	stage := staging.New(cfg.Cleanup.TempDir)
	renderer := render.NewClient(cfg.Render.URL, time.Duration(cfg.Render.TimeoutSec)*time.Second)

	// Initialize repositories and services
	repo := postgres.NewTratativaPostgres(db)
	svc := service.NewTratativaService(repo, objStore, renderer, stage, cfg.Render, logger)

	// Periodic temp-file sweep, owned here and cancelled on shutdown.
	sweeper := service.NewSweeper(stage, objStore, logger,
		time.Duration(cfg.Cleanup.IntervalHours)*time.Hour,
		time.Duration(cfg.Cleanup.MinAgeMinutes)*time.Minute,
	)
	go sweeper.Run(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	promReg := prometheus.NewRegistry()
	promMiddleware, err := middleware.NewPrometheusMiddleware(promReg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, svc)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
