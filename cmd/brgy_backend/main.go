package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portssvc "github.com/brgyhub/barangay_records_app/internal/core/ports/services"
	"github.com/brgyhub/barangay_records_app/internal/core/services"
	"github.com/brgyhub/barangay_records_app/internal/handlers"
	"github.com/brgyhub/barangay_records_app/internal/middleware"
	"github.com/brgyhub/barangay_records_app/internal/platform/audit"
	"github.com/brgyhub/barangay_records_app/internal/platform/pdf"
	"github.com/brgyhub/barangay_records_app/internal/repositories/database/pgsql"
	"github.com/brgyhub/barangay_records_app/pkg/config"
	"github.com/brgyhub/barangay_records_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Barangay Records API
// @version 1.0
// @description Document issuance workflow backend for barangay records.

// @host localhost:8080
// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, acting user, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendBaseURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-User-ID")
	r.Use(cors.New(corsConfig))

	r.Use(middleware.ActingUser())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT format", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories, collaborators and services
	repos := pgsql.NewRepositoryProvider(dbPool)
	clock := domain.NewRealClock()

	auditSink := audit.NewPosthogSink(cfg.PostHogAPIKey, logger)
	defer auditSink.Close()

	renderer := pdf.NewRendererClient(cfg.PDFRendererURL, logger)

	serviceContainer := &portssvc.ServiceContainer{
		Request: services.NewRequestService(repos.RequestRepo, repos.ResidentRepo, clock, auditSink),
		Document: services.NewDocumentService(
			repos.DocumentRepo,
			repos.RequestRepo,
			repos.ResidentRepo,
			repos.SequenceRepo,
			renderer,
			auditSink,
			clock,
			services.DocumentServiceConfig{
				QRSigningSecret: cfg.QRSigningSecret,
				QRIssuer:        cfg.QRIssuer,
			},
		),
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection compatible with the main pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
