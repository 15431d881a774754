package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/services"
	"github.com/SscSPs/card_ledger_app/internal/handlers"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/SscSPs/card_ledger_app/internal/platform/config"
	"github.com/SscSPs/card_ledger_app/internal/platform/metrics"
	"github.com/SscSPs/card_ledger_app/internal/repositories/cache"
	"github.com/SscSPs/card_ledger_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/card_ledger_app/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 15 * time.Second

// @title Card Ledger API
// @version 1.0
// @description Card authorization decisions and the double-entry ledger behind them.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Card ledger backend stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mtc := metrics.New(registry)

	options := []services.Option{
		services.WithMetrics(mtc),
		services.WithDecisionTimeout(cfg.DecisionTimeout),
		services.WithHomeCountry(cfg.HomeCountry),
		services.WithRetryPolicy(services.RetryPolicy{
			MaxRetries:      uint64(cfg.LedgerTxMaxRetries),
			InitialInterval: cfg.LedgerTxInitialBackoff,
			MaxInterval:     cfg.LedgerTxMaxBackoff,
			MaxElapsedTime:  services.DefaultRetryPolicy().MaxElapsedTime,
		}),
	}

	var locker *redsync.Redsync
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.Error("Error closing redis client", slog.String("error", cerr.Error()))
			}
		}()
		options = append(options, services.WithOutcomeCache(cache.NewRedisOutcomeCache(redisClient, cfg.IdempotencyCacheTTL)))
		locker = redsync.New(goredis.NewPool(redisClient))
	}

	repos := pgsql.NewRepositoryProvider(dbPool, cfg.DBLockTimeout)
	container, err := services.NewServiceContainer(repos, pgsql.NewCardResolver(dbPool), options...)
	if err != nil {
		return fmt.Errorf("failed to create services: %w", err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	if err := handlers.RegisterRoutes(r, cfg, container, registry); err != nil {
		return fmt.Errorf("failed to register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	sweeper := services.NewHoldSweeper(container.Account, services.HoldSweeperConfig{
		Interval:  cfg.HoldSweepInterval,
		BatchSize: cfg.HoldSweepBatchSize,
		Locker:    locker,
	}, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// runMigrations applies every pending "up" migration through a short-lived
// database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
