package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/balance_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/balance_ledger/internal/adapters/database/mysql"
	"github.com/SscSPs/balance_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/balance_ledger/internal/adapters/messaging/logbroker"
	"github.com/SscSPs/balance_ledger/internal/adapters/messaging/rabbitmq"
	"github.com/SscSPs/balance_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/balance_ledger/internal/core/services"
	"github.com/SscSPs/balance_ledger/internal/handlers"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/SscSPs/balance_ledger/internal/platform/config"
	"github.com/SscSPs/balance_ledger/internal/scheduler"
	"github.com/SscSPs/balance_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// closers run in reverse order on shutdown.
type closers []func()

func (c closers) closeAll() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup closers
	defer cleanup.closeAll()

	repos, err := buildRepositories(ctx, cfg, logger, &cleanup)
	if err != nil {
		return err
	}

	broker := buildBroker(cfg, logger)
	cleanup = append(cleanup, func() {
		if err := broker.Close(); err != nil {
			logger.Error("Error closing broker", slog.String("error", err.Error()))
		}
	})

	publisher := services.NewEventPublisher(broker,
		services.WithQueueSize(cfg.EventQueueSize),
		services.WithPublishTimeout(cfg.PublishTimeout))
	container := services.NewServiceContainer(cfg, repos, publisher)

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiter falls back to memory store", slog.String("error", err.Error()))
			redisClient = nil
		} else {
			cleanup = append(cleanup, func() { _ = redisClient.Close() })
		}
	}
	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return err
	}

	if cfg.ReconcileSchedule != "" {
		sched := scheduler.NewScheduler(container.Statement, logger, cfg.ReconcileSchedule, cfg.ReconcileBatchSize)
		if err := sched.Start(); err != nil {
			return err
		}
		cleanup = append(cleanup, func() { <-sched.Stop().Done() })
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}
	handlers.RegisterRoutes(r, cfg, container, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	if err := publisher.Shutdown(shutdownCtx); err != nil {
		logger.Error("Event publisher did not drain", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
	return nil
}

func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger, cleanup *closers) (portsrepo.RepositoryProvider, error) {
	var pool *pgxpool.Pool
	if cfg.StorageBackend == config.BackendPostgres || cfg.LedgerBackend == config.BackendPostgres {
		if cfg.RunMigrations {
			logger.Info("Running database migrations...")
			if err := pgsql.RunMigrations(cfg.DatabaseURL, logger); err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
		}
		var err error
		pool, err = database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolConfig{
			MaxConns: cfg.DBMaxConns,
			Ping:     cfg.EnableDBCheck,
		})
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		*cleanup = append(*cleanup, pool.Close)
		logger.Info("Database connection pool established.")
	}

	var repos portsrepo.RepositoryProvider
	if pool != nil {
		repos = pgsql.NewRepositoryProvider(pool)
	}
	if cfg.StorageBackend == config.BackendMemory {
		logger.Warn("Using in-memory account store, balances are lost on restart")
		repos.AccountRepo = memory.NewAccountRepository()
	}

	switch cfg.LedgerBackend {
	case config.BackendMemory:
		repos.LedgerRepo = memory.NewLedgerRepository()
	case config.BackendMySQL:
		db, err := database.NewGormMySQL(ctx, database.MySQLConfig{
			DSN:           cfg.MySQLDSN,
			MaxRetries:    cfg.MySQLMaxRetries,
			RetryInterval: cfg.MySQLRetryInterval,
			LogLevel:      cfg.LogLevel,
		})
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		*cleanup = append(*cleanup, func() { closeGorm(db, logger) })
		ledgerRepo := mysql.NewGormLedgerRepository(db)
		if err := ledgerRepo.AutoMigrate(ctx); err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		repos.LedgerRepo = ledgerRepo
	}

	logger.Info("Repositories ready",
		slog.String("account_store", cfg.StorageBackend),
		slog.String("ledger", cfg.LedgerBackend))
	return repos, nil
}

func closeGorm(db *gorm.DB, logger *slog.Logger) {
	if err := database.CloseGorm(db); err != nil {
		logger.Error("Error closing MySQL connection", slog.String("error", err.Error()))
	}
}

func buildBroker(cfg *config.Config, logger *slog.Logger) events.Broker {
	if cfg.RabbitMQURL == "" {
		return logbroker.New(slog.LevelInfo)
	}
	producer, err := rabbitmq.NewProducer(cfg.RabbitMQURL, cfg.EventExchange)
	if err != nil {
		logger.Error("RabbitMQ unavailable, transaction events will only be logged", slog.String("error", err.Error()))
		return logbroker.New(slog.LevelWarn)
	}
	logger.Info("Publishing transaction events", slog.String("exchange", cfg.EventExchange))
	return producer
}
