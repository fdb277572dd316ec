package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	rediscache "github.com/SscSPs/balance_ledger/internal/adapters/cache/redis"
	"github.com/SscSPs/balance_ledger/internal/adapters/messaging/rabbitmq"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/SscSPs/balance_ledger/internal/notification"
	"github.com/SscSPs/balance_ledger/internal/platform/config"
	"github.com/SscSPs/balance_ledger/pkg/database"
)

const prefetch = 20

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})).With(slog.String("service", "notifier"))
	slog.SetDefault(logger)

	if cfg.RabbitMQURL == "" {
		logger.Error("RABBITMQ_URL is required for the notifier")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger)

	var dedup notification.Deduplicator
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer client.Close()
		dedup = rediscache.NewDeduplicator(client, cfg.NotifierDedupTTL)
	} else {
		logger.Warn("REDIS_URL not set, redelivered events may send duplicate alerts")
	}

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL, prefetch)
	if err != nil {
		logger.Error("Failed to create consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Error("Error closing consumer", slog.String("error", err.Error()))
		}
	}()

	handler := notification.NewHandler(notification.LogSender{}, dedup)
	if err := consumer.Consume(ctx, cfg.EventExchange, cfg.NotifierQueue, handler.Bindings()); err != nil {
		logger.Error("Consumer stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Notifier stopped")
}
