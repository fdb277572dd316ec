package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultMySQLRetryInterval is the wait between connection attempts when
// MySQLConfig.RetryInterval is not set.
const DefaultMySQLRetryInterval = 2 * time.Second

// MySQLConfig holds connection and pool settings for the MySQL client.
type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MaxRetries      int
	RetryInterval   time.Duration
	// LogLevel is one of silent, error, warn, info.
	LogLevel string
}

// NewGormMySQL opens a gorm MySQL connection, retrying until the server answers
// or the retry budget is spent.
func NewGormMySQL(ctx context.Context, cfg MySQLConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("mysql DSN cannot be empty")
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = DefaultMySQLRetryInterval
	}

	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormLogger(cfg.LogLevel),
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = gorm.Open(mysql.Open(cfg.DSN), gormConfig)
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				err = sqlDB.PingContext(ctx)
			} else {
				err = dbErr
			}
		}
		if err == nil {
			break
		}
		if attempt < maxRetries {
			slog.Warn("Failed to connect to MySQL, retrying",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", maxRetries),
				slog.Duration("retry_in", retryInterval),
				slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("mysql connect cancelled: %w", ctx.Err())
			case <-time.After(retryInterval):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql after %d attempts: %w", maxRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	slog.Info("Successfully connected to MySQL database.")
	return db, nil
}

// CloseGorm closes the connection pool behind db.
func CloseGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogger(level string) logger.Interface {
	logLevel := logger.Error
	switch level {
	case "info":
		logLevel = logger.Info
	case "warn":
		logLevel = logger.Warn
	case "silent":
		logLevel = logger.Silent
	}
	return logger.Default.LogMode(logLevel)
}
