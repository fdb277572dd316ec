package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Nothing listens on port 1, so every attempt is refused immediately.
const unreachableMySQLDSN = "ledger:ledger@tcp(127.0.0.1:1)/ledger?timeout=200ms"

func TestNewGormMySQL_EmptyDSN(t *testing.T) {
	_, err := NewGormMySQL(context.Background(), MySQLConfig{})
	assert.Error(t, err)
}

func TestNewGormMySQL_WaitsBetweenAttempts(t *testing.T) {
	start := time.Now()
	_, err := NewGormMySQL(context.Background(), MySQLConfig{
		DSN:           unreachableMySQLDSN,
		MaxRetries:    3,
		RetryInterval: 100 * time.Millisecond,
		LogLevel:      "silent",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestNewGormMySQL_DefaultIntervalWhenUnset(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewGormMySQL(ctx, MySQLConfig{
		DSN:        unreachableMySQLDSN,
		MaxRetries: 10,
		LogLevel:   "silent",
	})
	require.Error(t, err)
	// The first wait outlasts ctx, so the loop ends on cancellation rather
	// than spending all ten attempts.
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), DefaultMySQLRetryInterval)
}
