package logbroker

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/SscSPs/balance_ledger/internal/core/ports/events"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_LogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := middleware.WithLogger(context.Background(), logger)

	b := New(slog.LevelInfo)
	err := b.Publish(ctx, events.Message{RoutingKey: "transactions.credit", MessageID: "txn-1", Body: []byte(`{"a":1}`)})
	require.NoError(t, err)
	require.NoError(t, b.Close())

	out := buf.String()
	assert.Contains(t, out, `"routing_key":"transactions.credit"`)
	assert.Contains(t, out, `"message_id":"txn-1"`)
}
