package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) GetStatement(ctx context.Context, accountID string, limit int) (*domain.Statement, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statement), args.Error(1)
}

func (m *MockStatementService) Reconcile(ctx context.Context, accountID string) (*domain.ReconciliationReport, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationReport), args.Error(1)
}

func (m *MockStatementService) ReconcileAll(ctx context.Context, batchSize int) (*domain.ReconciliationSummary, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSummary), args.Error(1)
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestReconcileJob_LogsDrift(t *testing.T) {
	var buf bytes.Buffer
	svc := new(MockStatementService)
	svc.On("ReconcileAll", mock.Anything, 50).Return(&domain.ReconciliationSummary{
		Checked:         3,
		Drifted:         1,
		DriftedAccounts: []string{"acc-7"},
	}, nil).Once()

	s := NewScheduler(svc, testLogger(&buf), "@hourly", 50)
	s.ReconcileJob()

	svc.AssertExpectations(t)
	out := buf.String()
	assert.Contains(t, out, `"msg":"ledger drift detected"`)
	assert.Contains(t, out, `"account_id":"acc-7"`)
	assert.Contains(t, out, `"checked":3`)
}

func TestReconcileJob_LogsAbort(t *testing.T) {
	var buf bytes.Buffer
	svc := new(MockStatementService)
	svc.On("ReconcileAll", mock.Anything, 10).Return(&domain.ReconciliationSummary{Checked: 1}, errors.New("store down")).Once()

	NewScheduler(svc, testLogger(&buf), "@hourly", 10).ReconcileJob()

	out := buf.String()
	assert.Contains(t, out, "reconciliation run aborted")
	assert.Contains(t, out, "store down")
	assert.Contains(t, out, `"checked":1`)
}

func TestStart_InvalidSchedule(t *testing.T) {
	var buf bytes.Buffer
	s := NewScheduler(new(MockStatementService), testLogger(&buf), "not a schedule", 10)
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewScheduler(new(MockStatementService), testLogger(&buf), "@every 1h", 10)
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}
