package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

const (
	defaultSideEffectTimeout = 2 * time.Second
	defaultStoreTimeout      = 5 * time.Second
)

// maxBalance is the largest value a NUMERIC(20,2) column holds.
var maxBalance = decimal.RequireFromString("999999999999999999.99")

// balanceMutator implements the BalanceMutatorSvc interface
type balanceMutator struct {
	BaseService
	accountRepo       portsrepo.AccountRepositoryFacade
	ledger            portssvc.LedgerAppenderSvc
	publisher         portssvc.EventPublisherSvc
	sideEffectTimeout time.Duration
	storeTimeout      time.Duration
	now               func() time.Time
	newID             func() string
}

// MutatorOption is a functional option for configuring the balance mutator
type MutatorOption func(*balanceMutator)

// WithSideEffectTimeout bounds the post-commit ledger append.
func WithSideEffectTimeout(d time.Duration) MutatorOption {
	return func(m *balanceMutator) {
		if d > 0 {
			m.sideEffectTimeout = d
		}
	}
}

// WithStoreTimeout bounds each account store call.
func WithStoreTimeout(d time.Duration) MutatorOption {
	return func(m *balanceMutator) {
		if d > 0 {
			m.storeTimeout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) MutatorOption {
	return func(m *balanceMutator) {
		m.now = now
	}
}

// WithIDGenerator overrides transaction ID generation.
func WithIDGenerator(newID func() string) MutatorOption {
	return func(m *balanceMutator) {
		m.newID = newID
	}
}

// NewBalanceMutator creates the mutator. ledger and publisher may be nil, in
// which case the corresponding side effect is skipped.
func NewBalanceMutator(accountRepo portsrepo.AccountRepositoryFacade, ledger portssvc.LedgerAppenderSvc, publisher portssvc.EventPublisherSvc, options ...MutatorOption) portssvc.BalanceMutatorSvc {
	m := &balanceMutator{
		accountRepo:       accountRepo,
		ledger:            ledger,
		publisher:         publisher,
		sideEffectTimeout: defaultSideEffectTimeout,
		storeTimeout:      defaultStoreTimeout,
		now:               func() time.Time { return time.Now().UTC() },
		newID:             uuid.NewString,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

var _ portssvc.BalanceMutatorSvc = (*balanceMutator)(nil)

// ValidateTransactionRequest checks a request without touching any store.
func ValidateTransactionRequest(req domain.TransactionRequest) error {
	if req.AccountID == "" {
		return apperrors.NewAppError(apperrors.KindInvalidInput, "account id is required", nil)
	}
	if !req.Type.IsValid() {
		return apperrors.NewAppError(apperrors.KindInvalidInput, fmt.Sprintf("unsupported transaction type %q", req.Type), nil)
	}
	if !req.Amount.IsPositive() {
		return apperrors.NewAppError(apperrors.KindInvalidInput, "amount must be greater than zero", nil)
	}
	if !domain.HasMoneyScale(req.Amount) {
		return apperrors.NewAppError(apperrors.KindInvalidInput, "amount must have at most 2 decimal places", nil)
	}
	if req.Amount.GreaterThan(maxBalance) {
		return apperrors.NewAppError(apperrors.KindInvalidInput, "amount exceeds the maximum supported value", nil)
	}
	return nil
}

func (m *balanceMutator) Apply(ctx context.Context, req domain.TransactionRequest) (*domain.MutationResult, error) {
	if err := ValidateTransactionRequest(req); err != nil {
		m.LogDebug(ctx, "Rejected invalid transaction request", slog.String("error", err.Error()))
		return nil, err
	}
	amount := domain.RoundMoney(req.Amount)

	account, err := m.readAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	candidate := domain.RoundMoney(account.Balance.Add(req.Type.Signed(amount)))
	if candidate.IsNegative() {
		m.LogInfo(ctx, "Insufficient funds for debit",
			slog.String("account_id", req.AccountID),
			slog.String("balance", account.Balance.StringFixed(domain.MoneyScale)),
			slog.String("amount", amount.StringFixed(domain.MoneyScale)))
		return nil, apperrors.NewAppError(apperrors.KindInsufficientFunds,
			fmt.Sprintf("insufficient funds: balance %s, debit %s", account.Balance.StringFixed(domain.MoneyScale), amount.StringFixed(domain.MoneyScale)), nil)
	}
	if candidate.GreaterThan(maxBalance) {
		return nil, apperrors.NewAppError(apperrors.KindInvalidInput, "resulting balance exceeds the maximum supported value", nil)
	}

	occurredAt := m.now()
	newVersion := account.Version + 1
	if err := m.writeBalance(ctx, account, candidate, newVersion, occurredAt); err != nil {
		return nil, err
	}

	result := &domain.MutationResult{
		TransactionID: m.newID(),
		AccountID:     account.AccountID,
		Type:          req.Type,
		Amount:        amount,
		NewBalance:    candidate,
		Version:       newVersion,
		OccurredAt:    occurredAt,
	}
	m.LogInfo(ctx, "Balance mutation committed",
		slog.String("account_id", result.AccountID),
		slog.String("transaction_id", result.TransactionID),
		slog.String("type", string(result.Type)),
		slog.String("amount", amount.StringFixed(domain.MoneyScale)),
		slog.Int64("version", newVersion))

	m.runSideEffects(ctx, account, result)
	return result, nil
}

func (m *balanceMutator) readAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	readCtx, cancel := context.WithTimeout(ctx, m.storeTimeout)
	defer cancel()

	account, err := m.accountRepo.FindAccountByID(readCtx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.KindNotFound, fmt.Sprintf("account %s not found", accountID), err)
		}
		m.LogError(ctx, err, "Failed to read account", slog.String("account_id", accountID))
		return nil, apperrors.NewAppError(apperrors.KindTransientStoreFailure, "failed to read account", err)
	}
	return account, nil
}

func (m *balanceMutator) writeBalance(ctx context.Context, account *domain.Account, candidate decimal.Decimal, newVersion int64, at time.Time) error {
	writeCtx, cancel := context.WithTimeout(ctx, m.storeTimeout)
	defer cancel()

	err := m.accountRepo.CompareAndSetBalance(writeCtx, account.AccountID, account.Version, candidate, newVersion, at)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, portsrepo.ErrVersionMismatch):
		m.LogInfo(ctx, "Conditional balance write lost the race",
			slog.String("account_id", account.AccountID),
			slog.Int64("expected_version", account.Version))
		return apperrors.NewAppError(apperrors.KindConflict, "account was modified concurrently, re-issue the request", err)
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewAppError(apperrors.KindNotFound, fmt.Sprintf("account %s not found", account.AccountID), err)
	}

	// The write may have been applied before the failure was observed.
	m.LogError(ctx, err, "Conditional balance write failed, outcome unknown",
		slog.String("account_id", account.AccountID),
		slog.Int64("expected_version", account.Version))
	appErr := apperrors.NewAppError(apperrors.KindTransientStoreFailure, "balance write outcome unknown, read the balance before retrying", err)
	appErr.OutcomeUnknown = true
	return appErr
}

// runSideEffects appends the ledger entry and publishes the event concurrently.
// Neither can fail the mutation; problems become warnings on result.
func (m *balanceMutator) runSideEffects(ctx context.Context, account *domain.Account, result *domain.MutationResult) {
	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.sideEffectTimeout)
	defer cancel()

	var mu sync.Mutex
	addWarning := func(component string, err error) {
		mu.Lock()
		defer mu.Unlock()
		result.Warnings = append(result.Warnings, domain.Warning{
			Kind:      domain.WarningKindDegradedWrite,
			Component: component,
			Message:   err.Error(),
		})
	}

	var wg conc.WaitGroup
	if m.ledger != nil {
		record := domain.TransactionRecord{
			TransactionID:    result.TransactionID,
			AccountID:        result.AccountID,
			Type:             result.Type,
			Amount:           result.Amount,
			ResultingBalance: result.NewBalance,
			Version:          result.Version,
			OccurredAt:       result.OccurredAt,
		}
		wg.Go(func() {
			if err := guard(func() error { return m.ledger.Append(sideCtx, record) }); err != nil {
				m.LogWarn(ctx, err, "Ledger append failed after committed mutation",
					slog.String("account_id", record.AccountID),
					slog.String("transaction_id", record.TransactionID))
				addWarning(domain.ComponentLedger, fmt.Errorf("%w: ledger entry not recorded: %v", apperrors.ErrDegradedWrite, err))
			}
		})
	}

	if m.publisher != nil && account.CanNotify() {
		event := domain.TransactionEvent{
			TransactionID: result.TransactionID,
			AccountID:     result.AccountID,
			Type:          result.Type,
			Amount:        result.Amount,
			NewBalance:    result.NewBalance,
			OccurredAt:    result.OccurredAt,
			Recipient:     account.Contact(),
		}
		wg.Go(func() {
			err := guard(func() error {
				if !m.publisher.Publish(sideCtx, event) {
					return errors.New("event publisher did not accept the event")
				}
				return nil
			})
			if err != nil {
				m.LogWarn(ctx, err, "Transaction event not queued",
					slog.String("transaction_id", event.TransactionID))
				addWarning(domain.ComponentPublisher, fmt.Errorf("%w: notification not queued: %v", apperrors.ErrDegradedWrite, err))
				return
			}
			mu.Lock()
			result.NotificationQueued = true
			mu.Unlock()
		})
	}

	wg.Wait()
}

// guard runs fn and converts a panic into an error.
func guard(fn func() error) (err error) {
	var pc panics.Catcher
	pc.Try(func() { err = fn() })
	if r := pc.Recovered(); r != nil {
		return r.AsError()
	}
	return err
}
