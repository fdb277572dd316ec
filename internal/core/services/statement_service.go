package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// StatementService builds statements and reconciles the ledger against balances.
type StatementService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewStatementService creates a new StatementService.
func NewStatementService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader) *StatementService {
	return &StatementService{accountRepo: accountRepo, ledgerRepo: ledgerRepo}
}

var _ portssvc.StatementSvc = (*StatementService)(nil)

func (s *StatementService) loadAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if accountID == "" {
		return nil, apperrors.NewAppError(apperrors.KindInvalidInput, "account id is required", nil)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(apperrors.KindNotFound, fmt.Sprintf("account %s not found", accountID), err)
		}
		return nil, apperrors.NewAppError(apperrors.KindTransientStoreFailure, "failed to read account", err)
	}
	return account, nil
}

func (s *StatementService) GetStatement(ctx context.Context, accountID string, limit int) (*domain.Statement, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxLedgerPage {
		limit = maxLedgerPage
	}
	entries, err := s.ledgerRepo.ListTransactionsByAccount(ctx, accountID, 0, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger for statement", slog.String("account_id", accountID))
		return nil, apperrors.NewAppError(apperrors.KindTransientStoreFailure, "failed to read ledger", err)
	}

	st := &domain.Statement{
		Account:        *account,
		Entries:        entries,
		OpeningBalance: account.Balance,
		ClosingBalance: account.Balance,
		TotalCredits:   decimal.Zero,
		TotalDebits:    decimal.Zero,
	}
	if len(entries) == 0 {
		return st, nil
	}

	first := entries[0]
	st.OpeningBalance = first.ResultingBalance.Sub(first.Type.Signed(first.Amount))
	st.ClosingBalance = entries[len(entries)-1].ResultingBalance
	for _, e := range entries {
		if e.Type == domain.Credit {
			st.TotalCredits = st.TotalCredits.Add(e.Amount)
		} else {
			st.TotalDebits = st.TotalDebits.Add(e.Amount)
		}
	}
	return st, nil
}

// Reconcile replays every ledger entry in version order starting from the
// opening balance. Each entry's recorded resulting balance must follow from
// the previous one, and the final value must equal the live balance.
func (s *StatementService) Reconcile(ctx context.Context, accountID string) (*domain.ReconciliationReport, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.ListTransactionsByAccount(ctx, accountID, 0, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger for reconciliation", slog.String("account_id", accountID))
		return nil, apperrors.NewAppError(apperrors.KindTransientStoreFailure, "failed to read ledger", err)
	}

	report := ReplayLedger(*account, entries)
	if !report.Consistent {
		s.LogWarn(ctx, nil, "Ledger does not reconcile with live balance",
			slog.String("account_id", accountID),
			slog.String("live_balance", report.LiveBalance.StringFixed(domain.MoneyScale)),
			slog.String("replayed_balance", report.ReplayedBalance.StringFixed(domain.MoneyScale)),
			slog.Int("missing_entries", report.MissingEntries),
			slog.Int("breaks", len(report.Breaks)))
	}
	return report, nil
}

// ReplayLedger computes a reconciliation report without any I/O.
func ReplayLedger(account domain.Account, entries []domain.TransactionRecord) *domain.ReconciliationReport {
	sorted := make([]domain.TransactionRecord, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	report := &domain.ReconciliationReport{
		AccountID:   account.AccountID,
		LiveBalance: account.Balance,
		LiveVersion: account.Version,
		EntryCount:  len(sorted),
	}

	running := account.OpeningBalance
	nextVersion := int64(1)
	for _, e := range sorted {
		if e.Version > nextVersion {
			report.MissingEntries += int(e.Version - nextVersion)
		}
		running = running.Add(e.Type.Signed(e.Amount))
		if !running.Equal(e.ResultingBalance) {
			report.Breaks = append(report.Breaks, domain.ChainBreak{
				TransactionID: e.TransactionID,
				Version:       e.Version,
				Expected:      running,
				Recorded:      e.ResultingBalance,
			})
			running = e.ResultingBalance
		}
		nextVersion = e.Version + 1
	}
	if account.Version >= nextVersion {
		report.MissingEntries += int(account.Version - nextVersion + 1)
	}

	report.ReplayedBalance = running
	report.Consistent = len(report.Breaks) == 0 && report.MissingEntries == 0 && running.Equal(account.Balance)
	return report
}

func (s *StatementService) ReconcileAll(ctx context.Context, batchSize int) (*domain.ReconciliationSummary, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	summary := &domain.ReconciliationSummary{}
	for offset := 0; ; offset += batchSize {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		ids, err := s.accountRepo.ListAccountIDs(ctx, batchSize, offset)
		if err != nil {
			return summary, apperrors.NewAppError(apperrors.KindTransientStoreFailure, "failed to list accounts", err)
		}
		for _, id := range ids {
			report, err := s.Reconcile(ctx, id)
			if err != nil {
				summary.Failed++
				s.LogError(ctx, err, "Reconciliation failed", slog.String("account_id", id))
				continue
			}
			summary.Checked++
			if !report.Consistent {
				summary.Drifted++
				summary.DriftedAccounts = append(summary.DriftedAccounts, id)
			}
		}
		if len(ids) < batchSize {
			return summary, nil
		}
	}
}
