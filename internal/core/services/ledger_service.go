package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
)

const maxLedgerPage = 500

// LedgerService records committed transactions and serves them back.
type LedgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

func validateRecord(rec domain.TransactionRecord) error {
	switch {
	case rec.TransactionID == "":
		return fmt.Errorf("%w: transaction id is required", apperrors.ErrValidation)
	case rec.AccountID == "":
		return fmt.Errorf("%w: account id is required", apperrors.ErrValidation)
	case !rec.Type.IsValid():
		return fmt.Errorf("%w: unsupported transaction type %q", apperrors.ErrValidation, rec.Type)
	case !rec.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	case rec.ResultingBalance.IsNegative():
		return fmt.Errorf("%w: resulting balance cannot be negative", apperrors.ErrValidation)
	case rec.OccurredAt.IsZero():
		return fmt.Errorf("%w: timestamp is required", apperrors.ErrValidation)
	}
	return nil
}

// Append stores one ledger entry. A duplicate transaction id is an ack.
func (s *LedgerService) Append(ctx context.Context, rec domain.TransactionRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	err := s.ledgerRepo.AppendTransaction(ctx, rec)
	if err == nil {
		s.LogDebug(ctx, "Ledger entry appended",
			slog.String("transaction_id", rec.TransactionID),
			slog.String("account_id", rec.AccountID))
		return nil
	}
	if errors.Is(err, apperrors.ErrDuplicate) {
		s.LogInfo(ctx, "Ledger entry already recorded",
			slog.String("transaction_id", rec.TransactionID))
		return nil
	}
	return fmt.Errorf("append ledger entry %s: %w", rec.TransactionID, err)
}

// ListTransactionsByAccount returns entries for an account in append order,
// starting after the entry with sequence afterSeq.
func (s *LedgerService) ListTransactionsByAccount(ctx context.Context, accountID string, afterSeq int64, limit int) ([]domain.TransactionRecord, error) {
	if accountID == "" {
		return nil, apperrors.NewAppError(apperrors.KindInvalidInput, "account id is required", nil)
	}
	if afterSeq < 0 {
		return nil, apperrors.NewAppError(apperrors.KindInvalidInput, "invalid page cursor", nil)
	}
	if limit <= 0 || limit > maxLedgerPage {
		limit = maxLedgerPage
	}

	records, err := s.ledgerRepo.ListTransactionsByAccount(ctx, accountID, afterSeq, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("account_id", accountID))
		return nil, apperrors.NewAppError(apperrors.KindTransientStoreFailure, "failed to read ledger", err)
	}
	return records, nil
}
