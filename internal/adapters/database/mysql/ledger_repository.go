package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/balance_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/balance_ledger/internal/models"
	"github.com/SscSPs/balance_ledger/internal/utils/mapping"
	"gorm.io/gorm"
)

// GormLedgerRepository keeps the transaction history in MySQL through gorm.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a ledger repository over db.
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

var _ portsrepo.LedgerRepositoryFacade = (*GormLedgerRepository)(nil)

// AutoMigrate creates or updates the transactions table.
func (r *GormLedgerRepository) AutoMigrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.LedgerEntry{}); err != nil {
		return fmt.Errorf("failed to migrate transactions table: %w", err)
	}
	return nil
}

func (r *GormLedgerRepository) AppendTransaction(ctx context.Context, record domain.TransactionRecord) error {
	entry := mapping.ToModelLedgerEntry(record)
	entry.Seq = 0 // assigned by auto increment

	err := r.db.WithContext(ctx).Create(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: transaction %s already recorded", apperrors.ErrDuplicate, record.TransactionID)
		}
		return fmt.Errorf("failed to append ledger entry %s: %w", record.TransactionID, err)
	}
	return nil
}

func (r *GormLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string, afterSeq int64, limit int) ([]domain.TransactionRecord, error) {
	var entries []models.LedgerEntry
	q := r.db.WithContext(ctx).Where("account_id = ? AND seq > ?", accountID, afterSeq).Order("seq ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for account %s: %w", accountID, err)
	}

	return mapping.ToDomainTransactionRecordSlice(entries), nil
}
