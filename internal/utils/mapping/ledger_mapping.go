package mapping

import (
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/models"
)

// ToModelLedgerEntry converts a domain TransactionRecord to a model LedgerEntry
func ToModelLedgerEntry(d domain.TransactionRecord) models.LedgerEntry {
	return models.LedgerEntry{
		Seq:              d.Sequence,
		TransactionID:    d.TransactionID,
		AccountID:        d.AccountID,
		TransactionType:  string(d.Type),
		Amount:           d.Amount,
		ResultingBalance: d.ResultingBalance,
		AccountVersion:   d.Version,
		OccurredAt:       d.OccurredAt,
	}
}

// ToDomainTransactionRecord converts a model LedgerEntry to a domain TransactionRecord
func ToDomainTransactionRecord(m models.LedgerEntry) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID:    m.TransactionID,
		AccountID:        m.AccountID,
		Type:             domain.TransactionType(m.TransactionType),
		Amount:           m.Amount,
		ResultingBalance: m.ResultingBalance,
		Version:          m.AccountVersion,
		OccurredAt:       m.OccurredAt,
		Sequence:         m.Seq,
	}
}

// ToDomainTransactionRecordSlice converts model LedgerEntries to domain TransactionRecords
func ToDomainTransactionRecordSlice(ms []models.LedgerEntry) []domain.TransactionRecord {
	ds := make([]domain.TransactionRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionRecord(m)
	}
	return ds
}
