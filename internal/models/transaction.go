package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one appended ledger row. The same struct backs the
// PostgreSQL ledger_entries table and the gorm-managed MySQL table.
type LedgerEntry struct {
	Seq              int64           `db:"seq" gorm:"column:seq;primaryKey;autoIncrement;index:idx_ledger_account_seq,priority:2"`
	TransactionID    string          `db:"transaction_id" gorm:"column:transaction_id;type:varchar(64);uniqueIndex;not null"`
	AccountID        string          `db:"account_id" gorm:"column:account_id;type:varchar(64);index:idx_ledger_account_seq,priority:1;not null"`
	TransactionType  string          `db:"transaction_type" gorm:"column:transaction_type;type:varchar(10);not null"`
	Amount           decimal.Decimal `db:"amount" gorm:"column:amount;type:decimal(20,2);not null"`
	ResultingBalance decimal.Decimal `db:"resulting_balance" gorm:"column:resulting_balance;type:decimal(20,2);not null"`
	AccountVersion   int64           `db:"account_version" gorm:"column:account_version;not null"`
	OccurredAt       time.Time       `db:"occurred_at" gorm:"column:occurred_at;not null"`
}

// TableName is the MySQL table name used by gorm.
func (LedgerEntry) TableName() string {
	return "transactions"
}
