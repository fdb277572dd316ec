package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields mirrors the audit columns shared by persisted tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

// Account is the accounts table row.
type Account struct {
	AccountID            string          `db:"account_id"`
	FullName             string          `db:"full_name"`
	Email                string          `db:"email"`
	DateOfBirth          sql.NullTime    `db:"date_of_birth"`
	Balance              decimal.Decimal `db:"balance"`
	OpeningBalance       decimal.Decimal `db:"opening_balance"`
	Version              int64           `db:"version"`
	NotificationsEnabled bool            `db:"notifications_enabled"`
	AuditFields
}
