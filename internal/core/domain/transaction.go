package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for balances and amounts.
const MoneyScale = 2

// TransactionType indicates whether a transaction adds to or removes from a balance.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

var transactionTypeAliases = map[string]TransactionType{
	"CREDIT":     Credit,
	"DEPOSIT":    Credit,
	"DEBIT":      Debit,
	"WITHDRAW":   Debit,
	"WITHDRAWAL": Debit,
}

// ParseTransactionType normalises external spellings into a TransactionType.
func ParseTransactionType(s string) (TransactionType, bool) {
	t, ok := transactionTypeAliases[strings.ToUpper(strings.TrimSpace(s))]
	return t, ok
}

// IsValid reports whether t is CREDIT or DEBIT.
func (t TransactionType) IsValid() bool {
	return t == Credit || t == Debit
}

// Signed returns amount with the sign the transaction applies to a balance.
func (t TransactionType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == Debit {
		return amount.Neg()
	}
	return amount
}

// HasMoneyScale reports whether d carries no more than MoneyScale fractional digits.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// RoundMoney fixes d at MoneyScale.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// TransactionRequest is a single credit or debit against one account.
type TransactionRequest struct {
	AccountID string
	Type      TransactionType
	Amount    decimal.Decimal
}

// TransactionRecord is one immutable ledger entry.
type TransactionRecord struct {
	TransactionID    string          `json:"transactionID"`
	AccountID        string          `json:"accountID"`
	Type             TransactionType `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	ResultingBalance decimal.Decimal `json:"resultingBalance"`
	// Version is the account version produced by the write this entry records.
	Version    int64     `json:"version"`
	OccurredAt time.Time `json:"occurredAt"`
	// Sequence is assigned by the ledger store in append order.
	Sequence int64 `json:"sequence"`
}

// Warning is a non-fatal problem attached to a committed mutation.
type Warning struct {
	Kind      string `json:"kind"`
	Component string `json:"component"`
	Message   string `json:"message"`
}

const (
	WarningKindDegradedWrite = "DegradedWrite"

	ComponentLedger    = "ledger"
	ComponentPublisher = "publisher"
)

// MutationResult describes a committed balance change.
type MutationResult struct {
	TransactionID      string
	AccountID          string
	Type               TransactionType
	Amount             decimal.Decimal
	NewBalance         decimal.Decimal
	Version            int64
	OccurredAt         time.Time
	NotificationQueued bool
	Warnings           []Warning
}

// Degraded reports whether any post-commit side effect failed.
func (r MutationResult) Degraded() bool {
	return len(r.Warnings) > 0
}
