package utils

import (
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with exactly two fractional digits.
// Example: 12.3 returns "12.30", 12.345 returns "12.35"
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(domain.MoneyScale)
}

// FormatSignedMoney prefixes the formatted amount with the direction of the transaction.
// Example: CREDIT 5 returns "+5.00", DEBIT 5 returns "-5.00"
func FormatSignedMoney(txType domain.TransactionType, amount decimal.Decimal) string {
	if txType == domain.Debit {
		return "-" + FormatMoney(amount)
	}
	return "+" + FormatMoney(amount)
}
