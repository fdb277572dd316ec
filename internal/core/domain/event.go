package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionEvent is published after a committed mutation so downstream
// consumers can notify the account holder.
type TransactionEvent struct {
	TransactionID string          `json:"transactionId"`
	AccountID     string          `json:"accountId"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Recipient     Contact         `json:"recipient"`
}

// RoutingKey is the topic the event is published under.
func (e TransactionEvent) RoutingKey() string {
	return "transactions." + strings.ToLower(string(e.Type))
}
