package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account is the authoritative balance holder. Version increases by exactly
// one on every accepted balance write and is the token checked by
// compare-and-set.
type Account struct {
	AccountID            string          `json:"accountID"`
	FullName             string          `json:"fullName"`
	Email                string          `json:"email"`
	DateOfBirth          *time.Time      `json:"dateOfBirth,omitempty"`
	Balance              decimal.Decimal `json:"balance"`
	OpeningBalance       decimal.Decimal `json:"openingBalance"`
	Version              int64           `json:"version"`
	NotificationsEnabled bool            `json:"notificationsEnabled"`
	AuditFields
}

// CanNotify reports whether transaction alerts should be sent for this account.
func (a Account) CanNotify() bool {
	return a.NotificationsEnabled && strings.TrimSpace(a.Email) != ""
}

// Contact returns the recipient details carried on transaction events.
func (a Account) Contact() Contact {
	return Contact{FullName: a.FullName, Email: a.Email}
}

// Contact is a notification recipient snapshot.
type Contact struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
