package dto

import (
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// DateLayout is the accepted format for dates of birth.
const DateLayout = "2006-01-02"

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	FullName       string           `json:"fullName" binding:"required,max=200"`
	Email          string           `json:"email" binding:"omitempty,email"`
	DateOfBirth    *string          `json:"dateOfBirth"` // Optional, YYYY-MM-DD
	InitialBalance *decimal.Decimal `json:"initialBalance"`
	// NotificationsEnabled defaults to true when omitted.
	NotificationsEnabled *bool `json:"notificationsEnabled"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID            string    `json:"accountID"`
	FullName             string    `json:"fullName"`
	Email                string    `json:"email,omitempty"`
	DateOfBirth          string    `json:"dateOfBirth,omitempty"`
	Balance              string    `json:"balance"`
	Version              int64     `json:"version"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
	CreatedAt            time.Time `json:"createdAt"`
	LastUpdatedAt        time.Time `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	res := AccountResponse{
		AccountID:            acc.AccountID,
		FullName:             acc.FullName,
		Email:                acc.Email,
		Balance:              utils.FormatMoney(acc.Balance),
		Version:              acc.Version,
		NotificationsEnabled: acc.NotificationsEnabled,
		CreatedAt:            acc.CreatedAt,
		LastUpdatedAt:        acc.LastUpdatedAt,
	}
	if acc.DateOfBirth != nil {
		res.DateOfBirth = acc.DateOfBirth.Format(DateLayout)
	}
	return res
}

