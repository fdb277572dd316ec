package dto

import (
	"time"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// ApplyTransactionRequest is the body of a credit or debit request.
// Type accepts CREDIT and DEBIT as well as DEPOSIT, WITHDRAW and WITHDRAWAL.
type ApplyTransactionRequest struct {
	Type   string           `json:"type" binding:"required"`
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// WarningResponse is a non-fatal problem reported with a committed mutation.
type WarningResponse struct {
	Kind      string `json:"kind"`
	Component string `json:"component"`
	Message   string `json:"message"`
}

// ApplyTransactionResponse is returned for a committed mutation.
type ApplyTransactionResponse struct {
	TransactionID      string            `json:"transactionId"`
	AccountID          string            `json:"accountId"`
	Type               string            `json:"type"`
	Amount             string            `json:"amount"`
	NewBalance         string            `json:"newBalance"`
	Version            int64             `json:"version"`
	NotificationQueued bool              `json:"notificationQueued"`
	Warnings           []WarningResponse `json:"warnings"`
}

// ToApplyTransactionResponse converts a domain.MutationResult to its DTO.
func ToApplyTransactionResponse(res *domain.MutationResult) ApplyTransactionResponse {
	warnings := make([]WarningResponse, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, WarningResponse{Kind: w.Kind, Component: w.Component, Message: w.Message})
	}
	return ApplyTransactionResponse{
		TransactionID:      res.TransactionID,
		AccountID:          res.AccountID,
		Type:               string(res.Type),
		Amount:             utils.FormatMoney(res.Amount),
		NewBalance:         utils.FormatMoney(res.NewBalance),
		Version:            res.Version,
		NotificationQueued: res.NotificationQueued,
		Warnings:           warnings,
	}
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID    string    `json:"transactionID"`
	AccountID        string    `json:"accountID"`
	Type             string    `json:"type"`
	Amount           string    `json:"amount"`
	ResultingBalance string    `json:"resultingBalance"`
	Version          int64     `json:"version"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// ToTransactionResponse converts a domain.TransactionRecord to TransactionResponse DTO.
func ToTransactionResponse(rec *domain.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		TransactionID:    rec.TransactionID,
		AccountID:        rec.AccountID,
		Type:             string(rec.Type),
		Amount:           utils.FormatMoney(rec.Amount),
		ResultingBalance: utils.FormatMoney(rec.ResultingBalance),
		Version:          rec.Version,
		OccurredAt:       rec.OccurredAt,
	}
}

// ToTransactionResponses converts a slice of domain.TransactionRecord to []TransactionResponse.
func ToTransactionResponses(recs []domain.TransactionRecord) []TransactionResponse {
	responses := make([]TransactionResponse, len(recs))
	for i := range recs {
		responses[i] = ToTransactionResponse(&recs[i])
	}
	return responses
}

// ListTransactionsParams defines query parameters for listing ledger entries.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	PageToken string `form:"pageToken"` // Optional, returned as nextToken by the previous page
}

// ListTransactionsResponse wraps a page of ledger entries.
type ListTransactionsResponse struct {
	AccountID    string                `json:"accountID"`
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}
