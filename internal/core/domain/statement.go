package domain

import "github.com/shopspring/decimal"

// Statement is an account snapshot together with its recent ledger history.
type Statement struct {
	Account        Account             `json:"account"`
	Entries        []TransactionRecord `json:"entries"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	TotalCredits   decimal.Decimal     `json:"totalCredits"`
	TotalDebits    decimal.Decimal     `json:"totalDebits"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
}

// ChainBreak is a ledger entry whose recorded resulting balance does not
// follow from the entries before it.
type ChainBreak struct {
	TransactionID string          `json:"transactionID"`
	Version       int64           `json:"version"`
	Expected      decimal.Decimal `json:"expected"`
	Recorded      decimal.Decimal `json:"recorded"`
}

// ReconciliationReport compares a ledger replay against the live balance.
type ReconciliationReport struct {
	AccountID       string          `json:"accountID"`
	LiveBalance     decimal.Decimal `json:"liveBalance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	LiveVersion     int64           `json:"liveVersion"`
	EntryCount      int             `json:"entryCount"`
	// MissingEntries counts account versions with no ledger entry.
	MissingEntries int          `json:"missingEntries"`
	Breaks         []ChainBreak `json:"breaks,omitempty"`
	Consistent     bool         `json:"consistent"`
}

// ReconciliationSummary aggregates a reconciliation pass over many accounts.
type ReconciliationSummary struct {
	Checked         int      `json:"checked"`
	Drifted         int      `json:"drifted"`
	Failed          int      `json:"failed"`
	DriftedAccounts []string `json:"driftedAccounts,omitempty"`
}
