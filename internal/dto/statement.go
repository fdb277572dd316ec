package dto

import (
	"github.com/SscSPs/balance_ledger/internal/core/domain"
	"github.com/SscSPs/balance_ledger/internal/utils"
)

// StatementParams defines query parameters for a statement.
type StatementParams struct {
	Limit int `form:"limit,default=50" binding:"min=1,max=500"`
	// Reconcile replays the full ledger, so it is opt-in.
	Reconcile bool `form:"reconcile"`
}

// StatementResponse is an account statement with its reconciliation result.
type StatementResponse struct {
	Account        AccountResponse        `json:"account"`
	OpeningBalance string                 `json:"openingBalance"`
	TotalCredits   string                 `json:"totalCredits"`
	TotalDebits    string                 `json:"totalDebits"`
	ClosingBalance string                 `json:"closingBalance"`
	Transactions   []TransactionResponse  `json:"transactions"`
	Reconciliation *ReconciliationResponse `json:"reconciliation,omitempty"`
}

// ReconciliationResponse summarises a ledger replay.
type ReconciliationResponse struct {
	LiveBalance     string `json:"liveBalance"`
	ReplayedBalance string `json:"replayedBalance"`
	EntryCount      int    `json:"entryCount"`
	MissingEntries  int    `json:"missingEntries"`
	Breaks          int    `json:"breaks"`
	Consistent      bool   `json:"consistent"`
}

// ToStatementResponse converts a statement and, when rep is not nil, its
// reconciliation report.
func ToStatementResponse(st *domain.Statement, rep *domain.ReconciliationReport) StatementResponse {
	resp := StatementResponse{
		Account:        ToAccountResponse(&st.Account),
		OpeningBalance: utils.FormatMoney(st.OpeningBalance),
		TotalCredits:   utils.FormatMoney(st.TotalCredits),
		TotalDebits:    utils.FormatMoney(st.TotalDebits),
		ClosingBalance: utils.FormatMoney(st.ClosingBalance),
		Transactions:   ToTransactionResponses(st.Entries),
	}
	if rep != nil {
		resp.Reconciliation = &ReconciliationResponse{
			LiveBalance:     utils.FormatMoney(rep.LiveBalance),
			ReplayedBalance: utils.FormatMoney(rep.ReplayedBalance),
			EntryCount:      rep.EntryCount,
			MissingEntries:  rep.MissingEntries,
			Breaks:          len(rep.Breaks),
			Consistent:      rep.Consistent,
		}
	}
	return resp
}
