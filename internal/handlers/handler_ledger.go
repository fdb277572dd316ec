package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/balance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/SscSPs/balance_ledger/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves balance mutations and the ledger read side.
type ledgerHandler struct {
	accountService   portssvc.AccountReaderSvc
	mutator          portssvc.BalanceMutatorSvc
	ledgerService    portssvc.LedgerReaderSvc
	statementService portssvc.StatementSvc
}

func newLedgerHandler(as portssvc.AccountReaderSvc, m portssvc.BalanceMutatorSvc, ls portssvc.LedgerReaderSvc, ss portssvc.StatementSvc) *ledgerHandler {
	return &ledgerHandler{accountService: as, mutator: m, ledgerService: ls, statementService: ss}
}

// applyTransaction godoc
// @Summary Credit or debit an account
// @Description Applies one balance mutation. A 409 means the account changed concurrently; re-issue the request.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   transaction body dto.ApplyTransactionRequest true "Type and amount"
// @Success 200 {object} dto.ApplyTransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /accounts/{accountID}/transactions [post]
func (h *ledgerHandler) applyTransaction(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))

	var req dto.ApplyTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}
	txType, ok := domain.ParseTransactionType(req.Type)
	if !ok {
		respondBadRequest(c, logger, "type must be CREDIT or DEBIT", nil)
		return
	}

	result, err := h.mutator.Apply(c.Request.Context(), domain.TransactionRequest{
		AccountID: accountID,
		Type:      txType,
		Amount:    *req.Amount,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to apply transaction")
		return
	}

	if result.Degraded() {
		logger.Warn("Transaction committed with degraded side effects",
			slog.String("transaction_id", result.TransactionID),
			slog.Int("warnings", len(result.Warnings)))
	}
	c.JSON(http.StatusOK, dto.ToApplyTransactionResponse(result))
}

// listTransactions godoc
// @Summary List ledger entries for an account
// @Tags transactions
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Maximum entries (default 50, max 500)"
// @Param   pageToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /accounts/{accountID}/transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return
	}

	if _, err := h.accountService.GetAccountByID(c.Request.Context(), accountID); err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	afterSeq, err := pagination.DecodeLedgerToken(accountID, params.PageToken)
	if err != nil {
		respondBadRequest(c, logger, "Invalid page token", err)
		return
	}

	records, err := h.ledgerService.ListTransactionsByAccount(c.Request.Context(), accountID, afterSeq, params.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	resp := dto.ListTransactionsResponse{
		AccountID:    accountID,
		Transactions: dto.ToTransactionResponses(records),
	}
	if len(records) == params.Limit {
		resp.NextToken = pagination.EncodeLedgerToken(accountID, records[len(records)-1].Sequence)
	}
	c.JSON(http.StatusOK, resp)
}

// getStatement godoc
// @Summary Get an account statement with ledger reconciliation
// @Tags statements
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Maximum entries (default 50, max 500)"
// @Param   reconcile query bool false "Replay the full ledger against the live balance"
// @Success 200 {object} dto.StatementResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /accounts/{accountID}/statement [get]
func (h *ledgerHandler) getStatement(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))

	var params dto.StatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, logger, "Invalid query parameters", err)
		return
	}

	statement, err := h.statementService.GetStatement(c.Request.Context(), accountID, params.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to build statement")
		return
	}
	var report *domain.ReconciliationReport
	if params.Reconcile {
		report, err = h.statementService.Reconcile(c.Request.Context(), accountID)
		if err != nil {
			respondError(c, logger, err, "Failed to reconcile ledger")
			return
		}
	}

	c.JSON(http.StatusOK, dto.ToStatementResponse(statement, report))
}
