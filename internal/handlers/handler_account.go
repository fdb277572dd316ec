package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/dto"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers account, transaction and statement routes.
// mutationMiddleware runs only in front of the balance-changing route.
func RegisterAccountRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, mutationMiddleware ...gin.HandlerFunc) {
	ah := newAccountHandler(services.Account)
	lh := newLedgerHandler(services.Account, services.Mutator, services.Ledger, services.Statement)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", ah.createAccount)
		accounts.GET("/:accountID", ah.getAccount)

		apply := append(append([]gin.HandlerFunc{}, mutationMiddleware...), lh.applyTransaction)
		accounts.POST("/:accountID/transactions", apply...)
		accounts.GET("/:accountID/transactions", lh.listTransactions)
		accounts.GET("/:accountID/statement", lh.getStatement)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, logger, "Invalid request format", err)
		return
	}

	// Without auth the actor defaults to the system user.
	actorID, _ := middleware.GetUserIDFromContext(c)

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account balance snapshot
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
