package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerQuerySvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerQuerySvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		ledgerService:  ls,
	}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerQuerySvc) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("/seed", h.seedAccounts)
		accounts.GET("/:code", h.getAccount)
		accounts.GET("/:code/balance", h.getAccountBalance)
	}
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Tags accounts
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param includeInactive query bool false "Include inactive accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for listAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), actor, params)
	if err != nil {
		respondError(c, logger, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// seedAccounts godoc
// @Summary Seed the starter chart
// @Description Creates the configured starter accounts the tenant does not have yet
// @Tags accounts
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.SeedAccountsResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/seed [post]
func (h *accountHandler) seedAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	resp, err := h.accountService.SeedChart(c.Request.Context(), actor)
	if err != nil {
		respondError(c, logger, err, "seed accounts")
		return
	}
	logger.Info("Starter chart seeded", slog.Int("created", resp.Created), slog.Int("existed", resp.Existed))
	c.JSON(http.StatusOK, resp)
}

// getAccount godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{code} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	code := c.Param("code")

	account, err := h.accountService.GetByCode(c.Request.Context(), actor, code)
	if err != nil {
		respondError(c, logger.With(slog.String("account_code", code)), err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the signed balance of an account as of a date
// @Tags accounts
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param code path string true "Account code"
// @Param asOf query string false "Balance date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/accounts/{code}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	code := c.Param("code")
	logger = logger.With(slog.String("account_code", code))

	var params dto.ReportAsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := parseDateParam(params.AsOf, time.Now())
	if err != nil {
		respondError(c, logger, err, "calculate account balance")
		return
	}

	balance, err := h.ledgerService.AccountBalance(c.Request.Context(), actor, code, asOf)
	if err != nil {
		respondError(c, logger, err, "calculate account balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance))
}
