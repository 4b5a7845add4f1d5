package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	ledgerService    portssvc.LedgerQuerySvc
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(ls portssvc.LedgerQuerySvc, rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		ledgerService:    ls,
		reportingService: rs,
		now:              time.Now,
	}
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerQuerySvc, reportingService portssvc.ReportingService) {
	h := newReportingHandler(ledgerService, reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/general-ledger", h.getGeneralLedger)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/cash-flow", h.getCashFlow)
	}
}

func (h *reportingHandler) asOf(c *gin.Context) (time.Time, error) {
	var params dto.ReportAsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	return parseDateParam(params.AsOf, h.now())
}

func (h *reportingHandler) period(params dto.ReportPeriodParams) (time.Time, time.Time, error) {
	now := h.now()
	firstDayOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from, err := parseDateParam(params.StartDate, firstDayOfMonth)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDateParam(params.EndDate, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func (h *reportingHandler) boundPeriod(c *gin.Context) (time.Time, time.Time, error) {
	var params dto.ReportPeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	return h.period(params)
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (tenant mismatch)"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	asOf, err := h.asOf(c)
	if err != nil {
		respondError(c, logger, err, "generate trial balance report")
		return
	}

	logger = logger.With(slog.String("asOf", asOf.Format(dateLayout)))
	logger.Info("Received request to generate trial balance report")

	tb, err := h.ledgerService.TrialBalance(c.Request.Context(), actor, asOf)
	if err != nil {
		respondError(c, logger, err, "generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(tb.Rows)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getGeneralLedger godoc
// @Summary Generate general ledger report
// @Description Lists posted lines per account with running balances for a period
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param startDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param endDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Param accountCode query string false "Restrict to one account"
// @Success 200 {object} dto.GeneralLedgerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/general-ledger [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var params dto.GeneralLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	from, to, err := h.period(params.ReportPeriodParams)
	if err != nil {
		respondError(c, logger, err, "generate general ledger report")
		return
	}

	var accountCode *string
	if params.AccountCode != "" {
		accountCode = &params.AccountCode
		logger = logger.With(slog.String("account_code", params.AccountCode))
	}
	logger.Info("Received request to generate general ledger report")

	gl, err := h.ledgerService.GeneralLedger(c.Request.Context(), actor, accountCode, from, to)
	if err != nil {
		respondError(c, logger, err, "generate general ledger report")
		return
	}
	c.JSON(http.StatusOK, dto.ToGeneralLedgerResponse(gl))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Generates a profit and loss report for a specific period
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param startDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param endDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	from, to, err := h.boundPeriod(c)
	if err != nil {
		respondError(c, logger, err, "generate profit and loss report")
		return
	}
	logger.Info("Received request to generate profit and loss report",
		slog.String("fromDate", from.Format(dateLayout)), slog.String("toDate", to.Format(dateLayout)))

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), actor, from, to)
	if err != nil {
		respondError(c, logger, err, "generate profit and loss report")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Generates a balance sheet as of a specific date, including current earnings
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	asOf, err := h.asOf(c)
	if err != nil {
		respondError(c, logger, err, "generate balance sheet report")
		return
	}
	logger.Info("Received request to generate balance sheet report", slog.String("asOf", asOf.Format(dateLayout)))

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), actor, asOf)
	if err != nil {
		respondError(c, logger, err, "generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getCashFlow godoc
// @Summary Generate cash flow report
// @Description Buckets completed cash movements of a period into operating, investing and financing activities
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param startDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param endDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	from, to, err := h.boundPeriod(c)
	if err != nil {
		respondError(c, logger, err, "generate cash flow report")
		return
	}

	report, err := h.reportingService.CashFlow(c.Request.Context(), actor, from, to)
	if err != nil {
		respondError(c, logger, err, "generate cash flow report")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(report))
}
