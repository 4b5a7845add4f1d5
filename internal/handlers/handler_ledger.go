package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler receives the posting hooks fired by the POS application when
// a sale, transaction or purchase completes.
type ledgerHandler struct {
	journalService portssvc.JournalWriterSvc
}

func newLedgerHandler(js portssvc.JournalWriterSvc) *ledgerHandler {
	return &ledgerHandler{journalService: js}
}

// RegisterPostingRoutes registers the posting hook routes.
func RegisterPostingRoutes(rg *gin.RouterGroup, journalService portssvc.JournalWriterSvc) {
	h := newLedgerHandler(journalService)

	postings := rg.Group("/postings")
	{
		postings.POST("/sales", h.postSale)
		postings.POST("/transactions", h.postTransaction)
		postings.POST("/purchases", h.postPurchase)
	}
}

// postSale godoc
// @Summary Post a completed sale
// @Description Records the journal entry for a sale. Re-posting the same sale returns the existing entry.
// @Tags postings
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param sale body dto.PostSaleRequest true "Sale"
// @Success 201 {object} dto.PostingResponse "Journal created"
// @Success 200 {object} dto.PostingResponse "Journal already existed"
// @Success 202 {object} map[string]interface{} "Automatic posting disabled"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Sale cannot be posted"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/postings/sales [post]
func (h *ledgerHandler) postSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	h.post(c, logger, req.ToEvent())
}

// postTransaction godoc
// @Summary Post a manual transaction
// @Description Records the journal entry for a completed income or expense row of the unified ledger.
// @Tags postings
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param transaction body dto.PostTransactionRequest true "Transaction"
// @Success 201 {object} dto.PostingResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Transaction cannot be posted"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/postings/transactions [post]
func (h *ledgerHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	h.post(c, logger, req.ToEvent())
}

// postPurchase godoc
// @Summary Post a purchase
// @Description Records the journal entry for a completed or paid purchase.
// @Tags postings
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param purchase body dto.PostPurchaseRequest true "Purchase"
// @Success 201 {object} dto.PostingResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Purchase cannot be posted"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/postings/purchases [post]
func (h *ledgerHandler) postPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postPurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	h.post(c, logger, req.ToEvent())
}

func (h *ledgerHandler) post(c *gin.Context, logger *slog.Logger, event domain.PostingEvent) {
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("source", event.Source().String()))
	logger.Info("Received posting hook")

	journal, created, err := h.journalService.AutoPost(c.Request.Context(), actor, event)
	if err != nil {
		respondError(c, logger, err, "post journal")
		return
	}
	if journal == nil {
		logger.Info("Automatic journal creation disabled, posting skipped")
		c.JSON(http.StatusAccepted, gin.H{"created": false, "message": "automatic journal creation is disabled"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.PostingResponse{Created: created, Journal: dto.ToJournalResponse(journal)})
}
