package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/handlers"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
	"github.com/SscSPs/pos_ledger/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const testSecret = "handler-test-secret"

type LedgerAPITestSuite struct {
	suite.Suite
	router   *gin.Engine
	store    *memory.Store
	tenantID string
	token    string
}

func (s *LedgerAPITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *LedgerAPITestSuite) SetupTest() {
	s.tenantID = uuid.NewString()
	s.store = memory.NewStore()
	s.router = newRouter(s.T(), s.store, domain.DefaultPostingConfig())
	s.token = issue(s.T(), domain.Actor{TenantID: s.tenantID, UserID: "cashier-1"})
}

func newRouter(t *testing.T, store *memory.Store, postingCfg domain.PostingConfig) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:          testSecret,
		RateLimit:          "1000-M",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	r := gin.New()
	if err := handlers.RegisterRoutes(r, cfg, services.NewServiceContainer(store.Provider(), postingCfg)); err != nil {
		t.Fatalf("registering routes: %v", err)
	}
	return r
}

func issue(t *testing.T, actor domain.Actor) string {
	t.Helper()
	token, err := middleware.IssueToken(actor, testSecret, "pos-ledger", time.Hour)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return token
}

func (s *LedgerAPITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1/tenants/"+s.tenantID+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *LedgerAPITestSuite) seed() {
	w := s.do(http.MethodPost, "/accounts/seed", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func saleBody(id, status string) gin.H {
	return gin.H{
		"saleID":        id,
		"status":        status,
		"paymentMethod": "cash",
		"subtotal":      "100",
		"tax":           "10",
		"discount":      "0",
		"totalAmount":   "110",
		"createdAt":     "2024-01-10T09:30:00Z",
	}
}

func (s *LedgerAPITestSuite) TestHealth() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)
}

func (s *LedgerAPITestSuite) TestSeedAccounts_Idempotent() {
	w := s.do(http.MethodPost, "/accounts/seed", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var first dto.SeedAccountsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &first))
	s.Equal(len(domain.DefaultPostingConfig().ChartOfAccounts), first.Created)

	w = s.do(http.MethodPost, "/accounts/seed", nil)
	var second dto.SeedAccountsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &second))
	s.Equal(0, second.Created)
	s.Equal(first.Created, second.Existed)
}

func (s *LedgerAPITestSuite) TestPostSale_CreatedThenExisting() {
	s.seed()

	w := s.do(http.MethodPost, "/postings/sales", saleBody("S-1", "completed"))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.PostingResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	s.True(created.Created)
	s.Len(created.Journal.Lines, 3)
	s.Equal("SALE", created.Journal.SourceType)

	w = s.do(http.MethodPost, "/postings/sales", saleBody("S-1", "completed"))
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var again dto.PostingResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &again))
	s.False(again.Created)
	s.Equal(created.Journal.JournalID, again.Journal.JournalID)
	s.Equal(1, s.store.JournalCount(s.tenantID))
}

func (s *LedgerAPITestSuite) TestPostSale_Rejections() {
	s.seed()

	w := s.do(http.MethodPost, "/postings/sales", gin.H{"status": "completed"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/postings/sales", saleBody("S-2", "pending"))
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	zero := saleBody("S-3", "completed")
	zero["subtotal"], zero["tax"], zero["totalAmount"] = "0", "0", "0"
	w = s.do(http.MethodPost, "/postings/sales", zero)
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	s.Equal(0, s.store.JournalCount(s.tenantID))
}

func (s *LedgerAPITestSuite) TestPostSale_ChartMissing() {
	w := s.do(http.MethodPost, "/postings/sales", saleBody("S-1", "completed"))

	s.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
	s.Equal(0, s.store.JournalCount(s.tenantID))
}

func (s *LedgerAPITestSuite) TestPostTransactionAndPurchase() {
	s.seed()

	w := s.do(http.MethodPost, "/postings/transactions", gin.H{
		"transactionID": "T-1",
		"status":        "completed",
		"type":          "expense",
		"category":      "Rent",
		"amount":        "30",
		"date":          "2024-02-05T00:00:00Z",
	})
	s.Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/postings/transactions", gin.H{
		"transactionID": "T-2",
		"status":        "completed",
		"type":          "transfer",
		"amount":        "30",
		"date":          "2024-02-05T00:00:00Z",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/postings/purchases", gin.H{
		"purchaseID":    "P-1",
		"status":        "paid",
		"paymentMethod": "cash",
		"totalAmount":   "40",
		"date":          "2024-01-15T00:00:00Z",
	})
	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal(2, s.store.JournalCount(s.tenantID))
}

func (s *LedgerAPITestSuite) TestJournals_ListAndGet() {
	s.seed()
	for i := 1; i <= 3; i++ {
		w := s.do(http.MethodPost, "/postings/sales", saleBody(fmt.Sprintf("S-%d", i), "completed"))
		s.Require().Equal(http.StatusCreated, w.Code)
	}

	w := s.do(http.MethodGet, "/journals?limit=2", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListJournalsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	s.Len(page.Journals, 2)
	s.Require().NotNil(page.NextToken)

	w = s.do(http.MethodGet, "/journals/"+page.Journals[0].JournalID, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/journals/"+uuid.NewString(), nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/journals?nextToken=not-a-token", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *LedgerAPITestSuite) TestReports() {
	s.seed()
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/postings/sales", saleBody("S-1", "completed")).Code)

	w := s.do(http.MethodGet, "/reports/trial-balance?asOf=2024-01-31", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var tb dto.TrialBalanceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tb))
	s.True(tb.Balanced)
	s.Equal("110", tb.Totals.Debit.String())

	w = s.do(http.MethodGet, "/accounts/1101/balance?asOf=2024-01-31", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var bal dto.AccountBalanceResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &bal))
	s.Equal("110", bal.Balance.String())

	for _, path := range []string{
		"/reports/general-ledger?startDate=2024-01-01&endDate=2024-01-31",
		"/reports/profit-and-loss?startDate=2024-01-01&endDate=2024-01-31",
		"/reports/balance-sheet?asOf=2024-01-31",
		"/reports/cash-flow?startDate=2024-01-01&endDate=2024-01-31",
	} {
		s.Equal(http.StatusOK, s.do(http.MethodGet, path, nil).Code, path)
	}

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/reports/balance-sheet?asOf=31-01-2024", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/reports/profit-and-loss?startDate=2024-02-01&endDate=2024-01-01", nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/reports/general-ledger?accountCode=9999", nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/accounts/9999", nil).Code)
}

func (s *LedgerAPITestSuite) TestAuth() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/"+s.tenantID+"/accounts", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/tenants/"+s.tenantID+"/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+issue(s.T(), domain.Actor{TenantID: uuid.NewString(), UserID: "intruder"}))
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusForbidden, w.Code)

	expired, err := middleware.IssueToken(domain.Actor{TenantID: s.tenantID, UserID: "cashier-1"}, testSecret, "pos-ledger", -time.Minute)
	s.Require().NoError(err)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/tenants/"+s.tenantID+"/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *LedgerAPITestSuite) TestAutoPostDisabled() {
	cfg := domain.DefaultPostingConfig()
	cfg.AutoCreateJournalEntries = false
	s.router = newRouter(s.T(), s.store, cfg)
	s.seed()

	w := s.do(http.MethodPost, "/postings/sales", saleBody("S-1", "completed"))

	s.Equal(http.StatusAccepted, w.Code)
	s.Equal(0, s.store.JournalCount(s.tenantID))
}

func TestLedgerAPITestSuite(t *testing.T) {
	suite.Run(t, new(LedgerAPITestSuite))
}
