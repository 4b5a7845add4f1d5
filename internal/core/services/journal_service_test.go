package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) (*domain.Journal, error) {
	args := m.Called(ctx, journal, lines)
	if fn, ok := args.Get(0).(func(context.Context, domain.Journal, []domain.JournalLine) *domain.Journal); ok {
		return fn(ctx, journal, lines), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, tenantID, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, tenantID, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindJournalBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.Journal, error) {
	args := m.Called(ctx, tenantID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

// --- Mock AccountReaderSvc ---
type MockAccountReader struct {
	mock.Mock
}

var _ portssvc.AccountReaderSvc = (*MockAccountReader)(nil)

func (m *MockAccountReader) GetByCode(ctx context.Context, actor domain.Actor, code string) (*domain.Account, error) {
	args := m.Called(ctx, actor, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListActive(ctx context.Context, actor domain.Actor) ([]domain.Account, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAccounts(ctx context.Context, actor domain.Actor, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountSvc  *MockAccountReader
	service         portssvc.JournalSvcFacade
	actor           domain.Actor
	cashAccount     domain.Account
	revenueAccount  domain.Account
	sale            domain.SaleEvent
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountReader)

	cfg := domain.DefaultPostingConfig()
	cfg.Normalize()
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc, services.NewPostingPolicy(cfg), cfg)

	suite.actor = domain.Actor{TenantID: uuid.NewString(), UserID: uuid.NewString()}
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.actor.TenantID,
		Code:        "1101",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.actor.TenantID,
		Code:        "4101",
		Name:        "Sales Revenue",
		AccountType: domain.Revenue,
		IsActive:    true,
	}
	suite.sale = domain.SaleEvent{
		SaleID:        "sale-1",
		Status:        domain.StatusCompleted,
		PaymentMethod: "cash",
		Subtotal:      dec("250.00"),
		Total:         dec("250.00"),
		OccurredAt:    time.Date(2024, 6, 3, 15, 4, 5, 0, time.UTC),
	}
}

func (suite *JournalServiceTestSuite) saleSource() domain.SourceRef {
	return domain.SourceRef{Type: domain.SourceSale, ID: suite.sale.SaleID}
}

func (suite *JournalServiceTestSuite) expectAccounts(ctx context.Context) {
	suite.mockAccountSvc.On("GetByCode", ctx, suite.actor, "1101").Return(&suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetByCode", ctx, suite.actor, "4101").Return(&suite.revenueAccount, nil).Once()
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestPost_Success() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalBySource", ctx, suite.actor.TenantID, suite.saleSource()).
		Return(nil, apperrors.NewNotFoundError("journal")).Once()
	suite.expectAccounts(ctx)

	var savedLines []domain.JournalLine
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine")).
		Run(func(args mock.Arguments) { savedLines = args.Get(2).([]domain.JournalLine) }).
		Return(func(_ context.Context, j domain.Journal, lines []domain.JournalLine) *domain.Journal {
			j.Status = domain.Posted
			j.Lines = lines
			return &j
		}, nil).Once()

	journal, created, err := suite.service.Post(ctx, suite.actor, suite.sale)

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.True(created)
	suite.Equal(domain.Posted, journal.Status)
	suite.Equal(domain.KindSale, journal.Kind)
	suite.Equal(suite.actor.TenantID, journal.TenantID)
	suite.Equal(suite.actor.UserID, journal.CreatedBy)
	suite.Equal(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), journal.JournalDate)
	suite.Contains(journal.Reference, "SAL-")
	suite.True(journal.Amount.Equal(dec("250")))
	suite.Require().NotNil(journal.Source)
	suite.Equal(suite.saleSource(), *journal.Source)

	suite.Require().Len(savedLines, 2)
	suite.Equal(suite.cashAccount.AccountID, savedLines[0].AccountID)
	suite.True(savedLines[0].Debit.Equal(dec("250")))
	suite.True(savedLines[0].Credit.IsZero())
	suite.Equal(suite.revenueAccount.AccountID, savedLines[1].AccountID)
	suite.True(savedLines[1].Credit.Equal(dec("250")))
	suite.Equal(1, savedLines[0].LineNo)
	suite.Equal(2, savedLines[1].LineNo)

	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPost_AlreadyPosted() {
	ctx := context.Background()
	existing := &domain.Journal{JournalID: uuid.NewString(), TenantID: suite.actor.TenantID, Status: domain.Posted}
	suite.mockJournalRepo.On("FindJournalBySource", ctx, suite.actor.TenantID, suite.saleSource()).Return(existing, nil).Once()

	journal, created, err := suite.service.Post(ctx, suite.actor, suite.sale)

	suite.Require().NoError(err)
	suite.False(created)
	suite.Equal(existing, journal)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetByCode", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPost_LosesRace() {
	ctx := context.Background()
	winner := &domain.Journal{JournalID: uuid.NewString(), TenantID: suite.actor.TenantID, Status: domain.Posted}
	suite.mockJournalRepo.On("FindJournalBySource", ctx, suite.actor.TenantID, suite.saleSource()).
		Return(nil, apperrors.NewNotFoundError("journal")).Once()
	suite.expectAccounts(ctx)
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: journal for %s", apperrors.ErrDuplicate, suite.saleSource())).Once()
	suite.mockJournalRepo.On("FindJournalBySource", ctx, suite.actor.TenantID, suite.saleSource()).Return(winner, nil).Once()

	journal, created, err := suite.service.Post(ctx, suite.actor, suite.sale)

	suite.Require().NoError(err)
	suite.False(created)
	suite.Equal(winner.JournalID, journal.JournalID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPost_UnresolvedAccountWritesNothing() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalBySource", ctx, suite.actor.TenantID, suite.saleSource()).
		Return(nil, apperrors.NewNotFoundError("journal")).Once()
	suite.mockAccountSvc.On("GetByCode", ctx, suite.actor, "1101").
		Return(nil, fmt.Errorf("%w: code 1101", apperrors.ErrAccountNotFound)).Once()

	journal, created, err := suite.service.Post(ctx, suite.actor, suite.sale)

	suite.Nil(journal)
	suite.False(created)
	suite.ErrorIs(err, apperrors.ErrUnresolvedAccount)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPost_IneligibleSource() {
	ctx := context.Background()
	suite.sale.Status = "pending"
	suite.mockJournalRepo.On("FindJournalBySource", ctx, suite.actor.TenantID, suite.saleSource()).
		Return(nil, apperrors.NewNotFoundError("journal")).Once()

	_, _, err := suite.service.Post(ctx, suite.actor, suite.sale)

	suite.ErrorIs(err, apperrors.ErrIneligibleSource)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPost_UnbalancedEventWritesNothing() {
	ctx := context.Background()
	suite.sale.Tax = dec("10")
	suite.mockJournalRepo.On("FindJournalBySource", ctx, suite.actor.TenantID, suite.saleSource()).
		Return(nil, apperrors.NewNotFoundError("journal")).Once()

	_, _, err := suite.service.Post(ctx, suite.actor, suite.sale)

	suite.ErrorIs(err, apperrors.ErrUnbalancedEntry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPost_StorageFailure() {
	ctx := context.Background()
	storageErr := apperrors.NewAppError(500, "failed to insert journal", apperrors.ErrInternal)
	suite.mockJournalRepo.On("FindJournalBySource", ctx, suite.actor.TenantID, suite.saleSource()).
		Return(nil, apperrors.NewNotFoundError("journal")).Once()
	suite.expectAccounts(ctx)
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.Anything, mock.Anything).Return(nil, storageErr).Once()

	_, created, err := suite.service.Post(ctx, suite.actor, suite.sale)

	suite.False(created)
	suite.ErrorIs(err, apperrors.ErrInternal)
}

func (suite *JournalServiceTestSuite) TestPost_InvalidActor() {
	_, _, err := suite.service.Post(context.Background(), domain.Actor{TenantID: suite.actor.TenantID}, suite.sale)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindJournalBySource", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestAutoPost_Disabled() {
	cfg := domain.DefaultPostingConfig()
	cfg.AutoCreateJournalEntries = false
	svc := services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc, services.NewPostingPolicy(cfg), cfg)

	journal, created, err := svc.AutoPost(context.Background(), suite.actor, suite.sale)

	suite.NoError(err)
	suite.Nil(journal)
	suite.False(created)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindJournalBySource", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListJournals_DefaultLimit() {
	ctx := context.Background()
	journals := []domain.Journal{{JournalID: uuid.NewString()}, {JournalID: uuid.NewString()}}
	suite.mockJournalRepo.On("ListJournals", ctx, suite.actor.TenantID, 20, (*string)(nil)).Return(journals, "next", nil).Once()

	resp, err := suite.service.ListJournals(ctx, suite.actor, dto.ListJournalsParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Journals, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next", *resp.NextToken)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetJournal_NotFound() {
	ctx := context.Background()
	suite.mockJournalRepo.On("FindJournalByID", ctx, suite.actor.TenantID, "missing").
		Return(nil, apperrors.NewNotFoundError("journal missing")).Once()

	_, err := suite.service.GetJournal(ctx, suite.actor, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Test Suite ---
func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
