package services

import (
	"context"

	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
)

// AccountReaderSvc defines lookups against the chart of accounts.
type AccountReaderSvc interface {
	// GetByCode returns the active account with the given code.
	// Unknown or inactive codes yield apperrors.ErrAccountNotFound.
	GetByCode(ctx context.Context, actor domain.Actor, code string) (*domain.Account, error)

	// ListActive returns the tenant's active accounts ordered by code.
	ListActive(ctx context.Context, actor domain.Actor) ([]domain.Account, error)

	// ListAccounts returns the chart, optionally including inactive accounts.
	ListAccounts(ctx context.Context, actor domain.Actor, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines chart maintenance.
type AccountWriterSvc interface {
	// SeedChart creates any accounts of the configured starter chart the tenant lacks.
	SeedChart(ctx context.Context, actor domain.Actor) (*dto.SeedAccountsResponse, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
