package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	chart       []domain.AccountSeed
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithStarterChart sets the accounts created by SeedChart.
func WithStarterChart(chart []domain.AccountSeed) AccountServiceOption {
	return func(s *accountService) {
		s.chart = chart
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		chart:       domain.DefaultPostingConfig().ChartOfAccounts,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetByCode(ctx context.Context, actor domain.Actor, code string) (*domain.Account, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, actor.TenantID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrAccountNotFound, code)
		}
		s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: code %s is inactive", apperrors.ErrAccountNotFound, code)
	}
	return account, nil
}

func (s *accountService) ListActive(ctx context.Context, actor domain.Actor) ([]domain.Account, error) {
	return s.ListAccounts(ctx, actor, dto.ListAccountsParams{})
}

func (s *accountService) ListAccounts(ctx context.Context, actor domain.Actor, params dto.ListAccountsParams) ([]domain.Account, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, actor.TenantID, !params.IncludeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", actor.TenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// SeedChart is idempotent: codes the tenant already has are counted as existing.
func (s *accountService) SeedChart(ctx context.Context, actor domain.Actor) (*dto.SeedAccountsResponse, error) {
	if err := s.RequireActor(actor); err != nil {
		return nil, err
	}

	codes := make([]string, len(s.chart))
	for i, seed := range s.chart {
		codes[i] = seed.Code
	}
	existing, err := s.accountRepo.FindAccountsByCodes(ctx, actor.TenantID, codes)
	if err != nil {
		s.LogError(ctx, err, "Failed to load existing accounts for seeding")
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	resp := &dto.SeedAccountsResponse{}
	now := time.Now().UTC()
	for _, seed := range s.chart {
		if _, ok := existing[seed.Code]; ok {
			resp.Existed++
			continue
		}
		if !seed.Type.IsValid() {
			return nil, apperrors.NewValidationError("starter account %s has invalid type %q", seed.Code, seed.Type)
		}
		account := domain.Account{
			AccountID:   uuid.NewString(),
			TenantID:    actor.TenantID,
			Code:        seed.Code,
			Name:        seed.Name,
			AccountType: seed.Type,
			SubType:     seed.SubType,
			IsActive:    true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actor.UserID,
			},
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				resp.Existed++
				continue
			}
			s.LogError(ctx, err, "Failed to save starter account", slog.String("code", seed.Code))
			return nil, fmt.Errorf("failed to create account %s: %w", seed.Code, err)
		}
		resp.Created++
	}

	s.LogInfo(ctx, "Chart of accounts seeded",
		slog.String("tenant_id", actor.TenantID),
		slog.Int("created", resp.Created),
		slog.Int("existed", resp.Existed))
	return resp, nil
}
