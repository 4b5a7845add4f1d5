package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/SscSPs/pos_ledger/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedChart_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	chart := domain.DefaultPostingConfig().ChartOfAccounts
	svc := services.NewAccountService(store, services.WithStarterChart(chart))
	actor := domain.Actor{TenantID: "tenant-1", UserID: "user-1"}

	first, err := svc.SeedChart(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, len(chart), first.Created)
	assert.Equal(t, 0, first.Existed)

	second, err := svc.SeedChart(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, len(chart), second.Existed)

	accounts, err := svc.ListActive(ctx, actor)
	require.NoError(t, err)
	assert.Len(t, accounts, len(chart))
	assert.Equal(t, "1101", accounts[0].Code)
	assert.Equal(t, "user-1", accounts[0].CreatedBy)
}

func TestSeedChart_RejectsBadType(t *testing.T) {
	svc := services.NewAccountService(memory.NewStore(), services.WithStarterChart([]domain.AccountSeed{
		{Code: "1", Name: "Mystery", Type: "MYSTERY"},
	}))

	_, err := svc.SeedChart(context.Background(), domain.Actor{TenantID: "t", UserID: "u"})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGetByCode(t *testing.T) {
	f := newLedgerFixture(t)

	acc, err := f.svc.Account.GetByCode(f.ctx, f.actor, "1201")
	require.NoError(t, err)
	assert.Equal(t, "Inventory", acc.Name)
	assert.Equal(t, domain.Asset, acc.AccountType)

	_, err = f.svc.Account.GetByCode(f.ctx, f.actor, "0000")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	require.NoError(t, f.store.SetAccountActive(f.actor.TenantID, "1201", false))
	_, err = f.svc.Account.GetByCode(f.ctx, f.actor, "1201")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestListAccounts_InactiveFilter(t *testing.T) {
	f := newLedgerFixture(t)
	require.NoError(t, f.store.SetAccountActive(f.actor.TenantID, "6199", false))

	active, err := f.svc.Account.ListActive(f.ctx, f.actor)
	require.NoError(t, err)
	all, err := f.svc.Account.ListAccounts(f.ctx, f.actor, dto.ListAccountsParams{IncludeInactive: true})
	require.NoError(t, err)

	assert.Len(t, all, len(active)+1)
	for _, acc := range active {
		assert.NotEqual(t, "6199", acc.Code)
	}
}

func TestAccountService_RequiresActor(t *testing.T) {
	svc := services.NewAccountService(memory.NewStore())

	_, err := svc.ListActive(context.Background(), domain.Actor{})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
