package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	"github.com/SscSPs/pos_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostingEngine_ConcurrentPostsOfOneSaleCreateOneJournal(t *testing.T) {
	f := newLedgerFixture(t)
	event := domain.NewSaleEvent(f.sale("s-race", "2024-03-01", "card", "80", "8", "0"))

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[string]struct{}{}
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j, ok, err := f.svc.Journal.Post(f.ctx, f.actor, event)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if ok {
				created++
			}
			ids[j.JournalID] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, f.store.JournalCount(f.actor.TenantID))
	assert.Equal(t, 3, f.store.LineCount())
}

func TestPostingEngine_RepostReturnsExistingJournal(t *testing.T) {
	f := newLedgerFixture(t)
	event := domain.NewSaleEvent(f.sale("s-1", "2024-03-01", "cash", "10", "0", "0"))

	first := f.post(event)
	again, created, err := f.svc.Journal.Post(f.ctx, f.actor, event)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.JournalID, again.JournalID)
	assert.Len(t, again.Lines, 2)
	assert.Equal(t, 1, f.store.JournalCount(f.actor.TenantID))
}

func TestPostingEngine_FailedSaveLeavesNoTrace(t *testing.T) {
	f := newLedgerFixture(t)
	event := domain.NewSaleEvent(f.sale("s-1", "2024-03-01", "cash", "100", "11", "5"))
	boom := errors.New("connection reset")
	f.store.FailSavesWith(func(domain.Journal) error { return boom })

	_, created, err := f.svc.Journal.Post(f.ctx, f.actor, event)

	assert.ErrorIs(t, err, boom)
	assert.False(t, created)
	assert.Equal(t, 0, f.store.JournalCount(f.actor.TenantID))
	assert.Equal(t, 0, f.store.LineCount())

	tb, err := f.svc.Ledger.TrialBalance(f.ctx, f.actor, day("2024-12-31"))
	require.NoError(t, err)
	assert.Empty(t, tb.Rows)

	f.store.FailSavesWith(nil)
	j := f.post(event)
	assert.Len(t, j.Lines, 4)
	assert.Equal(t, 4, f.store.LineCount())
}

func TestPostingEngine_InactiveAccountBlocksPosting(t *testing.T) {
	f := newLedgerFixture(t)
	require.NoError(t, f.store.SetAccountActive(f.actor.TenantID, "1101", false))

	_, _, err := f.svc.Journal.Post(f.ctx, f.actor, domain.NewSaleEvent(f.sale("s-1", "2024-03-01", "cash", "10", "0", "0")))

	assert.ErrorIs(t, err, apperrors.ErrUnresolvedAccount)
	assert.Equal(t, 0, f.store.JournalCount(f.actor.TenantID))
}

func TestPostingEngine_MissingChart(t *testing.T) {
	f := newLedgerFixture(t)
	stranger := domain.Actor{TenantID: "unseeded", UserID: "user-1"}

	_, _, err := f.svc.Journal.Post(f.ctx, stranger, domain.NewSaleEvent(domain.Sale{
		SaleID: "s-1", Status: domain.StatusCompleted, Subtotal: dec("1"), TotalAmount: dec("1"),
	}))

	assert.ErrorIs(t, err, apperrors.ErrUnresolvedAccount)
}

func TestPostingEngine_TenantsAreIsolated(t *testing.T) {
	f := newLedgerFixture(t)
	other := domain.Actor{TenantID: "tenant-other", UserID: "user-2"}
	_, err := f.svc.Account.SeedChart(f.ctx, other)
	require.NoError(t, err)

	event := domain.NewSaleEvent(f.sale("s-shared", "2024-03-01", "cash", "10", "0", "0"))
	mine := f.post(event)
	theirs, created, err := f.svc.Journal.Post(f.ctx, other, event)

	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, mine.JournalID, theirs.JournalID)

	_, err = f.svc.Journal.GetJournal(f.ctx, other, mine.JournalID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostingEngine_ListJournalsPaginates(t *testing.T) {
	f := newLedgerFixture(t)
	for i, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		f.post(domain.NewSaleEvent(f.sale("s-"+string(rune('a'+i)), date, "cash", "10", "0", "0")))
	}

	seen := map[string]struct{}{}
	var token *string
	pages := 0
	for {
		resp, err := f.svc.Journal.ListJournals(f.ctx, f.actor, dto.ListJournalsParams{Limit: 2, NextToken: token})
		require.NoError(t, err)
		pages++
		for _, j := range resp.Journals {
			_, dup := seen[j.JournalID]
			assert.False(t, dup, "journal listed twice")
			seen[j.JournalID] = struct{}{}
		}
		if resp.NextToken == nil {
			break
		}
		token = resp.NextToken
	}

	assert.Equal(t, 3, pages)
	assert.Len(t, seen, 5)
}
