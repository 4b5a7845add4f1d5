// Package memory is an in-process implementation of the ledger repositories.
// It backs the test suites and the API when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/pos_ledger/internal/utils/pagination"
)

type storedLine struct {
	domain.JournalLine
	seq int64
}

// Store keeps every table in maps guarded by one RWMutex. Writes take the
// write lock for their whole unit of work, so readers never see a partial one.
type Store struct {
	mu sync.RWMutex

	accounts      map[string]domain.Account
	accountByCode map[string]string

	journals        map[string]domain.Journal
	journalBySource map[string]string
	lines           []storedLine
	lineSeq         int64

	sales        map[string]domain.Sale
	transactions map[string]domain.Transaction
	txnBySource  map[string]string
	purchases    map[string]domain.Purchase

	saveFault func(domain.Journal) error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:        map[string]domain.Account{},
		accountByCode:   map[string]string{},
		journals:        map[string]domain.Journal{},
		journalBySource: map[string]string{},
		sales:           map[string]domain.Sale{},
		transactions:    map[string]domain.Transaction{},
		txnBySource:     map[string]string{},
		purchases:       map[string]domain.Purchase{},
	}
}

// Provider returns the store wired into every repository slot.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   s,
		JournalRepo:   s,
		SourceRepo:    s,
		ReportingRepo: s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
	_ portsrepo.SourceRepositoryFacade  = (*Store)(nil)
	_ portsrepo.ReportingRepository     = (*Store)(nil)
)

func key(parts ...string) string {
	return strings.Join(parts, "\x00")
}

func sourceKey(tenantID string, ref domain.SourceRef) string {
	return key(tenantID, string(ref.Type), ref.ID)
}

// FailSavesWith makes SaveJournal run fault after staging a journal and its
// lines and abort the unit of work when fault returns an error. Passing nil
// clears it.
func (s *Store) FailSavesWith(fault func(domain.Journal) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveFault = fault
}

// --- accounts ---

func (s *Store) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountByCode[key(tenantID, code)]
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + code)
	}
	acc := s.accounts[id]
	return &acc, nil
}

func (s *Store) FindAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Account, len(codes))
	for _, code := range codes {
		if id, ok := s.accountByCode[key(tenantID, code)]; ok {
			out[code] = s.accounts[id]
		}
	}
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context, tenantID string, activeOnly bool) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Account{}
	for _, acc := range s.accounts {
		if acc.TenantID != tenantID || (activeOnly && !acc.IsActive) {
			continue
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(account.TenantID, account.Code)
	if _, ok := s.accountByCode[k]; ok {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account id %s", apperrors.ErrDuplicate, account.AccountID)
	}
	s.accounts[account.AccountID] = account
	s.accountByCode[k] = account.AccountID
	return nil
}

// SetAccountActive flips an account's active flag.
func (s *Store) SetAccountActive(tenantID, code string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.accountByCode[key(tenantID, code)]
	if !ok {
		return apperrors.NewNotFoundError("account " + code)
	}
	acc := s.accounts[id]
	acc.IsActive = active
	s.accounts[id] = acc
	return nil
}

// --- journals ---

func (s *Store) linesOf(journalID string) []domain.JournalLine {
	out := []domain.JournalLine{}
	for _, l := range s.lines {
		if l.JournalID == journalID {
			out = append(out, l.JournalLine)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineNo < out[j].LineNo })
	return out
}

func (s *Store) FindJournalByID(ctx context.Context, tenantID, journalID string) (*domain.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.journals[journalID]
	if !ok || j.TenantID != tenantID || j.Status != domain.Posted {
		return nil, apperrors.NewNotFoundError("journal " + journalID)
	}
	j.Lines = s.linesOf(journalID)
	return &j, nil
}

func (s *Store) FindJournalBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.journalBySource[sourceKey(tenantID, source)]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal for " + source.String())
	}
	j := s.journals[id]
	j.Lines = s.linesOf(id)
	return &j, nil
}

func (s *Store) ListJournals(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	var cursor *pagination.JournalCursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeJournalCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Journal, 0, len(s.journals))
	for _, j := range s.journals {
		if j.TenantID != tenantID || j.Status != domain.Posted {
			continue
		}
		if cursor != nil && !cursor.Follows(j.JournalDate, j.CreatedAt, j.JournalID) {
			continue
		}
		all = append(all, j)
	}
	sort.Slice(all, func(a, b int) bool {
		x, y := all[a], all[b]
		if !x.JournalDate.Equal(y.JournalDate) {
			return x.JournalDate.After(y.JournalDate)
		}
		if !x.CreatedAt.Equal(y.CreatedAt) {
			return x.CreatedAt.After(y.CreatedAt)
		}
		return x.JournalID > y.JournalID
	})

	var next *string
	if limit > 0 && len(all) > limit {
		all = all[:limit]
		last := all[limit-1]
		token := pagination.JournalCursor{JournalDate: last.JournalDate, CreatedAt: last.CreatedAt, JournalID: last.JournalID}.Encode()
		next = &token
	}
	return all, next, nil
}

// SaveJournal stages the journal as a draft with its lines, re-checks the
// staged totals and publishes everything as posted, all under one write lock.
func (s *Store) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) (*domain.Journal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.journals[journal.JournalID]; ok {
		return nil, fmt.Errorf("%w: journal id %s", apperrors.ErrDuplicate, journal.JournalID)
	}
	var srcKey string
	if journal.Source != nil {
		srcKey = sourceKey(journal.TenantID, *journal.Source)
		if _, ok := s.journalBySource[srcKey]; ok {
			return nil, fmt.Errorf("%w: journal for %s", apperrors.ErrDuplicate, journal.Source)
		}
	}

	staged := make([]storedLine, len(lines))
	seq := s.lineSeq
	for i, l := range lines {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		acc, ok := s.accounts[l.AccountID]
		if !ok || acc.TenantID != journal.TenantID {
			return nil, fmt.Errorf("%w: line references unknown account %s", apperrors.ErrValidation, l.AccountID)
		}
		l.JournalID = journal.JournalID
		seq++
		staged[i] = storedLine{JournalLine: l, seq: seq}
	}

	debit, credit := domain.SumLines(lines)
	if len(lines) < 2 || !debit.Equal(credit) {
		return nil, fmt.Errorf("%w: staged debits %s, credits %s", apperrors.ErrUnbalancedEntry, debit, credit)
	}

	if s.saveFault != nil {
		if err := s.saveFault(journal); err != nil {
			return nil, err
		}
	}

	journal.Status = domain.Posted
	journal.Lines = nil
	s.journals[journal.JournalID] = journal
	if srcKey != "" {
		s.journalBySource[srcKey] = journal.JournalID
	}
	s.lines = append(s.lines, staged...)
	s.lineSeq = seq

	out := journal
	out.Lines = make([]domain.JournalLine, len(staged))
	for i, l := range staged {
		out.Lines[i] = l.JournalLine
	}
	return &out, nil
}

// JournalCount returns the number of posted journals of a tenant.
func (s *Store) JournalCount(tenantID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, j := range s.journals {
		if j.TenantID == tenantID && j.Status == domain.Posted {
			n++
		}
	}
	return n
}

// LineCount returns the number of stored journal lines.
func (s *Store) LineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}
