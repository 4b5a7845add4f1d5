package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/SscSPs/pos_ledger/internal/core/domain"
)

// AddSale stores or replaces a sale document.
func (s *Store) AddSale(sale domain.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[key(sale.TenantID, sale.SaleID)] = sale
}

// AddTransaction stores or replaces a unified-ledger row.
func (s *Store) AddTransaction(txn domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[key(txn.TenantID, txn.TransactionID)] = txn
	if txn.Source != nil {
		s.txnBySource[sourceKey(txn.TenantID, *txn.Source)] = txn.TransactionID
	}
}

// AddPurchase stores or replaces a purchase document.
func (s *Store) AddPurchase(p domain.Purchase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[key(p.TenantID, p.PurchaseID)] = p
}

func (s *Store) posted(tenantID string, t domain.SourceType, id string) bool {
	_, ok := s.journalBySource[sourceKey(tenantID, domain.SourceRef{Type: t, ID: id})]
	return ok
}

// page sorts candidates by ID and returns up to limit of them after afterID.
func page[T any](items []T, idOf func(T) string, afterID string, limit int) []T {
	sort.Slice(items, func(i, j int) bool { return idOf(items[i]) < idOf(items[j]) })
	out := make([]T, 0, limit)
	for _, it := range items {
		if idOf(it) <= afterID {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, it)
	}
	return out
}

func (s *Store) unpostedSales(tenantID string) []domain.Sale {
	out := []domain.Sale{}
	for _, sale := range s.sales {
		if sale.TenantID == tenantID && sale.Status == domain.StatusCompleted && !s.posted(tenantID, domain.SourceSale, sale.SaleID) {
			out = append(out, sale)
		}
	}
	return out
}

func (s *Store) ListUnpostedSales(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(s.unpostedSales(tenantID), func(x domain.Sale) string { return x.SaleID }, afterID, limit), nil
}

func (s *Store) CountUnpostedSales(ctx context.Context, tenantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.unpostedSales(tenantID)), nil
}

func (s *Store) unpostedTransactions(tenantID string) []domain.Transaction {
	out := []domain.Transaction{}
	for _, txn := range s.transactions {
		if txn.TenantID == tenantID && txn.IsManual() && txn.Status == domain.StatusCompleted &&
			!s.posted(tenantID, domain.SourceTransaction, txn.TransactionID) {
			out = append(out, txn)
		}
	}
	return out
}

func (s *Store) ListUnpostedTransactions(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(s.unpostedTransactions(tenantID), func(x domain.Transaction) string { return x.TransactionID }, afterID, limit), nil
}

func (s *Store) CountUnpostedTransactions(ctx context.Context, tenantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.unpostedTransactions(tenantID)), nil
}

func (s *Store) unpostedPurchases(tenantID string) []domain.Purchase {
	out := []domain.Purchase{}
	for _, p := range s.purchases {
		if p.TenantID == tenantID && p.IsPostable() && !s.posted(tenantID, domain.SourcePurchase, p.PurchaseID) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) ListUnpostedPurchases(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(s.unpostedPurchases(tenantID), func(x domain.Purchase) string { return x.PurchaseID }, afterID, limit), nil
}

func (s *Store) CountUnpostedPurchases(ctx context.Context, tenantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.unpostedPurchases(tenantID)), nil
}

func (s *Store) completedSales(tenantID string) []domain.Sale {
	out := []domain.Sale{}
	for _, sale := range s.sales {
		if sale.TenantID == tenantID && sale.Status == domain.StatusCompleted {
			out = append(out, sale)
		}
	}
	return out
}

func (s *Store) ListCompletedSales(ctx context.Context, tenantID, afterID string, limit int) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return page(s.completedSales(tenantID), func(x domain.Sale) string { return x.SaleID }, afterID, limit), nil
}

func (s *Store) CountCompletedSales(ctx context.Context, tenantID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.completedSales(tenantID)), nil
}

func (s *Store) FindTransactionBySource(ctx context.Context, tenantID string, source domain.SourceRef) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.txnBySource[sourceKey(tenantID, source)]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction for " + source.String())
	}
	txn := s.transactions[key(tenantID, id)]
	return &txn, nil
}

func (s *Store) InsertSourcedTransaction(ctx context.Context, txn domain.Transaction) (bool, error) {
	if txn.Source == nil {
		return false, fmt.Errorf("%w: sourced transaction needs a source", apperrors.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := sourceKey(txn.TenantID, *txn.Source)
	if _, ok := s.txnBySource[k]; ok {
		return false, nil
	}
	s.transactions[key(txn.TenantID, txn.TransactionID)] = txn
	s.txnBySource[k] = txn.TransactionID
	return true, nil
}

// TransactionsFor returns every unified-ledger row of a tenant.
func (s *Store) TransactionsFor(tenantID string) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Transaction{}
	for _, txn := range s.transactions {
		if txn.TenantID == tenantID {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out
}
