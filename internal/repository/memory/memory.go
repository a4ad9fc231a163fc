// internal/repository/memory/memory.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dineiq/dineiq/internal/domain"
	"github.com/dineiq/dineiq/internal/repository"
)

// Store is an in-memory implementation of every repository interface.
// It exists for tests and local fixtures; production uses postgres.
type Store struct {
	mu           sync.RWMutex
	items        map[string]*domain.InventoryItem
	events       []*domain.SalesEvent
	transactions map[string][]domain.InventoryTransaction
	counts       map[string]*domain.InventoryCount
	suppliers    map[string]*domain.Supplier
}

// Interface compliance.
var (
	_ repository.InventoryRepository   = (*Store)(nil)
	_ repository.SalesRepository       = (*Store)(nil)
	_ repository.TransactionRepository = (*Store)(nil)
	_ repository.CountRepository       = (*Store)(nil)
	_ repository.SupplierRepository    = (*Store)(nil)
)

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		items:        make(map[string]*domain.InventoryItem),
		transactions: make(map[string][]domain.InventoryTransaction),
		counts:       make(map[string]*domain.InventoryCount),
		suppliers:    make(map[string]*domain.Supplier),
	}
}

func (s *Store) GetInventoryItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, domain.NotFoundf("inventory item %s", id)
	}
	cp := *item
	return &cp, nil
}

func (s *Store) GetAllInventoryItems(ctx context.Context) ([]*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.InventoryItem, 0, len(s.items))
	for _, item := range s.items {
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetLowStockItems(ctx context.Context) ([]*domain.InventoryItem, error) {
	all, err := s.GetAllInventoryItems(ctx)
	if err != nil {
		return nil, err
	}
	low := all[:0]
	for _, item := range all {
		if item.CurrentStock < item.ParLevel {
			low = append(low, item)
		}
	}
	return low, nil
}

func (s *Store) CreateInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *Store) UpdateInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return domain.NotFoundf("inventory item %s", item.ID)
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domain.NotFoundf("inventory item %s", id)
	}
	delete(s.items, id)
	return nil
}

func (s *Store) CreateSalesEvent(ctx context.Context, event *domain.SalesEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	cp.Lines = append([]domain.SaleLine(nil), event.Lines...)
	s.events = append(s.events, &cp)
	return nil
}

func (s *Store) GetSalesEventsByDateRange(ctx context.Context, start, end time.Time, limit int) ([]*domain.SalesEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.SalesEvent
	for _, ev := range s.events {
		if ev.Timestamp.Before(start) || ev.Timestamp.After(end) {
			continue
		}
		out = append(out, ev)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *domain.InventoryTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ItemID] = append(s.transactions[tx.ItemID], *tx)
	return nil
}

func (s *Store) GetTransactionsByItem(ctx context.Context, itemID string, start, end time.Time) ([]domain.InventoryTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.InventoryTransaction
	for _, tx := range s.transactions[itemID] {
		if tx.Timestamp.Before(start) || tx.Timestamp.After(end) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *Store) CreateCount(ctx context.Context, count *domain.InventoryCount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *count
	s.counts[count.ID] = &cp
	return nil
}

func (s *Store) GetCount(ctx context.Context, id string) (*domain.InventoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count, ok := s.counts[id]
	if !ok {
		return nil, domain.NotFoundf("inventory count %s", id)
	}
	cp := *count
	return &cp, nil
}

func (s *Store) GetCountsByDateRange(ctx context.Context, start, end time.Time) ([]*domain.InventoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.InventoryCount
	for _, count := range s.counts {
		if count.CountedAt.Before(start) || count.CountedAt.After(end) {
			continue
		}
		cp := *count
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CountedAt.Before(out[j].CountedAt) })
	return out, nil
}

func (s *Store) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sup, ok := s.suppliers[id]
	if !ok {
		return nil, domain.NotFoundf("supplier %s", id)
	}
	cp := *sup
	return &cp, nil
}

// AddSupplier seeds a supplier. Test helper.
func (s *Store) AddSupplier(sup *domain.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sup
	s.suppliers[sup.ID] = &cp
}
