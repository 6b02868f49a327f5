package memory

import (
	"context"
	"sync"

	"geocell/internal/domain/entities"
)

// CacheStore is an in-memory cache store keyed by geohash cell. It keeps a
// two-level map (cell code → item ID → item) so both cell fetches and
// per-item removal are O(1) lookups. Empty cells are cleaned up on removal
// to keep the cell listing tight.
type CacheStore struct {
	mu    sync.RWMutex
	cells map[string]map[string]*entities.CacheItem
}

func NewCacheStore() *CacheStore {
	return &CacheStore{
		cells: make(map[string]map[string]*entities.CacheItem),
	}
}

// Add upserts an item under the given cell code.
func (s *CacheStore) Add(ctx context.Context, code string, item *entities.CacheItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, exists := s.cells[code]
	if !exists {
		cell = make(map[string]*entities.CacheItem)
		s.cells[code] = cell
	}
	cell[item.ID] = item
	return nil
}

// GetCell returns all items stored under the cell code. A cell with no
// entries yields a nil slice, not an error.
func (s *CacheStore) GetCell(ctx context.Context, code string) ([]*entities.CacheItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []*entities.CacheItem
	for _, item := range s.cells[code] {
		items = append(items, item)
	}
	return items, nil
}

// RemoveItem deletes one item from a cell, reporting whether it was present.
func (s *CacheStore) RemoveItem(ctx context.Context, code, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, exists := s.cells[code]
	if !exists {
		return false, nil
	}
	if _, found := cell[itemID]; !found {
		return false, nil
	}
	delete(cell, itemID)
	if len(cell) == 0 {
		delete(s.cells, code)
	}
	return true, nil
}

// DropCell discards a whole cell.
func (s *CacheStore) DropCell(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cells, code)
	return nil
}

// Cells returns the codes of all cells currently holding items.
func (s *CacheStore) Cells(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.cells))
	for code := range s.cells {
		codes = append(codes, code)
	}
	return codes, nil
}
