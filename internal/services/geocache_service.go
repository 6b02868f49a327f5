package services

import (
	"context"
	"encoding/json"
	"sort"

	"geocell/internal/config"
	"geocell/internal/domain/entities"
	"geocell/internal/geo"
	"geocell/internal/metrics"
	"geocell/internal/repository"
)

// GeoCacheService ties the geohash and covering algorithms to a cache
// store: writes tag each item with the cell covering its location, reads
// cover the query region with cells and union the items stored under them.
type GeoCacheService struct {
	store      repository.CacheStore
	codeLength int
}

func NewGeoCacheService(store repository.CacheStore, cfg *config.Config) *GeoCacheService {
	return &GeoCacheService{
		store:      store,
		codeLength: cfg.Geo.CacheCodeLength,
	}
}

// CodeLength returns the geohash length cache cells are keyed at.
func (s *GeoCacheService) CodeLength() int { return s.codeLength }

// Put stores a payload under the cell covering its coordinate.
func (s *GeoCacheService) Put(ctx context.Context, lat, lon float64, payload json.RawMessage) (*entities.CacheItem, error) {
	code := geo.Encode(lat, lon, s.codeLength)
	item := entities.NewCacheItem(lat, lon, code, payload)
	if err := s.store.Add(ctx, code, item); err != nil {
		return nil, err
	}
	return item, nil
}

// QueryResult is the outcome of a region query: the deduplicated union of
// items found in the covering cells, the covering itself, and the covered
// cells that held nothing. Empty cells are what a fetcher would fill on a
// cache miss; performing that fetch is the caller's concern.
type QueryResult struct {
	Items      []*entities.CacheItem `json:"items"`
	Cells      map[string]string     `json:"cells"`
	EmptyCells []string              `json:"empty_cells"`
}

// Query covers the region with cache cells and unions their contents.
// Items appearing in more than one covered cell are returned once.
func (s *GeoCacheService) Query(ctx context.Context, region geo.Region, includeIntersecting bool) (*QueryResult, error) {
	cover := geo.Cover(region, s.codeLength, includeIntersecting)
	metrics.CoverCellsTotal.Observe(float64(len(cover)))

	result := &QueryResult{
		Cells: make(map[string]string, len(cover)),
	}
	seen := make(map[string]bool)

	for code, bounds := range cover {
		result.Cells[code] = bounds.String()
		items, err := s.store.GetCell(ctx, code)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			metrics.CacheCellMissesTotal.Inc()
			result.EmptyCells = append(result.EmptyCells, code)
			continue
		}
		metrics.CacheCellHitsTotal.Inc()
		for _, item := range items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			result.Items = append(result.Items, item)
		}
	}

	sort.Strings(result.EmptyCells)
	return result, nil
}

// Remove deletes one item, addressed by its coordinate and ID.
func (s *GeoCacheService) Remove(ctx context.Context, lat, lon float64, itemID string) (bool, error) {
	code := geo.Encode(lat, lon, s.codeLength)
	return s.store.RemoveItem(ctx, code, itemID)
}

// Forget discards a whole cell by code.
func (s *GeoCacheService) Forget(ctx context.Context, code string) error {
	return s.store.DropCell(ctx, code)
}

// Cells lists the cell codes currently holding cached items.
func (s *GeoCacheService) Cells(ctx context.Context) ([]string, error) {
	codes, err := s.store.Cells(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(codes)
	return codes, nil
}
