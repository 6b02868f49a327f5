package repository

import (
	"context"

	"geocell/internal/domain/entities"
)

// CacheStore persists cache items grouped by geohash cell code. The service
// layer computes the cell for each item; the store only deals in opaque
// codes.
type CacheStore interface {
	Add(ctx context.Context, code string, item *entities.CacheItem) error
	GetCell(ctx context.Context, code string) ([]*entities.CacheItem, error)
	RemoveItem(ctx context.Context, code, itemID string) (bool, error)
	DropCell(ctx context.Context, code string) error
	Cells(ctx context.Context) ([]string, error)
}
