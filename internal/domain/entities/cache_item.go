package entities

import (
	"encoding/json"
	"time"

	"geocell/pkg/utils"
)

// CacheItem is a payload stored in the geo cache, tagged with the geohash
// cell covering its location. Items in the same cell are fetched together
// when a region query covers that cell.
type CacheItem struct {
	ID       string          `json:"id"`
	Location Location        `json:"location"`
	Geohash  string          `json:"geohash"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	StoredAt time.Time       `json:"stored_at"`
}

// NewCacheItem creates a CacheItem with a fresh ID and the current
// timestamp. The geohash should be pre-computed by the geo package at the
// cache's configured length.
func NewCacheItem(lat, lon float64, geohash string, payload json.RawMessage) *CacheItem {
	return &CacheItem{
		ID:       utils.GenerateID(),
		Location: NewLocation(lat, lon),
		Geohash:  geohash,
		Payload:  payload,
		StoredAt: time.Now(),
	}
}
