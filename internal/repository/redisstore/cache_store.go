// Package redisstore implements the cache store on redis, for deployments
// where cached cells must be shared across instances or survive restarts.
package redisstore

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"geocell/internal/domain/entities"
)

const keyPrefix = "geocell:cell:"

// CacheStore stores each geohash cell as a redis hash (item ID → JSON item)
// under geocell:cell:<code>. A positive TTL refreshes the whole cell on
// every write, so hot cells stay resident and cold ones age out together.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	return &CacheStore{client: client, ttl: ttl}
}

// Open creates a redis client for the given address. Callers should Ping it
// before serving traffic.
func Open(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func cellKey(code string) string { return keyPrefix + code }

func (s *CacheStore) Add(ctx context.Context, code string, item *entities.CacheItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	key := cellKey(code)
	if err := s.client.HSet(ctx, key, item.ID, data).Err(); err != nil {
		return err
	}
	if s.ttl > 0 {
		return s.client.Expire(ctx, key, s.ttl).Err()
	}
	return nil
}

func (s *CacheStore) GetCell(ctx context.Context, code string) ([]*entities.CacheItem, error) {
	values, err := s.client.HVals(ctx, cellKey(code)).Result()
	if err != nil {
		return nil, err
	}
	var items []*entities.CacheItem
	for _, v := range values {
		var item entities.CacheItem
		if err := json.Unmarshal([]byte(v), &item); err != nil {
			// A corrupt entry should not poison the whole cell.
			continue
		}
		items = append(items, &item)
	}
	return items, nil
}

func (s *CacheStore) RemoveItem(ctx context.Context, code, itemID string) (bool, error) {
	removed, err := s.client.HDel(ctx, cellKey(code), itemID).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (s *CacheStore) DropCell(ctx context.Context, code string) error {
	return s.client.Del(ctx, cellKey(code)).Err()
}

func (s *CacheStore) Cells(ctx context.Context) ([]string, error) {
	var codes []string
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		codes = append(codes, strings.TrimPrefix(iter.Val(), keyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}
