package sheet

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "sheet:rows"

// CachedStore wraps a Store with a Redis read-through cache. Reads hit the
// backend at most once per TTL; any upsert writes through and drops the
// cached rows so the next read is fresh. Cache failures degrade to the
// backend, never to an error.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
}

func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &CachedStore{inner: inner, client: client, ttl: ttl}
}

func (s *CachedStore) LoadAll(ctx context.Context) ([]Record, error) {
	raw, err := s.client.Get(ctx, cacheKey).Result()
	if err == nil {
		var records []Record
		if decodeErr := json.Unmarshal([]byte(raw), &records); decodeErr == nil {
			return records, nil
		}
		// Unreadable cache entry; fall through to the backend.
		_ = s.client.Del(ctx, cacheKey).Err()
	} else if err != redis.Nil {
		log.Printf(`{"level":"warn","msg":"sheet cache read failed","error":%q}`, err.Error())
	}

	records, err := s.inner.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, records)
	return records, nil
}

func (s *CachedStore) Upsert(ctx context.Context, key string, rec Record) error {
	if err := s.inner.Upsert(ctx, key, rec); err != nil {
		return err
	}
	if err := s.client.Del(ctx, cacheKey).Err(); err != nil {
		log.Printf(`{"level":"warn","msg":"sheet cache invalidate failed","error":%q}`, err.Error())
	}
	return nil
}

// Ping reports backend health when the backend supports it.
func (s *CachedStore) Ping(ctx context.Context) error {
	if pinger, ok := s.inner.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (s *CachedStore) fill(ctx context.Context, records []Record) {
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil {
		log.Printf(`{"level":"warn","msg":"sheet cache fill failed","error":%q}`, err.Error())
	}
}

var _ Store = (*CachedStore)(nil)
