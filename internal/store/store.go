// marciomma | 2026
// store.go

// Package store reads and writes named collections in Redis. One collection
// is one key holding a JSON array; the single-key SET is the only atomicity
// boundary the backend offers, so every non-additive write is a full
// read-modify-write of its collection.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/core"
)

// Stable key names. These are the wire contract with existing data; never
// rename them.
const (
	KeyCountries     = "countries"
	KeyProcedures    = "procedures"
	KeyProductTypes  = "productTypes"
	KeyProducts      = "products"
	KeyStatuses      = "statuses"
	KeyPortfolios    = "statusPortfolios"
	KeyStatusView    = "portfolioStatusView"
	KeyPendingUsers  = "auth:pendingUsers"
	KeyApprovedUsers = "auth:approvedUsers"
)

type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// Store is a collection store over Redis with a small read-through cache in
// front of GETs. Cache entries expire after cacheTTL; writes refresh the
// written key so a rebuild is visible to the next read.
type Store struct {
	redis    *core.Redis
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func New(r *core.Redis, cacheTTL time.Duration) *Store {
	return &Store{
		redis:    r,
		cacheTTL: cacheTTL,
		cache:    make(map[string]cacheEntry),
	}
}

// GetCollection loads the JSON array stored at key into dest. A missing key
// is an empty collection, not an error. Connection failures and malformed
// payloads (anything that is not a JSON array) wrap core.ErrStoreUnavailable
// so callers can tell "store broken" from "collection empty".
func (s *Store) GetCollection(ctx context.Context, key string, dest any) error {
	if payload, ok := s.cached(key); ok {
		return decodeCollection(key, payload, dest)
	}

	payload, err := s.redis.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		payload = []byte("[]")
	} else if err != nil {
		return fmt.Errorf(
			"get collection %q: %s: %w",
			key,
			err,
			core.ErrStoreUnavailable,
		)
	}

	if err := decodeCollection(key, payload, dest); err != nil {
		return err
	}

	s.fill(key, payload)
	return nil
}

// SetCollection replaces the collection at key in full with one SET.
func (s *Store) SetCollection(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal collection %q: %w", key, err)
	}

	if !isJSONArray(payload) {
		return fmt.Errorf(
			"set collection %q: value is not an array: %w",
			key,
			core.ErrInvalidInput,
		)
	}

	if err := s.redis.Client().Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf(
			"set collection %q: %s: %w",
			key,
			err,
			core.ErrStoreUnavailable,
		)
	}

	s.fill(key, payload)
	return nil
}

func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := s.redis.Client().Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf(
			"list keys %q: %s: %w",
			pattern,
			err,
			core.ErrStoreUnavailable,
		)
	}
	return keys, nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := s.redis.Client().Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete keys: %s: %w", err, core.ErrStoreUnavailable)
	}

	s.mu.Lock()
	for _, key := range keys {
		delete(s.cache, key)
	}
	s.mu.Unlock()

	return nil
}

// FlushCache empties the read-through cache. The next read of every key hits
// Redis again. The returned flag is advisory only: it says the in-process
// cache was dropped, not that the backend state changed.
func (s *Store) FlushCache() bool {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.mu.Unlock()
	return true
}

// Reset re-dials the Redis connection and drops the cache.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.redis.Reset(ctx); err != nil {
		return err
	}
	s.FlushCache()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx)
}

func (s *Store) PoolStats() *redis.PoolStats {
	return s.redis.PoolStats()
}

func (s *Store) cached(key string) ([]byte, bool) {
	if s.cacheTTL <= 0 {
		return nil, false
	}

	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.payload, true
}

func (s *Store) fill(key string, payload []byte) {
	if s.cacheTTL <= 0 {
		return
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{
		payload:   payload,
		expiresAt: time.Now().Add(s.cacheTTL),
	}
	s.mu.Unlock()
}

func decodeCollection(key string, payload []byte, dest any) error {
	if !isJSONArray(payload) {
		return fmt.Errorf(
			"collection %q holds a non-array payload: %w",
			key,
			core.ErrStoreUnavailable,
		)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf(
			"collection %q is malformed: %s: %w",
			key,
			err,
			core.ErrStoreUnavailable,
		)
	}

	return nil
}

func isJSONArray(payload []byte) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) > 0 && trimmed[0] == '['
}
