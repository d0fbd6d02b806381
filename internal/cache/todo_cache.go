package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"justdo/internal/query"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "todo:query:"
	keyGeneration = keyPrefix + "gen"
	keyList       = keyPrefix + "list:"
	keyPaged      = keyPrefix + "paged:"
)

// TodoCache caches grouped query envelopes in Redis. Keys carry the cache
// generation; any write bumps it, so results computed before the write are
// never read again.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current cache generation, 0 before the first write.
// Read it before loading from the store and build keys from it.
func (c *TodoCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, keyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// ListKey is the cache key for q in generation gen; equal queries share a key.
func ListKey(gen int64, q query.ListQuery) (string, error) {
	return key(keyList, gen, q)
}

// PagedKey is the cache key for q in generation gen; equal queries share a key.
func PagedKey(gen int64, q query.PagedQuery) (string, error) {
	return key(keyPaged, gen, q)
}

func key(prefix string, gen int64, q any) (string, error) {
	d, err := digest(q)
	if err != nil {
		return "", err
	}
	return prefix + strconv.FormatInt(gen, 10) + ":" + d, nil
}

// GetList returns the cached envelope, or nil on a miss.
func (c *TodoCache) GetList(ctx context.Context, key string) (*query.ListEnvelope, error) {
	var env query.ListEnvelope
	ok, err := c.get(ctx, key, &env)
	if err != nil || !ok {
		return nil, err
	}
	return &env, nil
}

// SetList stores the envelope under key.
func (c *TodoCache) SetList(ctx context.Context, key string, env query.ListEnvelope) error {
	return c.set(ctx, key, env)
}

// GetPaged returns the cached envelope, or nil on a miss.
func (c *TodoCache) GetPaged(ctx context.Context, key string) (*query.PagedEnvelope, error) {
	var env query.PagedEnvelope
	ok, err := c.get(ctx, key, &env)
	if err != nil || !ok {
		return nil, err
	}
	return &env, nil
}

// SetPaged stores the envelope under key.
func (c *TodoCache) SetPaged(ctx context.Context, key string, env query.PagedEnvelope) error {
	return c.set(ctx, key, env)
}

// InvalidateAll bumps the generation and drops the stored results. A load
// that started earlier writes under the old generation, which nothing reads.
func (c *TodoCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, keyGeneration).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	for _, pattern := range []string{keyList + "*", keyPaged + "*"} {
		iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (c *TodoCache) get(ctx context.Context, key string, out any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *TodoCache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func digest(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
