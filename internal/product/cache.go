package product

import (
	"context"
	"errors"
	"time"
)

const ListCacheTTL = 5 * time.Minute

// Cache is the store behind cached product listings. *cache.RedisClient
// satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ListCacheKey names a cached listing. The generation is part of the key, so
// a listing loaded before an invalidation is written under a key no reader
// asks for again.
func ListCacheKey(userID, generation, digest string) string {
	return "products:list:" + userID + ":" + generation + ":" + digest
}

func generationKey(userID string) string {
	return "products:gen:" + userID
}

// ListCacheGeneration returns the current listing generation of userID, "0"
// until the first invalidation.
func ListCacheGeneration(ctx context.Context, c Cache, userID string) (string, error) {
	val, found, err := c.Get(ctx, generationKey(userID))
	if err != nil {
		return "", err
	}
	if !found || len(val) == 0 {
		return "0", nil
	}
	return string(val), nil
}

// InvalidateListCache moves userID to a new listing generation and drops the
// listings cached so far. A nil cache is a no-op.
func InvalidateListCache(ctx context.Context, c Cache, userID string) error {
	if c == nil {
		return nil
	}
	_, incrErr := c.Incr(ctx, generationKey(userID))
	delErr := c.DeleteByPattern(ctx, "products:list:"+userID+":*")
	return errors.Join(incrErr, delErr)
}
