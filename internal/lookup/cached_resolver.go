package lookup

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Cache is the byte store behind CachedResolver.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedResolver serves repeated names from a cache. Only results that
// carry J2000 coordinates are stored, so a name that failed to resolve is
// asked again next time. Cache errors are logged and the upstream
// resolver is used.
type CachedResolver struct {
	next   Resolver
	cache  Cache
	logger *zap.Logger
}

func NewCachedResolver(next Resolver, cache Cache, logger *zap.Logger) *CachedResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedResolver{next: next, cache: cache, logger: logger}
}

// cacheKey is case sensitive: lookUP echoes the name as typed in
// target.name, and a hit must report it the same way.
func cacheKey(name string) string {
	return strings.TrimSpace(name)
}

func (c *CachedResolver) Resolve(ctx context.Context, name, callback string) (*Result, error) {
	key := cacheKey(name)

	if b, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("lookup cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var res Result
		if err := json.Unmarshal(b, &res); err == nil {
			return &res, nil
		}
		c.logger.Warn("lookup cache entry unreadable", zap.String("key", key))
	}

	res, err := c.next.Resolve(ctx, name, callback)
	if err != nil || !hasPosition(res) {
		return res, err
	}

	if b, err := json.Marshal(res); err == nil {
		if err := c.cache.Set(ctx, key, b); err != nil {
			c.logger.Warn("lookup cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}
