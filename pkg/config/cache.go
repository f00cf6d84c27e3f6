package config

import (
	"context"
	"fmt"

	"github.com/matzehuels/orgchart/pkg/cache"
)

// Open connects the configured cache backend.
func (c Cache) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheMemory:
		return cache.NewMemoryCache(), nil
	case CacheFile, "":
		dir := c.Dir
		if dir == "" {
			dir = DefaultCacheDir()
		}
		return cache.NewFileCache(dir)
	case CacheRedis:
		return cache.DialRedis(ctx, c.RedisURL, c.Prefix)
	case CacheMongo:
		return cache.DialMongo(ctx, c.MongoURI, c.MongoDatabase, c.MongoCollection)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}
