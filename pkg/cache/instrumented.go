package cache

import (
	"context"
	"time"

	"github.com/matzehuels/wordcloud/pkg/observability"
)

// Instrumented reports hits, misses and writes of c to the registered
// [observability.CacheHooks].
func Instrumented(c Cache) Cache { return instrumented{c} }

type instrumented struct{ Cache }

func (i instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := i.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, key)
		} else {
			observability.Cache().OnCacheMiss(ctx, key)
		}
	}
	return data, hit, err
}

func (i instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := i.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return err
}
