package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/treemap/pkg/observability"
)

// Instrument wraps c so every lookup and write is reported to the
// registered observability cache hooks.
func Instrument(c Cache) Cache {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *instrumented) Clear(ctx context.Context) (int, error) {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return 0, nil
}

// KeyType returns the kind of value a key addresses ("frame",
// "artifact"), ignoring any scope prefix.
func KeyType(key string) string {
	for _, p := range []string{PrefixArtifact, PrefixFrame} {
		if strings.HasPrefix(key, p+":") || strings.Contains(key, ":"+p+":") {
			return p
		}
	}
	return "other"
}
