package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	cacheNumCounters = 1e5
	cacheMaxCost     = 8 << 20
	cacheBufferItems = 64
)

// cachedClient memoizes responses by prompt hash. Identical prompts within
// the TTL are answered without calling the provider.
type cachedClient struct {
	next  Client
	cache *ristretto.Cache
	ttl   time.Duration
}

func newCachedClient(next Client, ttl time.Duration) (*cachedClient, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cacheNumCounters,
		MaxCost:     cacheMaxCost,
		BufferItems: cacheBufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &cachedClient{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}, nil
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// Generate returns a cached response when present, otherwise delegates and
// caches successful responses.
func (c *cachedClient) Generate(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)

	if v, ok := c.cache.Get(key); ok {
		if text, ok := v.(string); ok {
			slog.Debug("LLM cache hit", "key", key[:12])
			return text, nil
		}
	}

	text, err := c.next.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	c.cache.SetWithTTL(key, text, int64(len(text)), c.ttl)
	c.cache.Wait()

	return text, nil
}

// Close releases the cache and closes the wrapped client.
func (c *cachedClient) Close() error {
	c.cache.Close()
	closeClient(c.next)
	return nil
}
