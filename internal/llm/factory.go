package llm

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider creates an undecorated client for cfg.Provider.
func NewProvider(ctx context.Context, cfg Config) (Client, error) {
	cfg = cfg.withDefaults()

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	case "gemini":
		return newGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// NewClient creates a provider client wrapped with rate limiting and, when
// cfg.CacheTTL is positive, response caching.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := Client(newRateLimitedClient(provider, cfg.RateLimit))

	if cfg.CacheTTL > 0 {
		cached, err := newCachedClient(client, cfg.CacheTTL)
		if err != nil {
			closeClient(client)
			return nil, fmt.Errorf("failed to create response cache: %w", err)
		}
		client = cached
	}

	return client, nil
}

// closeClient releases background resources held by c, if any.
func closeClient(c Client) {
	if closer, ok := c.(Closer); ok {
		_ = closer.Close()
	}
}
