package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Client generates prose for a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Closer is implemented by clients that hold background resources.
type Closer interface {
	Close() error
}

// ErrEmptyResponse is returned when a provider answers with no text.
var ErrEmptyResponse = errors.New("empty response from provider")

// Config selects and tunes a provider.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	BaseURL    string
	SystemText string
	Timeout    time.Duration
	CacheTTL   time.Duration
	RateLimit  int
	// Temperature is nil when unset; zero is a valid deterministic setting.
	Temperature *float64
	MaxTokens   int
}

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 400
	defaultTimeout     = 30 * time.Second
	defaultSystemText  = "You are a financial analyst writing short, factual report sections for a bank customer. " +
		"Use only the figures provided. Respond with plain prose, no markdown."
)

func (c Config) withDefaults() Config {
	if c.Temperature == nil {
		t := defaultTemperature
		c.Temperature = &t
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.SystemText == "" {
		c.SystemText = defaultSystemText
	}
	return c
}

// Float returns a pointer to v, for Config.Temperature.
func Float(v float64) *float64 {
	return &v
}

// cleanResponse trims whitespace and strips a surrounding markdown code fence.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	if idx := strings.Index(content, "\n"); idx != -1 {
		content = content[idx+1:]
	} else {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
