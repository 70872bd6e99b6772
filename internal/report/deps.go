package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Deps contains the collaborators of the report engine.
type Deps struct {
	// Oracle narrates sections. When nil every section uses fallback prose.
	Oracle Oracle
	// PromptBuilder renders section prompts. Defaults to the embedded templates.
	PromptBuilder PromptBuilder
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// NewID returns a fresh report identifier. Defaults to a random UUID.
	NewID func() string
	// Logger receives oracle failures and progress. Defaults to slog.Default().
	Logger *slog.Logger
}

// Config holds tuning options for the engine.
type Config struct {
	// Title is the report title.
	Title string
	// OracleTimeout bounds each section's oracle call.
	OracleTimeout time.Duration
	// MaxConcurrency bounds concurrent oracle calls within one report.
	MaxConcurrency int
	// BulkConcurrency bounds concurrent reports in GenerateBulk.
	BulkConcurrency int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Title:           "Financial Intelligence Report",
		OracleTimeout:   30 * time.Second,
		MaxConcurrency:  4,
		BulkConcurrency: 4,
	}
}

// Engine generates reports. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	deps   Deps
	config Config
}

// NewEngine creates an engine with the default configuration.
func NewEngine(deps Deps) (*Engine, error) {
	return NewEngineWithConfig(deps, nil)
}

// NewEngineWithConfig creates an engine with custom configuration. Zero
// fields in config take their defaults.
func NewEngineWithConfig(deps Deps, config *Config) (*Engine, error) {
	cfg := *DefaultConfig()
	if config != nil {
		if config.Title != "" {
			cfg.Title = config.Title
		}
		if config.OracleTimeout > 0 {
			cfg.OracleTimeout = config.OracleTimeout
		}
		if config.MaxConcurrency > 0 {
			cfg.MaxConcurrency = config.MaxConcurrency
		}
		if config.BulkConcurrency > 0 {
			cfg.BulkConcurrency = config.BulkConcurrency
		}
	}

	if deps.PromptBuilder == nil {
		pb, err := NewTemplatePromptBuilder()
		if err != nil {
			return nil, fmt.Errorf("invalid dependencies: %w", err)
		}
		deps.PromptBuilder = pb
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = func() string { return uuid.New().String() }
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	deps.Logger = deps.Logger.With("component", "report")

	return &Engine{deps: deps, config: cfg}, nil
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.config
}
