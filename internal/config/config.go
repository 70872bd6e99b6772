package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/llm"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/report"
	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/source"
)

// EnvPrefix prefixes every environment variable override, e.g. INTEL_ORACLE_API_KEY.
const EnvPrefix = "INTEL"

// Config is the complete application configuration.
type Config struct {
	Logging   LoggingConfig
	Oracle    OracleConfig
	Report    ReportConfig
	Archive   ArchiveConfig
	Plaid     PlaidConfig
	SimpleFIN SimpleFINConfig
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// OracleConfig selects the text generation provider.
type OracleConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	CacheTTL    time.Duration
	RateLimit   int
	MaxTokens   int
	Temperature float64
}

// ReportConfig tunes report generation.
type ReportConfig struct {
	Title           string
	Timeframe       string
	Format          string
	MaxConcurrency  int
	BulkConcurrency int
	Detailed        bool
}

// ArchiveConfig locates the report archive.
type ArchiveConfig struct {
	Path    string
	Enabled bool
}

// PlaidConfig holds Plaid credentials.
type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string
	AccessToken string
}

// SimpleFINConfig holds the SimpleFIN access URL.
type SimpleFINConfig struct {
	AccessURL string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("oracle.provider", "")
	v.SetDefault("oracle.timeout", 30*time.Second)
	v.SetDefault("oracle.rate_limit", 60)
	v.SetDefault("oracle.cache_ttl", time.Hour)
	v.SetDefault("oracle.max_tokens", 400)
	v.SetDefault("oracle.temperature", 0.3)

	v.SetDefault("report.title", "Financial Intelligence Report")
	v.SetDefault("report.timeframe", "30d")
	v.SetDefault("report.format", report.FormatJSON)
	v.SetDefault("report.max_concurrency", 4)
	v.SetDefault("report.bulk_concurrency", 4)
	v.SetDefault("report.detailed", false)

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.path", "~/.local/share/intel/archive.db")

	v.SetDefault("plaid.environment", "sandbox")
}

// Load reads the configuration from v, applying defaults and expanding paths.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Oracle: OracleConfig{
			Provider:    strings.ToLower(strings.TrimSpace(v.GetString("oracle.provider"))),
			Model:       v.GetString("oracle.model"),
			APIKey:      v.GetString("oracle.api_key"),
			BaseURL:     v.GetString("oracle.base_url"),
			Timeout:     v.GetDuration("oracle.timeout"),
			CacheTTL:    v.GetDuration("oracle.cache_ttl"),
			RateLimit:   v.GetInt("oracle.rate_limit"),
			MaxTokens:   v.GetInt("oracle.max_tokens"),
			Temperature: v.GetFloat64("oracle.temperature"),
		},
		Report: ReportConfig{
			Title:           v.GetString("report.title"),
			Timeframe:       v.GetString("report.timeframe"),
			Format:          v.GetString("report.format"),
			MaxConcurrency:  v.GetInt("report.max_concurrency"),
			BulkConcurrency: v.GetInt("report.bulk_concurrency"),
			Detailed:        v.GetBool("report.detailed"),
		},
		Archive: ArchiveConfig{
			Enabled: v.GetBool("archive.enabled"),
			Path:    ExpandPath(v.GetString("archive.path")),
		},
		Plaid: PlaidConfig{
			ClientID:    v.GetString("plaid.client_id"),
			Secret:      v.GetString("plaid.secret"),
			Environment: v.GetString("plaid.environment"),
			AccessToken: v.GetString("plaid.access_token"),
		},
		SimpleFIN: SimpleFINConfig{
			AccessURL: v.GetString("simplefin.access_url"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}

	switch c.Oracle.Provider {
	case "", "openai", "anthropic", "gemini":
	default:
		return fmt.Errorf("%w: oracle provider %q", common.ErrInvalidConfig, c.Oracle.Provider)
	}
	if c.Oracle.Timeout < 0 || c.Oracle.CacheTTL < 0 {
		return fmt.Errorf("%w: oracle durations must not be negative", common.ErrInvalidConfig)
	}

	switch c.Report.Format {
	case report.FormatJSON, report.FormatHTML, report.FormatPDF, "text":
	default:
		return fmt.Errorf("%w: report format %q", common.ErrInvalidConfig, c.Report.Format)
	}
	if c.Report.MaxConcurrency < 1 || c.Report.BulkConcurrency < 1 {
		return fmt.Errorf("%w: report concurrency must be at least 1", common.ErrInvalidConfig)
	}
	return nil
}

// OracleEnabled reports whether a provider is configured.
func (c *Config) OracleEnabled() bool {
	return c.Oracle.Provider != ""
}

// LLM returns the client configuration for the oracle.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		Provider:    c.Oracle.Provider,
		APIKey:      c.Oracle.APIKey,
		Model:       c.Oracle.Model,
		BaseURL:     c.Oracle.BaseURL,
		Timeout:     c.Oracle.Timeout,
		CacheTTL:    c.Oracle.CacheTTL,
		RateLimit:   c.Oracle.RateLimit,
		MaxTokens:   c.Oracle.MaxTokens,
		Temperature: llm.Float(c.Oracle.Temperature),
	}
}

// Engine returns the report engine configuration.
func (c *Config) Engine() *report.Config {
	return &report.Config{
		Title:           c.Report.Title,
		OracleTimeout:   c.Oracle.Timeout,
		MaxConcurrency:  c.Report.MaxConcurrency,
		BulkConcurrency: c.Report.BulkConcurrency,
	}
}

// PlaidSource returns the Plaid source configuration.
func (c *Config) PlaidSource() source.PlaidConfig {
	return source.PlaidConfig{
		ClientID:    c.Plaid.ClientID,
		Secret:      c.Plaid.Secret,
		Environment: c.Plaid.Environment,
		AccessToken: c.Plaid.AccessToken,
	}
}
