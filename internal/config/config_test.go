package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Claui-API/Banking-Intelligence-API-sub003/internal/common"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.False(t, cfg.OracleEnabled())
	assert.Equal(t, 30*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, time.Hour, cfg.Oracle.CacheTTL)
	assert.Equal(t, 400, cfg.Oracle.MaxTokens)
	assert.InDelta(t, 0.3, *cfg.LLM().Temperature, 1e-9)
	assert.Equal(t, "Financial Intelligence Report", cfg.Report.Title)
	assert.Equal(t, "30d", cfg.Report.Timeframe)
	assert.Equal(t, 4, cfg.Report.MaxConcurrency)
	assert.False(t, cfg.Archive.Enabled)
	assert.False(t, strings.HasPrefix(cfg.Archive.Path, "~"))
	assert.Equal(t, "sandbox", cfg.Plaid.Environment)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
oracle:
  provider: Anthropic
  model: claude-test
  api_key: secret
  timeout: 5s
  cache_ttl: 0s
  temperature: 0
report:
  detailed: true
  max_concurrency: 2
archive:
  enabled: true
  path: /tmp/intel.db
`), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "anthropic", cfg.Oracle.Provider)
	assert.True(t, cfg.OracleEnabled())
	assert.True(t, cfg.Report.Detailed)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "/tmp/intel.db", cfg.Archive.Path)

	llmCfg := cfg.LLM()
	assert.Equal(t, "anthropic", llmCfg.Provider)
	assert.Equal(t, "claude-test", llmCfg.Model)
	assert.Equal(t, "secret", llmCfg.APIKey)
	assert.Equal(t, 5*time.Second, llmCfg.Timeout)
	assert.Zero(t, llmCfg.CacheTTL)
	require.NotNil(t, llmCfg.Temperature)
	assert.Zero(t, *llmCfg.Temperature)

	engine := cfg.Engine()
	assert.Equal(t, 2, engine.MaxConcurrency)
	assert.Equal(t, 5*time.Second, engine.OracleTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("INTEL_ORACLE_PROVIDER", "gemini")
	t.Setenv("INTEL_PLAID_ACCESS_TOKEN", "access-sandbox-123")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Oracle.Provider)
	assert.Equal(t, "access-sandbox-123", cfg.PlaidSource().AccessToken)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{key: "logging.level", value: "loud"},
		{key: "logging.format", value: "xml"},
		{key: "oracle.provider", value: "cohere"},
		{key: "report.format", value: "docx"},
		{key: "report.max_concurrency", value: 0},
		{key: "oracle.timeout", value: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}
