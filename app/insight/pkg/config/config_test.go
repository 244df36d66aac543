package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/xinhua_insight/app/insight/pkg/model"
)

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  target_url: https://example.com/
llm:
  provider: deepseek
  api_key: sk-test
  model: deepseek-chat
proxies:
  - https://relay.example/?u=${url}
fetch:
  timeout: 5s
storage:
  driver: memory
log:
  level: debug
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/", cfg.Source.TargetURL)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Empty(t, cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)

	seed := cfg.SeedAPIConfig()
	require.NotNil(t, seed)
	assert.Equal(t, model.ProviderDeepSeek, seed.Provider)
	assert.Equal(t, "deepseek-chat", seed.ModelID)
	assert.Equal(t, []string{"https://relay.example/?u=${url}"}, seed.CustomProxies)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("INSIGHT_API_KEY", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTargetURL, cfg.Source.TargetURL)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, defaultSQLitePath, cfg.Storage.Path)
	assert.Equal(t, defaultFetchTimeout, cfg.Fetch.Timeout)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("INSIGHT_API_KEY", "sk-env")
	t.Setenv("INSIGHT_PROVIDER", "ollama")
	t.Setenv("INSIGHT_RPM", "30")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Concurrency.RPM)
	assert.Equal(t, 1, cfg.Concurrency.QPS)
	seed := cfg.SeedAPIConfig()
	require.NotNil(t, seed)
	assert.Equal(t, model.ProviderOllama, seed.Provider)
	assert.Equal(t, "sk-env", seed.APIKey)
}

func TestSeedAPIConfig_NoKey(t *testing.T) {
	cfg := Config{LLM: LLMConfig{Provider: "openai"}}
	assert.Nil(t, cfg.SeedAPIConfig())
}
