package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumeready/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "RESUMEREADY_AI_APIKEY", "RESUMEREADY_AI_PROVIDER"} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := LoadConfig(writeConfig(t, "app:\n  logLevel: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, 170*time.Second, cfg.AI.TimeBudget)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Equal(t, retry.DefaultMaxRetries, cfg.Retry.MaxRetries)
	assert.Equal(t, retry.DefaultInitialDelay, cfg.Retry.InitialDelay)
	assert.Equal(t, retry.DefaultMaxDelay, cfg.Retry.MaxDelay)
	assert.Equal(t, retry.DefaultRetryableStatusCodes, cfg.Retry.RetryableStatusCodes)
	assert.True(t, cfg.Retry.RespectRetryAfterHeader)
	assert.Empty(t, cfg.AI.APIKey, "a missing key is not a load error")
	assert.True(t, cfg.AI.Company.CircuitBreaker.Enabled)
}

func TestLoadConfigFromFile(t *testing.T) {
	clearKeyEnv(t)

	promptFile := filepath.Join(t.TempDir(), "impact.md")
	require.NoError(t, os.WriteFile(promptFile, []byte("Custom impact prompt"), 0600))

	cfg, err := LoadConfig(writeConfig(t, `
ai:
  provider: anthropic
  apiKey: file-key
  timeBudget: 90s
  impact:
    systemPromptFile: `+promptFile+`
    maxTokens: 2048
  softSkills:
    provider: gemini
    apiKey: soft-key
retry:
  maxRetries: 4
  initialDelay: 500ms
server:
  port: "9000"
`))
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, 4, cfg.Retry.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.InitialDelay)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "Custom impact prompt", cfg.AI.Impact.SystemPrompt)

	impact, err := cfg.ModuleConfig(ModuleImpact)
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, impact.Provider)
	assert.Equal(t, "file-key", impact.APIKey)
	require.NotNil(t, impact.MaxTokens)
	assert.Equal(t, 2048, *impact.MaxTokens)
	require.NotNil(t, impact.TimeBudget)
	assert.Equal(t, 90*time.Second, *impact.TimeBudget)

	soft, err := cfg.ModuleConfig(ModuleSoftSkills)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, soft.Provider)
	assert.Equal(t, "soft-key", soft.APIKey)
	assert.Equal(t, defaultModels[ProviderGemini], soft.Model, "provider switch picks that provider's default model")
}

func TestLoadConfigEnvironment(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("RESUMEREADY_SERVER_PORT", "7070")
	t.Setenv("GEMINI_API_KEY", "env-gemini")

	cfg, err := LoadConfig(writeConfig(t, "store:\n  path: \":memory:\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "env-gemini", cfg.AI.APIKey)
	assert.Equal(t, ":memory:", cfg.Store.Path)
}

func TestLoadConfigMissingPromptFile(t *testing.T) {
	clearKeyEnv(t)

	_, err := LoadConfig(writeConfig(t, "ai:\n  company:\n    systemPromptFile: /nonexistent/company.md\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company prompt file not found")
}

func TestLoadConfigInvalidFile(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "ai: [unterminated"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func validConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    ProviderGemini,
			Model:       "gemini-2.0-flash",
			Timeout:     time.Minute,
			Temperature: 0.2,
			MaxTokens:   1024,
			TimeBudget:  170 * time.Second,
		},
		Retry:  retry.DefaultConfig(),
		Server: ServerConfig{Port: "8080"},
		App:    AppConfig{DefaultFormat: "json", SupportedFormats: []string{"json", "yaml"}},
	}
}

func TestValidate(t *testing.T) {
	hot := float32(3)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "openai" }, wantErr: "unsupported AI provider"},
		{name: "unknown module provider", mutate: func(c *Config) { c.AI.Context.Provider = "mistral" }, wantErr: "unsupported AI provider for context"},
		{name: "module temperature", mutate: func(c *Config) { c.AI.Impact.Temperature = &hot }, wantErr: "impact temperature"},
		{name: "zero timeout", mutate: func(c *Config) { c.AI.Timeout = 0 }, wantErr: "AI timeout"},
		{name: "negative retries", mutate: func(c *Config) { c.Retry.MaxRetries = -1 }, wantErr: "maxRetries"},
		{name: "jitter", mutate: func(c *Config) { c.Retry.JitterFactor = 1.5 }, wantErr: "jitterFactor"},
		{name: "delays inverted", mutate: func(c *Config) { c.Retry.MaxDelay = c.Retry.InitialDelay / 2 }, wantErr: "maxDelay"},
		{name: "no port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "server port"},
		{name: "bad format", mutate: func(c *Config) { c.App.DefaultFormat = "xml" }, wantErr: "invalid default format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestModuleConfig(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "env-anthropic")

	cfg := validConfig()
	cfg.AI.APIKey = "global-key"
	budget := 30 * time.Second
	cfg.AI.Uniqueness = ModuleAIConfig{TimeBudget: &budget}
	cfg.AI.Company = ModuleAIConfig{Provider: ProviderAnthropic, Model: "claude-custom"}

	uniq, err := cfg.ModuleConfig(ModuleUniqueness)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, uniq.Provider)
	assert.Equal(t, "gemini-2.0-flash", uniq.Model)
	assert.Equal(t, "global-key", uniq.APIKey)
	assert.Equal(t, 30*time.Second, *uniq.TimeBudget)
	assert.Equal(t, time.Minute, *uniq.Timeout)
	assert.Equal(t, 1024, *uniq.MaxTokens)
	assert.InDelta(t, 0.2, *uniq.Temperature, 1e-6)

	company, err := cfg.ModuleConfig(ModuleCompany)
	require.NoError(t, err)
	assert.Equal(t, "claude-custom", company.Model)
	assert.Equal(t, "env-anthropic", company.APIKey, "the gemini key is never handed to another provider")
	assert.Equal(t, 170*time.Second, *company.TimeBudget)

	_, err = cfg.ModuleConfig("tone")
	assert.ErrorContains(t, err, "unknown analysis module")
}

func TestModuleConfigDoesNotMutate(t *testing.T) {
	cfg := validConfig()
	_, err := cfg.ModuleConfig(ModuleContext)
	require.NoError(t, err)
	assert.Nil(t, cfg.AI.Context.Timeout)
	assert.Empty(t, cfg.AI.Context.Provider)
}
