package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"resumeready/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "json number", input: json.Number("7"), expected: 7},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid json number", input: json.Number("7.5"), expectError: true},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "secret/data/test")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExtractSecretVersion(t *testing.T) {
	version, err := extractSecretVersion(map[string]any{
		"metadata": map[string]any{"version": json.Number("3")},
	}, "p")
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	_, err = extractSecretVersion(map[string]any{}, "p")
	assert.ErrorContains(t, err, "missing 'metadata' field")

	_, err = extractSecretVersion(map[string]any{"metadata": map[string]any{}}, "p")
	assert.ErrorContains(t, err, "missing 'version' field")
}

func TestResolveVaultToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token\n"), 0600))

	tests := []struct {
		name        string
		config      VaultConfig
		expected    string
		expectError bool
	}{
		{name: "token from config", config: VaultConfig{Token: "direct-token"}, expected: "direct-token"},
		{name: "config token wins over file", config: VaultConfig{Token: "direct-token", TokenFile: tokenFile}, expected: "direct-token"},
		{name: "token from file", config: VaultConfig{TokenFile: tokenFile}, expected: "file-token"},
		{name: "missing file", config: VaultConfig{TokenFile: filepath.Join(t.TempDir(), "nope")}, expectError: true},
		{name: "no token", config: VaultConfig{}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := resolveVaultToken(tt.config, errors.Discard())
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}

func TestApplyProviderKeyToConfig(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			Provider: ProviderGemini,
			Impact:   ModuleAIConfig{Provider: ProviderAnthropic},
			Company:  ModuleAIConfig{Provider: ProviderAnthropic, APIKey: "existing"},
		},
	}

	applyProviderKeyToConfig(config, ProviderAnthropic, "anthropic-key")
	assert.Empty(t, config.AI.APIKey, "global provider is gemini")
	assert.Equal(t, "anthropic-key", config.AI.Impact.APIKey)
	assert.Equal(t, "existing", config.AI.Company.APIKey, "module keys are not overwritten")

	applyProviderKeyToConfig(config, ProviderGemini, "gemini-key")
	assert.Equal(t, "gemini-key", config.AI.APIKey)
	assert.Empty(t, config.AI.Uniqueness.APIKey, "modules inherit the global key at resolution time")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****wxyz", maskSecret("abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(config, errors.Discard()))
	assert.Empty(t, config.AI.APIKey)
}

func newFakeVault(t *testing.T, secrets map[string]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/sys/health" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"initialized": true, "sealed": false, "standby": false, "version": "1.15.0",
			})
			return
		}
		if r.Header.Get("X-Vault-Token") != "test-token" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		data, ok := secrets[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 2},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestApplyVaultSecrets(t *testing.T) {
	srv := newFakeVault(t, map[string]map[string]any{
		"/v1/secret/data/gemini":    {"api_key": "gemini-from-vault"},
		"/v1/secret/data/anthropic": {"api_key": "anthropic-from-vault"},
	})

	config := &Config{
		AI: AIConfig{
			Provider: ProviderGemini,
			APIKey:   "from-env",
			Context:  ModuleAIConfig{Provider: ProviderAnthropic},
		},
		Vault: VaultConfig{
			Enabled: true,
			Address: srv.URL,
			Token:   "test-token",
			Secrets: VaultSecrets{
				GeminiKey:    "secret/data/gemini",
				AnthropicKey: "secret/data/anthropic",
			},
		},
	}

	require.NoError(t, ApplyVaultSecrets(config, errors.Discard()))
	assert.Equal(t, "gemini-from-vault", config.AI.APIKey, "vault wins over env")
	assert.Equal(t, "anthropic-from-vault", config.AI.Context.APIKey)
}

func TestGetSecretV2(t *testing.T) {
	srv := newFakeVault(t, map[string]map[string]any{
		"/v1/secret/data/app": {"api_key": "k", "count": 3},
	})

	client, err := NewVaultClient(VaultConfig{Enabled: true, Address: srv.URL, Token: "test-token"}, errors.Discard())
	require.NoError(t, err)

	secret, err := client.GetSecretV2("secret/data/app")
	require.NoError(t, err)
	assert.Equal(t, int64(2), secret.Version)
	assert.Equal(t, "k", secret.Data["api_key"])

	_, err = client.GetStringSecret("secret/data/app", "count")
	assert.ErrorContains(t, err, "is not a string")

	_, err = client.GetStringSecret("secret/data/app", "missing")
	assert.ErrorContains(t, err, "not found in secret")

	_, err = client.GetSecretV2("secret/data/absent")
	assert.Error(t, err)

	var nilClient *VaultClient
	_, err = nilClient.GetSecretV2("secret/data/app")
	assert.ErrorContains(t, err, "not initialized")
}

func TestApplyVaultSecretsMissingKey(t *testing.T) {
	srv := newFakeVault(t, map[string]map[string]any{
		"/v1/secret/data/gemini": {"token": "wrong-field"},
	})

	config := &Config{
		AI: AIConfig{Provider: ProviderGemini},
		Vault: VaultConfig{
			Enabled: true,
			Address: srv.URL,
			Token:   "test-token",
			Secrets: VaultSecrets{GeminiKey: "secret/data/gemini"},
		},
	}

	err := ApplyVaultSecrets(config, errors.Discard())
	assert.ErrorContains(t, err, "failed to load gemini API key")
}
