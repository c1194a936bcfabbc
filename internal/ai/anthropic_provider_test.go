package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumeready/internal/config"
	"resumeready/internal/errors"
	"resumeready/internal/retry"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropicTestProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	timeout := 5 * time.Second
	cfg := config.ModuleAIConfig{Provider: config.ProviderAnthropic, APIKey: "test-key", Timeout: &timeout}
	return NewAnthropicProvider(cfg, errors.Discard(), option.WithBaseURL(srv.URL+"/"))
}

func TestAnthropicProviderComplete(t *testing.T) {
	var captured map[string]any
	provider := newAnthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-7-sonnet-latest",
			"content": [{"type": "text", "text": "{\"score\": 72}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 120, "output_tokens": 8}
		}`))
	})

	out, err := provider.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "system",
		UserPrompt:   "rate this",
		Model:        "claude-3-7-sonnet-latest",
		Temperature:  0.3,
		MaxTokens:    512,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"score": 72}`, out.Text)
	require.NotNil(t, out.Usage)
	assert.Equal(t, int64(128), out.Usage.TotalTokens)

	assert.Equal(t, "claude-3-7-sonnet-latest", captured["model"])
	assert.EqualValues(t, 512, captured["max_tokens"])
	assert.NotEmpty(t, captured["system"])
}

func TestAnthropicProviderErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		header    map[string]string
		errorType string
		transient bool
	}{
		{name: "overloaded", status: 529, errorType: "overloaded_error", transient: true},
		{name: "rate limited", status: http.StatusTooManyRequests, header: map[string]string{"Retry-After": "2"}, errorType: "rate_limit_error", transient: true},
		{name: "server error", status: http.StatusInternalServerError, errorType: "api_error", transient: true},
		{name: "bad key", status: http.StatusUnauthorized, errorType: "authentication_error", transient: false},
		{name: "bad request", status: http.StatusBadRequest, errorType: "invalid_request_error", transient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			provider := newAnthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"` + tt.errorType + `","message":"boom"}}`))
			})

			_, err := provider.Complete(context.Background(), CompletionRequest{UserPrompt: "x", Model: "m"})
			require.Error(t, err)
			assert.Equal(t, 1, calls, "SDK retries are disabled")

			var statusErr *retry.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.errorType, statusErr.ErrorType)
			assert.Equal(t, tt.transient, retry.IsTransientError(err, retry.DefaultRetryableStatusCodes))

			if tt.status == http.StatusTooManyRequests {
				delay, ok := retry.RetryAfter(err)
				require.True(t, ok)
				assert.Equal(t, 2*time.Second, delay)
			}
		})
	}
}
