package ai

import (
	"context"
	"fmt"

	"resumeready/internal/config"
	"resumeready/internal/errors"
)

// Client is one analysis module's model access: the provider for its
// configured vendor behind its own circuit breaker.
type Client struct {
	completer Completer
	breaker   *CircuitBreaker
	module    string
	settings  config.ModuleAIConfig
}

var _ Completer = (*Client)(nil)

// NewClient creates the model client for module from its resolved settings
func NewClient(module string, cfg config.ModuleAIConfig, logger *errors.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeConfiguration,
			fmt.Sprintf("no API key configured for %s provider", cfg.Provider), nil).WithModule(module)
	}

	logger.Debug("Initializing AI client",
		"module", module,
		"provider", cfg.Provider,
		"model", cfg.Model,
		"circuit_breaker", cfg.CircuitBreaker.Enabled)

	var provider Completer
	switch cfg.Provider {
	case config.ProviderGemini:
		gemini, err := NewGeminiProvider(cfg, logger)
		if err != nil {
			return nil, err
		}
		provider = gemini
	case config.ProviderAnthropic:
		provider = NewAnthropicProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil).WithModule(module)
	}

	return NewClientWith(module, cfg, provider, NewCircuitBreaker(module, cfg.CircuitBreaker, logger)), nil
}

// NewClientWith assembles a client around an existing completer
func NewClientWith(module string, cfg config.ModuleAIConfig, completer Completer, breaker *CircuitBreaker) *Client {
	return &Client{
		completer: WithCircuitBreaker(completer, breaker),
		breaker:   breaker,
		module:    module,
		settings:  cfg,
	}
}

// Complete fills unset request fields from the module settings and calls the
// provider.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	if req.Model == "" {
		req.Model = c.settings.Model
	}
	if req.Temperature == 0 && c.settings.Temperature != nil {
		req.Temperature = *c.settings.Temperature
	}
	if req.MaxTokens == 0 && c.settings.MaxTokens != nil {
		req.MaxTokens = *c.settings.MaxTokens
	}
	if req.Operation == "" {
		req.Operation = c.module
	}
	return c.completer.Complete(ctx, req)
}

func (c *Client) Provider() string {
	return c.completer.Provider()
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.settings.Model
}

// Stats reports the breaker state for health and stats endpoints
func (c *Client) Stats() map[string]any {
	return map[string]any{
		"module":          c.module,
		"provider":        c.Provider(),
		"model":           c.settings.Model,
		"circuit_breaker": c.breaker.Stats(),
		"healthy":         c.breaker.IsHealthy(),
	}
}
