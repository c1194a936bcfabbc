package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"resumeready/internal/config"
	appErrors "resumeready/internal/errors"
	"resumeready/internal/retry"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
)

// AnthropicProvider implements Completer for Anthropic's Messages API
type AnthropicProvider struct {
	client anthropic.Client
	logger *appErrors.Logger
}

var _ Completer = (*AnthropicProvider)(nil)

// NewAnthropicProvider creates a Claude client. SDK retries are disabled;
// retry.Do owns the retry policy.
func NewAnthropicProvider(cfg config.ModuleAIConfig, logger *appErrors.Logger, opts ...option.RequestOption) *AnthropicProvider {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout != nil && *cfg.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(*cfg.Timeout))
	}
	clientOpts = append(clientOpts, opts...)

	return &AnthropicProvider{
		client: anthropic.NewClient(clientOpts...),
		logger: logger,
	}
}

func (a *AnthropicProvider) Provider() string {
	return config.ProviderAnthropic
}

// Complete sends one prompt and concatenates the text blocks of the reply
func (a *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	return traceCompletion(ctx, a.Provider(), req, func(ctx context.Context) (Completion, error) {
		maxTokens := int64(req.MaxTokens)
		if maxTokens <= 0 {
			maxTokens = 4096
		}

		params := anthropic.MessageNewParams{
			Model:       anthropic.Model(req.Model),
			MaxTokens:   maxTokens,
			Temperature: anthropic.Float(float64(req.Temperature)),
			Messages: []anthropic.MessageParam{{
				Content: []anthropic.ContentBlockParamUnion{{
					OfText: &anthropic.TextBlockParam{Text: req.UserPrompt},
				}},
				Role: anthropic.MessageParamRoleUser,
			}},
		}
		if req.SystemPrompt != "" {
			params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
		}

		response, err := a.client.Messages.New(ctx, params)
		if err != nil {
			a.logger.Debug("Anthropic call failed", "model", req.Model, "operation", req.Operation, "error", err.Error())
			return Completion{}, mapAnthropicError(err)
		}

		var text strings.Builder
		for _, block := range response.Content {
			if block.Type == "text" {
				text.WriteString(block.AsText().Text)
			}
		}

		return Completion{
			Text: text.String(),
			Usage: &TokenUsage{
				InputTokens:  response.Usage.InputTokens,
				OutputTokens: response.Usage.OutputTokens,
				TotalTokens:  response.Usage.InputTokens + response.Usage.OutputTokens,
			},
		}, nil
	}, attribute.String("ai.model", req.Model))
}

// anthropicErrorTypes maps documented Messages API statuses to their error
// type tags.
var anthropicErrorTypes = map[int]string{
	http.StatusBadRequest:            "invalid_request_error",
	http.StatusUnauthorized:          "authentication_error",
	http.StatusForbidden:             "permission_error",
	http.StatusNotFound:              "not_found_error",
	http.StatusRequestEntityTooLarge: "request_too_large",
	http.StatusTooManyRequests:       "rate_limit_error",
	http.StatusInternalServerError:   "api_error",
	529:                              "overloaded_error",
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	statusErr := &retry.StatusError{
		StatusCode: apiErr.StatusCode,
		ErrorType:  anthropicErrorTypes[apiErr.StatusCode],
		Err:        err,
	}
	if apiErr.Response != nil {
		statusErr.Header = apiErr.Response.Header
	}
	return statusErr
}
