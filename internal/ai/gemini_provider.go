package ai

import (
	"context"
	"errors"
	"net/http"

	"resumeready/internal/config"
	appErrors "resumeready/internal/errors"
	"resumeready/internal/retry"

	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// GeminiProvider implements Completer for Google Gemini
type GeminiProvider struct {
	client *genai.Client
	logger *appErrors.Logger
}

var _ Completer = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini client for one module's settings
func NewGeminiProvider(cfg config.ModuleAIConfig, logger *appErrors.Logger) (*GeminiProvider, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout != nil && *cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: *cfg.Timeout}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{client: client, logger: logger}, nil
}

func (g *GeminiProvider) Provider() string {
	return config.ProviderGemini
}

// Complete sends one prompt and returns the raw response text
func (g *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	return traceCompletion(ctx, g.Provider(), req, func(ctx context.Context) (Completion, error) {
		genaiConfig := &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		}
		if req.Temperature > 0 {
			temperature := req.Temperature
			genaiConfig.Temperature = &temperature
		}
		if req.MaxTokens > 0 {
			genaiConfig.MaxOutputTokens = int32(req.MaxTokens)
		}
		if req.SystemPrompt != "" {
			genaiConfig.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
		}

		result, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.UserPrompt), genaiConfig)
		if err != nil {
			g.logger.Debug("Gemini call failed", "model", req.Model, "operation", req.Operation, "error", err.Error())
			return Completion{}, mapGeminiError(err)
		}

		return Completion{
			Text:  result.Text(),
			Usage: extractGeminiUsage(result),
		}, nil
	}, attribute.String("ai.model", req.Model))
}

// mapGeminiError converts genai API failures to the status shape the retry
// classifier understands. Transport errors pass through unchanged.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &retry.StatusError{
			StatusCode: apiErr.Code,
			ErrorType:  apiErr.Status,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return err
}

// extractGeminiUsage extracts token usage information from Gemini API response
func extractGeminiUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
