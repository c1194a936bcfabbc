package ai

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// traceCompletion wraps a provider call in a span carrying model settings
// and token counts.
func traceCompletion(
	ctx context.Context,
	provider string,
	req CompletionRequest,
	fn func(context.Context) (Completion, error),
	spanAttributes ...attribute.KeyValue,
) (Completion, error) {
	operation := req.Operation
	if operation == "" {
		operation = "complete"
	}

	tracer := otel.Tracer("resumeready.ai." + provider)
	ctx, span := tracer.Start(ctx, provider+"."+operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", provider),
		attribute.Float64("ai.temperature", float64(req.Temperature)),
		attribute.Int("ai.max_tokens", req.MaxTokens),
		attribute.Int("input.prompt_length", len(req.UserPrompt)),
	)
	span.SetAttributes(spanAttributes...)

	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("success", false))
		return out, err
	}

	if out.Usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", out.Usage.InputTokens),
			attribute.Int64("ai.tokens.output", out.Usage.OutputTokens),
			attribute.Int64("ai.tokens.total", out.Usage.TotalTokens),
		)
	}
	span.SetAttributes(
		attribute.Int("output.length", len(out.Text)),
		attribute.Bool("success", true),
	)
	return out, nil
}
