package observability

import (
	"context"
	"fmt"
	"time"

	"resumeready/internal/ai"
	"resumeready/internal/errors"
	"resumeready/internal/retry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Business metric types accepted by RecordBusinessMetric.
const (
	MetricAnalysisRun       = "analysis_run"
	MetricPlanGenerated     = "plan_generated"
	MetricDocumentExtracted = "document_extracted"
)

// Metrics holds all custom metrics for resumeready
type Metrics struct {
	// Analysis module metrics
	ModuleDuration metric.Float64Histogram
	ModuleRuns     metric.Int64Counter
	ModuleFailures metric.Int64Counter
	TokenUsage     metric.Int64Histogram

	// Retry executor metrics
	RetryAttempts metric.Int64Counter
	RetryDelay    metric.Float64Histogram

	// Business metrics
	ReadinessComposite metric.Int64Histogram
	AnalysesRun        metric.Int64Counter
	PlansGenerated     metric.Int64Counter
	DocumentsExtracted metric.Int64Counter

	RateLimitHits metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.ModuleDuration, err = meter.Float64Histogram(
		"resumeready_module_duration_seconds",
		metric.WithDescription("Wall time of one analysis module including retries"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create module duration metric: %w", err)
	}

	if m.ModuleRuns, err = meter.Int64Counter(
		"resumeready_module_runs_total",
		metric.WithDescription("Total number of analysis module runs"),
	); err != nil {
		return nil, fmt.Errorf("failed to create module runs metric: %w", err)
	}

	if m.ModuleFailures, err = meter.Int64Counter(
		"resumeready_module_failures_total",
		metric.WithDescription("Total number of failed analysis module runs by error code"),
	); err != nil {
		return nil, fmt.Errorf("failed to create module failures metric: %w", err)
	}

	if m.TokenUsage, err = meter.Int64Histogram(
		"resumeready_ai_token_usage",
		metric.WithDescription("Token usage for model calls (input, output, total)"),
		metric.WithUnit("{token}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create token usage metric: %w", err)
	}

	if m.RetryAttempts, err = meter.Int64Counter(
		"resumeready_retry_attempts_total",
		metric.WithDescription("Model call attempts by retry decision"),
	); err != nil {
		return nil, fmt.Errorf("failed to create retry attempts metric: %w", err)
	}

	if m.RetryDelay, err = meter.Float64Histogram(
		"resumeready_retry_delay_seconds",
		metric.WithDescription("Backoff delay chosen before a retry"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create retry delay metric: %w", err)
	}

	if m.ReadinessComposite, err = meter.Int64Histogram(
		"resumeready_readiness_composite",
		metric.WithDescription("Recruiter readiness composite scores"),
		metric.WithExplicitBucketBoundaries(20, 40, 55, 70, 85, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create readiness metric: %w", err)
	}

	if m.AnalysesRun, err = meter.Int64Counter(
		"resumeready_analyses_total",
		metric.WithDescription("Total number of pre-analysis runs"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analyses metric: %w", err)
	}

	if m.PlansGenerated, err = meter.Int64Counter(
		"resumeready_plans_generated_total",
		metric.WithDescription("Total number of tailoring plans generated"),
	); err != nil {
		return nil, fmt.Errorf("failed to create plans metric: %w", err)
	}

	if m.DocumentsExtracted, err = meter.Int64Counter(
		"resumeready_documents_extracted_total",
		metric.WithDescription("Total number of documents converted to text"),
	); err != nil {
		return nil, fmt.Errorf("failed to create documents metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumeready_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return m, nil
}

func (om *ObservabilityManager) metricsEnabled() bool {
	return om.fullConfig == nil || om.fullConfig.Observability.Metrics.Enabled
}

// RecordModule records the outcome of one analysis module run.
func (om *ObservabilityManager) RecordModule(ctx context.Context, module string, duration time.Duration, err error) {
	if !om.metricsEnabled() {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("module", module),
		attribute.Bool("success", err == nil),
	)
	om.metrics.ModuleDuration.Record(ctx, duration.Seconds(), attrs)
	om.metrics.ModuleRuns.Add(ctx, 1, attrs)
	if err != nil {
		om.metrics.ModuleFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("module", module),
			attribute.String("error_code", errorCode(err)),
		))
	}
}

// RecordRetry records one retry executor event.
func (om *ObservabilityManager) RecordRetry(ctx context.Context, ev retry.Event) {
	if !om.metricsEnabled() {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("operation", ev.Operation),
		attribute.String("decision", ev.Decision.String()),
	}
	if ev.ErrorCode != "" {
		attrs = append(attrs, attribute.String("error_code", ev.ErrorCode))
	}
	if ev.Reason != "" {
		attrs = append(attrs, attribute.String("reason", ev.Reason))
	}
	om.metrics.RetryAttempts.Add(ctx, 1, metric.WithAttributes(attrs...))
	if ev.WillRetry {
		om.metrics.RetryDelay.Record(ctx, ev.Delay.Seconds(),
			metric.WithAttributes(attribute.String("operation", ev.Operation)))
	}
}

// RecordTokens records the token usage of one model call.
func (om *ObservabilityManager) RecordTokens(ctx context.Context, module, provider string, usage *ai.TokenUsage) {
	if usage == nil || !om.metricsEnabled() {
		return
	}
	tokenTypes := []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	}
	for _, tt := range tokenTypes {
		om.metrics.TokenUsage.Record(ctx, tt.value, metric.WithAttributes(
			attribute.String("module", module),
			attribute.String("provider", provider),
			attribute.String("token_type", tt.tokenType),
		))
	}
}

// RecordReadiness records a computed readiness composite and its label.
func (om *ObservabilityManager) RecordReadiness(ctx context.Context, composite int, label string) {
	if !om.metricsEnabled() {
		return
	}
	om.metrics.ReadinessComposite.Record(ctx, int64(composite),
		metric.WithAttributes(attribute.String("label", label)))
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func (om *ObservabilityManager) RecordRateLimitHit(ctx context.Context, route string) {
	if !om.metricsEnabled() {
		return
	}
	om.metrics.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("route", route)))
}

// RecordBusinessMetric records business-specific metrics
func (om *ObservabilityManager) RecordBusinessMetric(ctx context.Context, metricType string, success bool, attributes ...attribute.KeyValue) {
	if !om.metricsEnabled() {
		return
	}
	attrs := metric.WithAttributes(append([]attribute.KeyValue{
		attribute.Bool("success", success),
	}, attributes...)...)

	switch metricType {
	case MetricAnalysisRun:
		om.metrics.AnalysesRun.Add(ctx, 1, attrs)
	case MetricPlanGenerated:
		om.metrics.PlansGenerated.Add(ctx, 1, attrs)
	case MetricDocumentExtracted:
		om.metrics.DocumentsExtracted.Add(ctx, 1, attrs)
	}
}

func errorCode(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return "UNKNOWN"
}
