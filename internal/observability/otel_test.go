package observability

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumeready/internal/ai"
	"resumeready/internal/config"
	"resumeready/internal/errors"
	"resumeready/internal/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func testConfig() ObservabilityConfig {
	return ObservabilityConfig{
		ServiceName:    "resumeready-test",
		ServiceVersion: "test",
		Enabled:        true,
		SampleRate:     1,
	}
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterTotal(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecorderMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	om, err := newManager(testConfig(), nil, reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })

	ctx := context.Background()
	om.RecordModule(ctx, config.ModuleImpact, 2*time.Second, nil)
	om.RecordModule(ctx, config.ModuleCompany, time.Second,
		errors.NewAIError(errors.ErrCodeParse, "bad json", nil).WithModule(config.ModuleCompany))
	om.RecordRetry(ctx, retry.Event{Operation: "impact", Attempt: 1, ErrorCode: "overloaded_error", Delay: time.Second, WillRetry: true, Decision: retry.DecisionRetry})
	om.RecordRetry(ctx, retry.Event{Operation: "impact", Attempt: 2, Decision: retry.DecisionSucceeded})
	om.RecordTokens(ctx, config.ModuleImpact, "gemini", &ai.TokenUsage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120})
	om.RecordTokens(ctx, config.ModuleImpact, "gemini", nil)
	om.RecordReadiness(ctx, 72, "Strong")
	om.RecordRateLimitHit(ctx, "/v1/analyze")
	om.RecordBusinessMetric(ctx, MetricPlanGenerated, true)
	om.RecordBusinessMetric(ctx, "unknown_metric", true)

	metrics := collect(t, reader)

	assert.EqualValues(t, 2, counterTotal(t, metrics["resumeready_module_runs_total"]))
	assert.EqualValues(t, 1, counterTotal(t, metrics["resumeready_module_failures_total"]))
	assert.EqualValues(t, 2, counterTotal(t, metrics["resumeready_retry_attempts_total"]))
	assert.EqualValues(t, 1, counterTotal(t, metrics["resumeready_rate_limit_hits_total"]))
	assert.EqualValues(t, 1, counterTotal(t, metrics["resumeready_plans_generated_total"]))

	failures := metrics["resumeready_module_failures_total"].Data.(metricdata.Sum[int64])
	code, ok := failures.DataPoints[0].Attributes.Value(attribute.Key("error_code"))
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeParse, code.AsString())

	tokens, ok := metrics["resumeready_ai_token_usage"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Len(t, tokens.DataPoints, 3)

	delay, ok := metrics["resumeready_retry_delay_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, delay.DataPoints, 1)
	assert.EqualValues(t, 1, delay.DataPoints[0].Count)

	readiness, ok := metrics["resumeready_readiness_composite"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.EqualValues(t, 72, readiness.DataPoints[0].Sum)
}

func TestMetricsDisabledByConfig(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	full := &config.Config{}
	full.Observability.Metrics.Enabled = false

	om, err := newManager(testConfig(), full, reader)
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })

	om.RecordModule(context.Background(), config.ModuleImpact, time.Second, nil)

	_, recorded := collect(t, reader)["resumeready_module_runs_total"]
	assert.False(t, recorded)
}

func TestDisabledManagerIsSafe(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	om, err := NewObservabilityManager(cfg, nil)
	require.NoError(t, err)

	ctx := context.Background()
	om.RecordModule(ctx, config.ModuleImpact, time.Second, stderrors.New("boom"))
	om.RecordRetry(ctx, retry.Event{WillRetry: true})
	om.RecordReadiness(ctx, 50, "Developing")
	assert.NotNil(t, om.Tracer("x"))
	assert.Nil(t, om.PrometheusHandler())

	h := om.HTTPMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NoError(t, om.Shutdown(ctx))
}

func TestHTTPMiddlewarePassesThrough(t *testing.T) {
	om, err := newManager(testConfig(), nil, sdkmetric.NewManualReader())
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })

	h := om.HTTPMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyze", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestPrometheusExporterServesRecordedMetrics(t *testing.T) {
	reader, mux, err := SetupPrometheusExporter(PrometheusConfig{Enabled: true, Endpoint: "/metrics"})
	require.NoError(t, err)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := newMetrics(mp.Meter("test"))
	require.NoError(t, err)
	metrics.ModuleRuns.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resumeready_module_runs_total")
}

func TestPrometheusExporterDisabled(t *testing.T) {
	reader, mux, err := SetupPrometheusExporter(PrometheusConfig{})
	require.NoError(t, err)
	assert.Nil(t, reader)
	assert.Nil(t, mux)
	assert.Nil(t, StartPrometheusServer(nil, "0"))
}

func TestGetObservabilityConfig(t *testing.T) {
	fallback := GetObservabilityConfig(nil, "1.2.3")
	assert.Equal(t, "resumeready", fallback.ServiceName)
	assert.Equal(t, "1.2.3", fallback.ServiceVersion)
	assert.True(t, fallback.Prometheus.Enabled)

	cfg := &config.Config{}
	cfg.Observability.ServiceName = "svc"
	cfg.Observability.ServiceInstance = "svc-7"
	cfg.Observability.Enabled = true
	cfg.Observability.Console.PrettyPrint = true
	cfg.Observability.Prometheus.Port = "9191"

	got := GetObservabilityConfig(cfg, "2.0.0")
	assert.Equal(t, "svc", got.ServiceName)
	assert.Equal(t, "2.0.0", got.ServiceVersion, "app version fills an empty service version")
	assert.Equal(t, "svc-7", got.ServiceInstance)
	assert.True(t, got.PrettyPrint)
	assert.Equal(t, "9191", got.Prometheus.Port)
	assert.False(t, got.Prometheus.Enabled)
}
