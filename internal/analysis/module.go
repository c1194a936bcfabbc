// Package analysis runs the AI pre-analysis modules over a resume and a job
// posting. Every module shares one pipeline: credential check, input check,
// prompt, retried model call, JSON recovery, schema validation with a single
// salvage pass, then whitelist coercion into the typed result.
package analysis

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resumeready/internal/ai"
	"resumeready/internal/config"
	"resumeready/internal/errors"
	"resumeready/internal/jsonrepair"
	"resumeready/internal/retry"
	"resumeready/internal/types"
)

// DefaultTimeBudget bounds one module call including retries. It leaves a
// ten second margin under a 180 second request ceiling.
const DefaultTimeBudget = 170 * time.Second

// Input is the immutable snapshot a module analyzes.
type Input struct {
	Resume types.ResumeContent
	Job    types.JobData
}

// Recorder receives module telemetry. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordModule(ctx context.Context, module string, duration time.Duration, err error)
	RecordRetry(ctx context.Context, ev retry.Event)
	RecordTokens(ctx context.Context, module, provider string, usage *ai.TokenUsage)
}

type nopRecorder struct{}

func (nopRecorder) RecordModule(context.Context, string, time.Duration, error)   {}
func (nopRecorder) RecordRetry(context.Context, retry.Event)                     {}
func (nopRecorder) RecordTokens(context.Context, string, string, *ai.TokenUsage) {}

// Deps are the collaborators of one module.
type Deps struct {
	// Completer is nil when the module has no usable credential.
	Completer ai.Completer
	Settings  config.ModuleAIConfig
	Retry     retry.Config
	Logger    *errors.Logger
	Recorder  Recorder
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = errors.Discard()
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	return d
}

func (d Deps) timeBudget() time.Duration {
	if d.Settings.TimeBudget != nil && *d.Settings.TimeBudget > 0 {
		return *d.Settings.TimeBudget
	}
	return DefaultTimeBudget
}

// Module is one analysis adapter producing T.
type Module[T any] struct {
	name     string
	deps     Deps
	shape    *shape
	check    func(Input) error
	prompt   func(Input) string
	defaults func(Input) map[string]any
	build    func(fields, Input) T
}

// Name returns the module name used in configuration, errors and metrics.
func (m *Module[T]) Name() string {
	return m.name
}

// Analyze runs the module pipeline. Every failure is an *errors.AppError
// tagged with the module name.
func (m *Module[T]) Analyze(ctx context.Context, in Input) (result T, err error) {
	start := time.Now()
	defer func() {
		m.deps.Recorder.RecordModule(ctx, m.name, time.Since(start), err)
	}()

	if m.deps.Completer == nil || m.deps.Settings.APIKey == "" {
		return result, m.fail(errors.NewConfigError(errors.ErrCodeConfiguration,
			"no API key configured", nil))
	}
	if err := m.check(in); err != nil {
		return result, m.fail(errors.NewValidationError(errors.ErrCodeValidation, err.Error(), nil))
	}

	req := ai.CompletionRequest{
		SystemPrompt: ai.SystemPrompt(m.name, m.deps.Settings.SystemPrompt),
		UserPrompt:   m.prompt(in),
		Operation:    m.name,
	}

	budget := m.deps.timeBudget()
	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	completion, err := retry.Do(callCtx, m.deps.Retry, func(ctx context.Context) (ai.Completion, error) {
		return m.deps.Completer.Complete(ctx, req)
	},
		retry.WithOperation(m.name),
		retry.WithTimeBudget(budget),
		retry.WithObserver(m.observeRetry(ctx)),
	)
	if err != nil {
		budgetExpired := stderrors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
		return result, m.fail(mapCallError(err, budgetExpired))
	}
	if completion.Usage != nil {
		m.deps.Recorder.RecordTokens(ctx, m.name, m.deps.Completer.Provider(), completion.Usage)
	}

	if strings.TrimSpace(completion.Text) == "" {
		return result, m.fail(errors.NewAIError(errors.ErrCodeEmptyResponse,
			"model returned no text", nil))
	}

	parsed, err := jsonrepair.ParseModelJSON[any](completion.Text)
	if err != nil {
		appErr := errors.NewAIError(errors.ErrCodeParse, "could not parse model output as JSON", err).
			WithContext("raw_text", truncate(completion.Text, 2000))
		var parseErr *jsonrepair.ParseError
		if stderrors.As(err, &parseErr) {
			appErr.WithContext("repaired_text", truncate(parseErr.Repaired, 2000))
		}
		return result, m.fail(appErr)
	}
	doc, ok := m.shape.document(parsed)
	if !ok {
		return result, m.fail(errors.NewAIError(errors.ErrCodeParse, "model output is not a JSON object", nil))
	}

	if problems := m.shape.validate(doc); problems != nil {
		var defaults map[string]any
		if m.defaults != nil {
			defaults = m.defaults(in)
		}
		salvaged := m.shape.salvage(doc, defaults)
		if remaining := m.shape.validate(salvaged); remaining != nil {
			return result, m.fail(errors.NewAIError(errors.ErrCodeSchemaValidation,
				"model output does not match the expected shape", nil).
				WithContext("problems", remaining))
		}
		m.deps.Logger.Debug("Salvaged model output", "module", m.name, "problems", problems)
		doc = salvaged
	}

	return m.build(fields(doc), in), nil
}

func (m *Module[T]) fail(err *errors.AppError) *errors.AppError {
	err = err.WithModule(m.name)
	m.deps.Logger.LogError(err, "Analysis module failed")
	return err
}

func (m *Module[T]) observeRetry(ctx context.Context) retry.Observer {
	return func(ev retry.Event) {
		m.deps.Recorder.RecordRetry(ctx, ev)
		if ev.WillRetry {
			m.deps.Logger.Warn("Retrying model call",
				"module", m.name,
				"attempt", ev.Attempt,
				"error_code", ev.ErrorCode,
				"delay", ev.Delay.String())
		}
	}
}

// mapCallError turns a failed retried call into the module error taxonomy.
// budgetExpired reports that the module's own deadline, not the caller's,
// ended the call.
func mapCallError(err error, budgetExpired bool) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Code == errors.ErrCodeCircuitOpen {
		return errors.NewAIError(errors.ErrCodeCircuitOpen, appErr.Message, err)
	}

	switch status := retry.StatusCode(err); status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewAIError(errors.ErrCodeAuth,
			fmt.Sprintf("model provider rejected the credentials (status %d)", status), err)
	}

	var retryErr *retry.Error
	if !stderrors.As(err, &retryErr) {
		return errors.NewAIError(errors.ErrCodeAIServiceFailed, "model call failed", err)
	}

	var out *errors.AppError
	switch retryErr.Reason {
	case retry.ReasonMaxRetriesExceeded:
		out = errors.NewAIError(errors.ErrCodeMaxRetriesExceeded, "model call failed after all retries", err)
	case retry.ReasonTimeBudgetExhausted:
		out = errors.NewAIError(errors.ErrCodeTimeBudgetExhausted, "model call ran out of time budget", err)
	case retry.ReasonCanceled:
		if budgetExpired {
			out = errors.NewAIError(errors.ErrCodeTimeBudgetExhausted, "model call ran out of time budget", err)
		} else {
			out = errors.NewAIError(errors.ErrCodeAIServiceFailed, "model call canceled", err)
		}
	default:
		out = errors.NewAIError(errors.ErrCodeAIServiceFailed, "model call failed", err)
	}
	return out.
		WithContext("attempts", retryErr.Attempts).
		WithContext("max_retries", retryErr.MaxRetries).
		WithContext("last_error_code", retryErr.ErrorCode)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
