package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Decision is the executor's verdict after one attempt.
type Decision int

const (
	DecisionSucceeded Decision = iota
	DecisionRetry
	DecisionFatal
)

func (d Decision) String() string {
	switch d {
	case DecisionSucceeded:
		return "succeeded"
	case DecisionRetry:
		return "retry"
	case DecisionFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Reasons carried by Error.
const (
	ReasonMaxRetriesExceeded  = "MAX_RETRIES_EXCEEDED"
	ReasonTimeBudgetExhausted = "TIME_BUDGET_EXHAUSTED"
	ReasonNonRetryable        = "NON_RETRYABLE"
	ReasonCanceled            = "CANCELED"
)

// Event describes one attempt. It is emitted before the executor acts on the
// decision, for successes as well as failures.
type Event struct {
	Operation string
	Attempt   int
	ErrorCode string
	Delay     time.Duration
	WillRetry bool
	Decision  Decision
	Reason    string
	Elapsed   time.Duration
	Err       error
}

// Error is returned when the executor gives up.
type Error struct {
	Operation        string
	Attempts         int
	MaxRetries       int
	ExhaustedRetries bool
	ErrorCode        string
	Reason           string
	Err              error
}

func (e *Error) Error() string {
	name := e.Operation
	if name == "" {
		name = "operation"
	}
	return fmt.Sprintf("%s failed after %d attempt(s) [%s, %s]: %v", name, e.Attempts, e.Reason, e.ErrorCode, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// outcome is the internal discriminated result of decide.
type outcome struct {
	decision Decision
	delay    time.Duration
	reason   string
}

// decide classifies the result of attempt (zero-based) given the time already
// spent. The time budget is only consulted once every other condition allows
// a retry, so TIME_BUDGET_EXHAUSTED means the clock was the only blocker.
func decide(err error, attempt int, elapsed time.Duration, cfg Config, u float64) outcome {
	if err == nil {
		return outcome{decision: DecisionSucceeded}
	}
	if !IsTransientError(err, cfg.RetryableStatusCodes) {
		return outcome{decision: DecisionFatal, reason: ReasonNonRetryable}
	}
	if attempt >= cfg.MaxRetries {
		return outcome{decision: DecisionFatal, reason: ReasonMaxRetriesExceeded}
	}

	delay := cfg.Delay(attempt, u)
	if cfg.RespectRetryAfterHeader {
		if hint, ok := RetryAfter(err); ok {
			delay = hint
		}
	}

	if cfg.TimeBudget > 0 {
		remaining := cfg.TimeBudget - elapsed
		if remaining <= delay+cfg.MinReserve {
			return outcome{decision: DecisionFatal, delay: delay, reason: ReasonTimeBudgetExhausted}
		}
	}
	return outcome{decision: DecisionRetry, delay: delay}
}

// Do runs op until it succeeds, fails with a non-transient error, runs out of
// retries, or runs out of time budget. The wait between attempts ends early
// when ctx is done.
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error), opts ...Option) (T, error) {
	s := settings{cfg: cfg.WithDefaults(), jitter: rand.Float64, now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}

	var zero T
	start := s.now()
	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		elapsed := s.now().Sub(start)

		out := decide(err, attempt, elapsed, s.cfg, s.jitter())
		if err != nil && ctx.Err() != nil {
			out = outcome{decision: DecisionFatal, reason: ReasonCanceled}
		}

		s.emit(Event{
			Operation: s.operation,
			Attempt:   attempt + 1,
			ErrorCode: ErrorCode(err),
			Delay:     out.delay,
			WillRetry: out.decision == DecisionRetry,
			Decision:  out.decision,
			Reason:    out.reason,
			Elapsed:   elapsed,
			Err:       err,
		})

		switch out.decision {
		case DecisionSucceeded:
			return result, nil
		case DecisionFatal:
			return zero, s.fail(attempt+1, out.reason, err)
		}

		timer := time.NewTimer(out.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, s.fail(attempt+1, ReasonCanceled, ctx.Err())
		}
	}
}

func (s *settings) emit(ev Event) {
	for _, o := range s.observers {
		o(ev)
	}
}

func (s *settings) fail(attempts int, reason string, err error) *Error {
	return &Error{
		Operation:        s.operation,
		Attempts:         attempts,
		MaxRetries:       s.cfg.MaxRetries,
		ExhaustedRetries: reason == ReasonMaxRetriesExceeded,
		ErrorCode:        ErrorCode(err),
		Reason:           reason,
		Err:              err,
	}
}
