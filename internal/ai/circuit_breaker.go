package ai

import (
	"context"
	stderrors "errors"
	"fmt"

	"resumeready/internal/config"
	"resumeready/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreaker guards one module's model calls
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[Completion]
}

// NewCircuitBreaker creates a circuit breaker for an analysis module. It
// returns nil when the breaker is disabled; a nil breaker passes calls through.
func NewCircuitBreaker(module string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("AI-%s", module),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		// A caller giving up says nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || stderrors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.Info("Circuit breaker state changed",
				"name", name,
				"module", module,
				"from", from.String(),
				"to", to.String(),
				"max_requests", cfg.MaxRequests,
				"failure_threshold", cfg.FailureThreshold)
		},
	}

	return &CircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[Completion](settings),
	}
}

// Execute runs fn under the breaker. A rejected call fails with CIRCUIT_OPEN,
// which the retry classifier treats as fatal.
func (cb *CircuitBreaker) Execute(fn func() (Completion, error)) (Completion, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}

	out, err := cb.cb.Execute(fn)
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return Completion{}, errors.NewAIError(errors.ErrCodeCircuitOpen,
			"circuit breaker "+cb.cb.Name()+" rejected the call", err)
	}
	return out, err
}

// Stats returns circuit breaker statistics
func (cb *CircuitBreaker) Stats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{
			"enabled": false,
		}
	}

	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (cb *CircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}

type breakingCompleter struct {
	next    Completer
	breaker *CircuitBreaker
}

// WithCircuitBreaker routes every call of next through breaker.
func WithCircuitBreaker(next Completer, breaker *CircuitBreaker) Completer {
	if breaker == nil {
		return next
	}
	return &breakingCompleter{next: next, breaker: breaker}
}

func (b *breakingCompleter) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	return b.breaker.Execute(func() (Completion, error) {
		return b.next.Complete(ctx, req)
	})
}

func (b *breakingCompleter) Provider() string {
	return b.next.Provider()
}
