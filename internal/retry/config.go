package retry

import (
	"slices"
	"time"
)

// Config controls one retrying call. The zero value of TimeBudget means no
// overall deadline beyond the caller's context.
type Config struct {
	MaxRetries              int           `mapstructure:"maxRetries"`
	InitialDelay            time.Duration `mapstructure:"initialDelay"`
	MaxDelay                time.Duration `mapstructure:"maxDelay"`
	BackoffMultiplier       float64       `mapstructure:"backoffMultiplier"`
	JitterFactor            float64       `mapstructure:"jitterFactor"`
	RetryableStatusCodes    []int         `mapstructure:"retryableStatusCodes"`
	RespectRetryAfterHeader bool          `mapstructure:"respectRetryAfterHeader"`
	TimeBudget              time.Duration `mapstructure:"timeBudget"`
	// MinReserve is the time that must remain after a backoff wait before
	// another attempt is started.
	MinReserve time.Duration `mapstructure:"minReserve"`
}

// Default values, used when the configuration leaves a field unset.
const (
	DefaultMaxRetries        = 2
	DefaultInitialDelay      = time.Second
	DefaultMaxDelay          = 10 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultJitterFactor      = 0.1
	DefaultMinReserve        = 15 * time.Second
)

// DefaultRetryableStatusCodes are the HTTP statuses retried out of the box.
var DefaultRetryableStatusCodes = []int{429, 500, 502, 503, 529}

// DefaultConfig returns the built-in retry policy.
func DefaultConfig() Config {
	return Config{
		MaxRetries:              DefaultMaxRetries,
		InitialDelay:            DefaultInitialDelay,
		MaxDelay:                DefaultMaxDelay,
		BackoffMultiplier:       DefaultBackoffMultiplier,
		JitterFactor:            DefaultJitterFactor,
		RetryableStatusCodes:    slices.Clone(DefaultRetryableStatusCodes),
		RespectRetryAfterHeader: true,
		MinReserve:              DefaultMinReserve,
	}
}

// WithDefaults fills every unset field of c from DefaultConfig. Negative
// MaxRetries is treated as unset; zero is a valid "no retries" setting.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.MaxRetries < 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.MaxDelay < c.InitialDelay {
		c.MaxDelay = c.InitialDelay
	}
	if c.BackoffMultiplier < 1 {
		c.BackoffMultiplier = d.BackoffMultiplier
	}
	if c.JitterFactor < 0 {
		c.JitterFactor = 0
	}
	if len(c.RetryableStatusCodes) == 0 {
		c.RetryableStatusCodes = d.RetryableStatusCodes
	}
	if c.MinReserve < 0 {
		c.MinReserve = 0
	}
	return c
}

// Observer receives every retry event.
type Observer func(Event)

type settings struct {
	cfg       Config
	operation string
	observers []Observer
	jitter    func() float64
	now       func() time.Time
}

// Option adjusts a single Do call.
type Option func(*settings)

// WithOperation names the operation in events and errors.
func WithOperation(name string) Option {
	return func(s *settings) { s.operation = name }
}

// WithObserver registers fn to receive every Event.
func WithObserver(fn Observer) Option {
	return func(s *settings) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}

// WithTimeBudget bounds the total wall-clock time across all attempts.
func WithTimeBudget(d time.Duration) Option {
	return func(s *settings) { s.cfg.TimeBudget = d }
}

// WithMaxRetries overrides the retry count.
func WithMaxRetries(n int) Option {
	return func(s *settings) { s.cfg.MaxRetries = n }
}

// WithJitterSource replaces the uniform [0,1) source used for jitter.
func WithJitterSource(fn func() float64) Option {
	return func(s *settings) { s.jitter = fn }
}

func withClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}
