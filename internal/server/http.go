package server

import (
	"time"

	"resumeready/internal/config"
	"resumeready/internal/errors"
	"resumeready/internal/observability"
	"resumeready/internal/store"
	"resumeready/internal/tailoring"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// CreatedResponse is returned when a document is stored.
type CreatedResponse struct {
	ID string `json:"id"`
}

// ListResponse wraps stored analysis records.
type ListResponse struct {
	Items []store.AnalysisRecord `json:"items"`
	Count int                    `json:"count"`
}

// StoredAnalysisResponse is a stored result with its index metadata.
type StoredAnalysisResponse struct {
	Record  store.AnalysisRecord `json:"record"`
	Payload any                  `json:"payload"`
}

// HealthReporter exposes model client state for /health and /stats.
// *analysis.Runner satisfies it.
type HealthReporter interface {
	Healthy() bool
	Stats() map[string]any
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Service       *tailoring.Service
	Store         store.Store
	Health        HealthReporter
	Observability *observability.ObservabilityManager

	// Logger
	Logger *errors.Logger

	startedAt time.Time
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// Dependencies are the collaborators the handlers call. Only Service is
// required; Store enables the document endpoints.
type Dependencies struct {
	Service       *tailoring.Service
	Store         store.Store
	Health        HealthReporter
	Observability *observability.ObservabilityManager
}

// ServerConfigFrom derives the server settings from the application config.
func ServerConfigFrom(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(cfg ServerConfig, deps Dependencies, logger *errors.Logger) (*Server, error) {
	if logger == nil {
		logger = errors.Discard()
	}
	if deps.Service == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "server needs a tailoring service", nil)
	}

	om := deps.Observability
	if om == nil {
		var err error
		om, err = observability.NewObservabilityManager(observability.ObservabilityConfig{ServiceName: "resumeready"}, nil)
		if err != nil {
			return nil, err
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Service:        deps.Service,
		Store:          deps.Store,
		Health:         deps.Health,
		Observability:  om,
		Logger:         logger,
		startedAt:      time.Now(),
	}, nil
}
