package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"resumeready/internal/errors"
	"resumeready/internal/formatters"
)

const errCodeRequestTooLarge = "REQUEST_TOO_LARGE"

// healthHandler reports whether the model clients are usable. Any open
// circuit breaker degrades the service.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "resumeready",
		"version": s.Version,
		"store":   s.Store != nil,
	}

	healthy := true
	if s.Health != nil {
		response["models"] = s.Health.Stats()
		healthy = s.Health.Healthy()
	}

	status := http.StatusOK
	if !healthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service":        "resumeready",
		"version":        s.Version,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
		"rules": len(s.Service.Rules()),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
		}
	}

	if s.Health != nil {
		response["models"] = s.Health.Stats()
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"content-type must be application/json", err)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errCodeRequestTooLarge,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return errors.NewIOError(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "failed to parse JSON", err)
	}

	return nil
}

// statusForError maps an error code onto an HTTP status.
func statusForError(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrCodeInvalidRequest, errors.ErrCodeValidation, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errCodeRequestTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeExtractFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidConfig, errors.ErrCodeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err as an ErrorResponse with a status derived from
// its code.
func writeAppError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	response := ErrorResponse{Error: http.StatusText(status), Message: err.Error()}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		response.Code = appErr.Code
		response.Message = appErr.Message
		response.Context = appErr.Context
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

var formatContentTypes = map[string]string{
	"yaml":     "application/yaml",
	"text":     "text/plain; charset=utf-8",
	"markdown": "text/markdown; charset=utf-8",
}

// writeResult writes data as JSON, or in the format named by the "format"
// query parameter.
func writeResult(w http.ResponseWriter, r *http.Request, status int, data any) {
	format := r.URL.Query().Get("format")
	if format == "" || format == "json" {
		writeJSON(w, status, data)
		return
	}

	contentType, ok := formatContentTypes[format]
	if !ok {
		writeAppError(w, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("unsupported format %q", format), nil))
		return
	}
	out, err := formatters.GlobalRegistry.Format(data, format)
	if err != nil {
		writeAppError(w, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("cannot render this result as %s", format), err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := io.WriteString(w, out); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
