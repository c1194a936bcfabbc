package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	appErrors "resumeready/internal/errors"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// StatusError is the failure shape of the model-invocation collaborator: an
// HTTP-like status, the provider's error-type tag and the response headers.
type StatusError struct {
	StatusCode int
	ErrorType  string
	Message    string
	Header     http.Header
	Err        error
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.ErrorType != "" {
		return fmt.Sprintf("status %d (%s): %s", e.StatusCode, e.ErrorType, msg)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, msg)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

var transientErrorTypes = map[string]bool{
	"overloaded_error":      true,
	"rate_limit_error":      true,
	"api_error":             true,
	"internal_server_error": true,
	"RESOURCE_EXHAUSTED":    true,
	"UNAVAILABLE":           true,
	"INTERNAL":              true,
	"DEADLINE_EXCEEDED":     true,
}

var fatalErrorTypes = map[string]bool{
	"authentication_error":  true,
	"permission_error":      true,
	"invalid_request_error": true,
	"not_found_error":       true,
	"UNAUTHENTICATED":       true,
	"PERMISSION_DENIED":     true,
	"INVALID_ARGUMENT":      true,
	"NOT_FOUND":             true,
}

var transientErrnos = []syscall.Errno{
	syscall.ECONNRESET,
	syscall.ECONNREFUSED,
	syscall.ECONNABORTED,
	syscall.EPIPE,
	syscall.ETIMEDOUT,
	syscall.EHOSTUNREACH,
	syscall.ENETUNREACH,
}

var transientMessages = []string{
	"connection reset",
	"connection refused",
	"broken pipe",
	"no such host",
	"i/o timeout",
	"host is unreachable",
	"network is unreachable",
	"tls handshake timeout",
	"econnreset",
	"etimedout",
	"econnrefused",
	"enotfound",
	"epipe",
	"ehostunreach",
}

// IsTransientError reports whether err is worth retrying: a status in
// retryable, a transient provider error tag, a network-layer failure or an
// aborted/timed-out call. Authentication and malformed-request failures, and
// anything unrecognised, are fatal.
func IsTransientError(err error, retryable []int) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return classifyStatus(statusErr.StatusCode, statusErr.ErrorType, retryable)
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return classifyStatus(gErr.Code, "", retryable)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, apiErr.Status, retryable)
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) && appErr.Code == appErrors.ErrCodeAuth {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	if isNetworkError(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func classifyStatus(code int, errorType string, retryable []int) bool {
	if code == http.StatusUnauthorized || code == http.StatusForbidden || code == http.StatusBadRequest {
		return false
	}
	if fatalErrorTypes[errorType] {
		return false
	}
	if slices.Contains(retryable, code) {
		return true
	}
	return transientErrorTypes[errorType]
}

func isNetworkError(err error) bool {
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF)
}

// StatusCode returns the HTTP-like status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// RetryAfter returns the server-requested wait for a 429 response. The
// Retry-After header may hold delay seconds or an HTTP date; dates in the
// past yield zero.
func RetryAfter(err error) (time.Duration, bool) {
	return retryAfterAt(err, time.Now())
}

func retryAfterAt(err error, now time.Time) (time.Duration, bool) {
	if StatusCode(err) != http.StatusTooManyRequests {
		return 0, false
	}

	var header http.Header
	var statusErr *StatusError
	var gErr *googleapi.Error
	switch {
	case errors.As(err, &statusErr):
		header = statusErr.Header
	case errors.As(err, &gErr):
		header = gErr.Header
	}

	value := strings.TrimSpace(header.Get("Retry-After"))
	if value == "" {
		return 0, false
	}

	if secs, parseErr := strconv.ParseFloat(value, 64); parseErr == nil {
		return max(time.Duration(secs*float64(time.Second)), 0), true
	}
	if at, parseErr := http.ParseTime(value); parseErr == nil {
		return max(at.Sub(now), 0), true
	}
	return 0, false
}

// ErrorCode names err for retry events and enhanced errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.ErrorType != "" {
			return statusErr.ErrorType
		}
		return fmt.Sprintf("HTTP_%d", statusErr.StatusCode)
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return fmt.Sprintf("HTTP_%d", gErr.Code)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status != "" {
			return apiErr.Status
		}
		return fmt.Sprintf("HTTP_%d", apiErr.Code)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "ABORTED"
	}

	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return errnoName(errno)
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNS_FAILURE"
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "TIMEOUT"
		}
		return "NETWORK_ERROR"
	}

	if code := appErrors.CodeOf(err); code != "" {
		return code
	}
	return "UNKNOWN"
}

func errnoName(errno syscall.Errno) string {
	switch errno {
	case syscall.ECONNRESET:
		return "ECONNRESET"
	case syscall.ECONNREFUSED:
		return "ECONNREFUSED"
	case syscall.ECONNABORTED:
		return "ECONNABORTED"
	case syscall.EPIPE:
		return "EPIPE"
	case syscall.ETIMEDOUT:
		return "ETIMEDOUT"
	case syscall.EHOSTUNREACH:
		return "EHOSTUNREACH"
	case syscall.ENETUNREACH:
		return "ENETUNREACH"
	default:
		return "NETWORK_ERROR"
	}
}
