package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	appErrors "resumeready/internal/errors"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func TestIsTransientError(t *testing.T) {
	codes := DefaultRetryableStatusCodes

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429", &StatusError{StatusCode: 429}, true},
		{"529 overloaded", &StatusError{StatusCode: 529, ErrorType: "overloaded_error"}, true},
		{"503", &StatusError{StatusCode: 503}, true},
		{"504 not configured", &StatusError{StatusCode: 504}, false},
		{"unknown status with transient tag", &StatusError{StatusCode: 599, ErrorType: "api_error"}, true},
		{"401", &StatusError{StatusCode: 401, ErrorType: "authentication_error"}, false},
		{"403", &StatusError{StatusCode: 403}, false},
		{"400 invalid request", &StatusError{StatusCode: 400, ErrorType: "invalid_request_error"}, false},
		{"wrapped status", fmt.Errorf("call: %w", &StatusError{StatusCode: 502}), true},
		{"googleapi 500", &googleapi.Error{Code: 500}, true},
		{"googleapi 404", &googleapi.Error{Code: 404}, false},
		{"genai unavailable", genai.APIError{Code: 503, Status: "UNAVAILABLE"}, true},
		{"genai invalid argument", genai.APIError{Code: 400, Status: "INVALID_ARGUMENT"}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"aborted", fmt.Errorf("request aborted: %w", context.Canceled), true},
		{"connection reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, true},
		{"refused errno", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"broken pipe", syscall.EPIPE, true},
		{"host unreachable", syscall.EHOSTUNREACH, true},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.example.com"}, true},
		{"message fallback", errors.New("read tcp: ECONNRESET by peer"), true},
		{"auth app error", appErrors.NewAIError(appErrors.ErrCodeAuth, "bad key", nil), false},
		{"plain", errors.New("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransientError(tt.err, codes))
		})
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	header := func(v string) http.Header {
		h := http.Header{}
		h.Set("Retry-After", v)
		return h
	}

	tests := []struct {
		name   string
		err    error
		want   time.Duration
		wantOK bool
	}{
		{"seconds", &StatusError{StatusCode: 429, Header: header("3")}, 3 * time.Second, true},
		{"fractional seconds", &StatusError{StatusCode: 429, Header: header("1.5")}, 1500 * time.Millisecond, true},
		{"http date", &StatusError{StatusCode: 429, Header: header(now.Add(7 * time.Second).Format(http.TimeFormat))}, 7 * time.Second, true},
		{"past date clamps", &StatusError{StatusCode: 429, Header: header(now.Add(-time.Minute).Format(http.TimeFormat))}, 0, true},
		{"negative clamps", &StatusError{StatusCode: 429, Header: header("-4")}, 0, true},
		{"googleapi header", &googleapi.Error{Code: 429, Header: header("2")}, 2 * time.Second, true},
		{"not 429", &StatusError{StatusCode: 503, Header: header("3")}, 0, false},
		{"missing header", &StatusError{StatusCode: 429}, 0, false},
		{"garbage", &StatusError{StatusCode: 429, Header: header("soon")}, 0, false},
		{"plain error", errors.New("x"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := retryAfterAt(tt.err, now)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, "overloaded_error", ErrorCode(&StatusError{StatusCode: 529, ErrorType: "overloaded_error"}))
	assert.Equal(t, "HTTP_503", ErrorCode(&StatusError{StatusCode: 503}))
	assert.Equal(t, "HTTP_500", ErrorCode(&googleapi.Error{Code: 500}))
	assert.Equal(t, "RESOURCE_EXHAUSTED", ErrorCode(genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}))
	assert.Equal(t, "TIMEOUT", ErrorCode(context.DeadlineExceeded))
	assert.Equal(t, "ECONNRESET", ErrorCode(fmt.Errorf("x: %w", syscall.ECONNRESET)))
	assert.Equal(t, "DNS_FAILURE", ErrorCode(&net.DNSError{Err: "no such host"}))
	assert.Equal(t, appErrors.ErrCodeEmptyResponse, ErrorCode(appErrors.NewAIError(appErrors.ErrCodeEmptyResponse, "empty", nil)))
	assert.Equal(t, "UNKNOWN", ErrorCode(errors.New("x")))
}
