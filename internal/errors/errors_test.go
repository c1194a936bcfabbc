package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	cause := fmt.Errorf("boom")

	err := NewAIError(ErrCodeParse, "could not parse model output", cause).WithModule("impact")

	assert.Equal(t, "impact: PARSE_ERROR: could not parse model output (caused by: boom)", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestCodeHelpers(t *testing.T) {
	inner := NewAIError(ErrCodeTimeBudgetExhausted, "out of time", nil)
	outer := NewAIError(ErrCodeAIServiceFailed, "call failed", inner)
	wrapped := fmt.Errorf("module failed: %w", outer)

	assert.Equal(t, ErrCodeAIServiceFailed, CodeOf(wrapped))
	assert.True(t, HasCode(wrapped, ErrCodeTimeBudgetExhausted))
	assert.False(t, HasCode(wrapped, ErrCodeParse))
	assert.Equal(t, "", CodeOf(fmt.Errorf("plain")))
}

func TestLogErrorIncludesAppErrorFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)

	err := NewValidationError(ErrCodeValidation, "no bullets", nil).
		WithModule("impact").
		WithContext("bullets", 0)
	logger.LogError(err, "module failed", "run_id", "r1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "module failed", entry["msg"])
	assert.Equal(t, "VALIDATION_ERROR", entry["error_code"])
	assert.Equal(t, "impact", entry["module"])
	assert.Equal(t, "r1", entry["run_id"])
	assert.EqualValues(t, 0, entry["bullets"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("verbose")
	if err == nil {
		t.Fatal("Expected error for invalid log level, got nil")
	}

	logger, err := New("warn")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if logger == nil {
		t.Fatal("Expected logger, got nil")
	}
}
