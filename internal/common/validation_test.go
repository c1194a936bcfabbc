package common

import (
	"testing"

	"resumeready/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestValidateOutputFormat(t *testing.T) {
	configured := []string{"json", "yaml", "text", "markdown"}

	tests := []struct {
		name          string
		format        string
		supported     []string
		expectedError string
	}{
		{name: "json", format: "json", supported: configured},
		{name: "yaml", format: "yaml", supported: configured},
		{name: "markdown", format: "markdown", supported: configured},
		{
			name:          "not configured",
			format:        "yaml",
			supported:     []string{"json", "text"},
			expectedError: "unsupported output format 'yaml'. Supported formats: [json text]",
		},
		{
			name:          "configured but no formatter",
			format:        "csv",
			supported:     []string{"json", "csv"},
			expectedError: "unsupported output format 'csv'. Supported formats: [json]",
		},
		{
			name:          "case sensitive",
			format:        "JSON",
			supported:     configured,
			expectedError: "unsupported output format 'JSON'. Supported formats: [json yaml text markdown]",
		},
		{
			name:          "empty format",
			format:        "",
			supported:     configured,
			expectedError: "unsupported output format ''. Supported formats: [json yaml text markdown]",
		},
		{name: "nothing configured allows registered formats", format: "text", supported: nil},
		{
			name:          "nothing configured still needs a formatter",
			format:        "xml",
			supported:     nil,
			expectedError: "unsupported output format 'xml'. Supported formats: [json markdown text yaml]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFormat))
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	tests := []struct {
		name      string
		supported []string
		expected  []string
	}{
		{"keeps configured order", []string{"markdown", "json"}, []string{"markdown", "json"}},
		{"drops formats without a formatter", []string{"json", "csv", "xml"}, []string{"json"}},
		{"defaults to the registry", nil, []string{"json", "markdown", "text", "yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSupportedFormats(tt.supported))
		})
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supportedFormats := []string{"json", "text", "markdown"}

	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("json", supportedFormats)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("xml", supportedFormats)
		}
	})
}
