package common

import (
	"fmt"
	"slices"

	"resumeready/internal/errors"
	"resumeready/internal/formatters"
)

// ValidateOutputFormat checks format against the formats the configuration
// allows and the formatter registry can render.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	available := GetSupportedFormats(supportedFormats)
	if slices.Contains(available, format) {
		return nil
	}

	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("unsupported output format '%s'. Supported formats: %v", format, available), nil).
		WithContext("format", format)
}

// GetSupportedFormats returns the configured formats that have a formatter,
// in configured order. With nothing configured, every registered format is
// available.
func GetSupportedFormats(supportedFormats []string) []string {
	registered := formatters.GlobalRegistry.GetSupportedFormats()
	if len(supportedFormats) == 0 {
		return registered
	}

	formats := make([]string, 0, len(supportedFormats))
	for _, f := range supportedFormats {
		if slices.Contains(registered, f) {
			formats = append(formats, f)
		}
	}
	return formats
}
