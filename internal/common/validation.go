package common

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateOutputFormat rejects formats outside the configured allow list.
// An empty list means every registered format is acceptable.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %s",
		format, strings.Join(supportedFormats, ", "))
}
