package common

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name        string
		format      string
		supported   []string
		expectError bool
	}{
		{name: "json is supported", format: "json", supported: supported},
		{name: "text is supported", format: "text", supported: supported},
		{name: "markdown is supported", format: "markdown", supported: supported},
		{name: "xml is rejected", format: "xml", supported: supported, expectError: true},
		{name: "matching is case sensitive", format: "JSON", supported: supported, expectError: true},
		{name: "empty format is rejected", format: "", supported: supported, expectError: true},
		{name: "no restrictions allows anything", format: "xml", supported: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.format) {
					t.Errorf("Error should name the rejected format: %v", err)
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}
