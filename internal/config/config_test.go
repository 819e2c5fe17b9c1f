package config

import (
	"testing"
	"time"
)

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name        string
		weights     WeightsConfig
		expectError bool
	}{
		{
			name:    "default weights",
			weights: WeightsConfig{Semantic: 0.35, Keyword: 0.30, Structure: 0.20, Action: 0.15},
		},
		{
			name:    "unnormalized weights are fine",
			weights: WeightsConfig{Semantic: 2, Keyword: 1, Structure: 1, Action: 1},
		},
		{
			name:    "single positive weight",
			weights: WeightsConfig{Keyword: 1},
		},
		{
			name:        "negative weight",
			weights:     WeightsConfig{Semantic: -0.1, Keyword: 0.5, Structure: 0.3, Action: 0.3},
			expectError: true,
		},
		{
			name:        "all zero",
			weights:     WeightsConfig{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.expectError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestValidateWithoutAPIKey(t *testing.T) {
	// A missing API key must not fail validation: the pipeline degrades
	// instead of refusing to start.
	config := &Config{
		AI: AIConfig{
			Provider:      "gemini",
			Model:         "gemini-2.0-flash",
			Timeout:       60 * time.Second,
			MaxConcurrent: 2,
		},
		Scoring: ScoringConfig{
			Weights:        WeightsConfig{Semantic: 0.35, Keyword: 0.30, Structure: 0.20, Action: 0.15},
			MaxSuggestions: 5,
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected validation to pass without API key, got: %v", err)
	}
}

func TestValidateRejectsBadConcurrency(t *testing.T) {
	config := &Config{
		AI: AIConfig{
			Timeout:       60 * time.Second,
			MaxConcurrent: 0,
		},
		Scoring: ScoringConfig{
			Weights: WeightsConfig{Semantic: 1},
		},
		App: AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json"},
		},
		Server: ServerConfig{Port: "8080"},
	}

	if err := config.Validate(); err == nil {
		t.Error("Expected validation to fail for zero maxConcurrent")
	}
}

func TestOperationConfigFallbacks(t *testing.T) {
	globalTimeout := 60 * time.Second
	config := &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     globalTimeout,
			APIKey:      "global-key",
			MaxRetries:  3,
			Temperature: 0.7,
		},
	}

	opCfg := config.GetOptimizeConfig()

	if opCfg.Provider != "gemini" {
		t.Errorf("Expected provider fallback 'gemini', got '%s'", opCfg.Provider)
	}
	if opCfg.Model != "gemini-2.0-flash" {
		t.Errorf("Expected model fallback, got '%s'", opCfg.Model)
	}
	if opCfg.APIKey != "global-key" {
		t.Errorf("Expected API key fallback, got '%s'", opCfg.APIKey)
	}
	if opCfg.Timeout == nil || *opCfg.Timeout != globalTimeout {
		t.Error("Expected timeout fallback to global value")
	}
	if opCfg.MaxRetries == nil || *opCfg.MaxRetries != 3 {
		t.Error("Expected maxRetries fallback to global value")
	}
}

func TestOperationConfigOverrides(t *testing.T) {
	opTimeout := 90 * time.Second
	config := &Config{
		AI: AIConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  60 * time.Second,
			APIKey:   "global-key",
			Extract: OperationAIConfig{
				Model:   "gemini-2.0-flash-lite",
				Timeout: &opTimeout,
			},
		},
	}

	opCfg := config.GetExtractConfig()

	if opCfg.Model != "gemini-2.0-flash-lite" {
		t.Errorf("Expected operation model override, got '%s'", opCfg.Model)
	}
	if opCfg.Timeout == nil || *opCfg.Timeout != opTimeout {
		t.Error("Expected operation timeout override to win")
	}
	if opCfg.APIKey != "global-key" {
		t.Error("Expected API key to fall back to global")
	}
}
