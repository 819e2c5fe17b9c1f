package ai

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"resumate/internal/config"
	"resumate/internal/types"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func testOperationConfig() *config.OperationAIConfig {
	timeout := 30 * time.Second
	retries := 2
	temperature := float32(0.3)
	return &config.OperationAIConfig{
		Provider:    "gemini",
		Model:       "gemini-2.5-flash",
		Timeout:     &timeout,
		MaxRetries:  &retries,
		Temperature: &temperature,
	}
}

func TestResolvePrompt(t *testing.T) {
	if got := resolvePrompt("override", "default"); got != "override" {
		t.Errorf("Expected config override to win, got %q", got)
	}
	if got := resolvePrompt("", "default"); got != "default" {
		t.Errorf("Expected default fallback, got %q", got)
	}
}

func TestBuildOptimizePrompts(t *testing.T) {
	g := &GeminiProvider{config: testOperationConfig()}

	system, user := g.buildOptimizePrompts(types.OptimizeInput{
		ResumeText:     "RESUME BODY",
		JobDescription: "JD BODY",
		TargetRole:     "Staff Engineer",
		MissingSkills:  []string{"go", "kubernetes"},
	})

	if system == "" {
		t.Error("Expected a non-empty system prompt")
	}
	for _, want := range []string{"RESUME BODY", "JD BODY", "Staff Engineer", "go, kubernetes"} {
		if !strings.Contains(user, want) {
			t.Errorf("Expected user prompt to contain %q", want)
		}
	}
}

func TestBuildOptimizePromptsCustomOverride(t *testing.T) {
	cfg := testOperationConfig()
	cfg.CustomPrompts = config.PromptConfig{
		System: "custom system",
		User:   "resume=%s jd=%s",
	}
	g := &GeminiProvider{config: cfg}

	system, user := g.buildOptimizePrompts(types.OptimizeInput{
		ResumeText:     "R",
		JobDescription: "J",
	})

	if system != "custom system" {
		t.Errorf("Expected custom system prompt, got %q", system)
	}
	if user != "resume=R jd=J" {
		t.Errorf("Expected rendered custom template, got %q", user)
	}
}

func TestBuildExtractPrompts(t *testing.T) {
	g := &GeminiProvider{config: testOperationConfig()}

	_, user := g.buildExtractPrompts("THE JD TEXT")
	if !strings.Contains(user, "THE JD TEXT") {
		t.Errorf("Expected JD embedded in user prompt, got %q", user)
	}
}

func TestBuildSchemasApplyTemperature(t *testing.T) {
	g := &GeminiProvider{config: testOperationConfig()}

	optimize := g.buildOptimizeSchema()
	if optimize.ResponseMIMEType != "application/json" {
		t.Errorf("Expected JSON response type, got %s", optimize.ResponseMIMEType)
	}
	if optimize.Temperature == nil || *optimize.Temperature != 0.3 {
		t.Error("Expected temperature applied to optimize schema")
	}
	if optimize.ResponseSchema == nil || optimize.ResponseSchema.Properties["optimizedText"] == nil {
		t.Error("Expected optimizedText in optimize schema")
	}

	extract := g.buildExtractSchema()
	if extract.ResponseSchema == nil || extract.ResponseSchema.Properties["requiredSkills"] == nil {
		t.Error("Expected requiredSkills in extract schema")
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsRetryableError(t *testing.T) {
	g := &GeminiProvider{config: testOperationConfig()}

	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"network timeout", timeoutError{}, true},
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 500}, true},
		{"bad gateway", &googleapi.Error{Code: 502}, true},
		{"service unavailable", &googleapi.Error{Code: 503}, true},
		{"gateway timeout", &googleapi.Error{Code: 504}, true},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"unauthorized", &googleapi.Error{Code: 401}, false},
		{"plain error", fmt.Errorf("something else"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.isRetryableError(tt.err); got != tt.retryable {
				t.Errorf("Expected retryable=%v, got %v", tt.retryable, got)
			}
		})
	}
}

func TestExtractTokenUsage(t *testing.T) {
	if extractTokenUsage(nil) != nil {
		t.Error("Expected nil usage for nil response")
	}
	if extractTokenUsage(&genai.GenerateContentResponse{}) != nil {
		t.Error("Expected nil usage without metadata")
	}

	usage := extractTokenUsage(&genai.GenerateContentResponse{
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: 50,
			TotalTokenCount:      150,
		},
	})
	if usage == nil {
		t.Fatal("Expected usage metadata")
	}
	if usage.InputTokens != 100 || usage.OutputTokens != 50 || usage.TotalTokens != 150 {
		t.Errorf("Unexpected token counts: %+v", usage)
	}
}

func TestNewGeminiProviderRequiresAPIKey(t *testing.T) {
	cfg := testOperationConfig()
	cfg.APIKey = ""

	if _, err := NewGeminiProvider(cfg, "optimize", nil); err == nil {
		t.Error("Expected error when API key is missing")
	}
}
