package scoring

import (
	"math"
	"strings"
	"testing"

	"resumate/internal/types"
)

func TestContactSignal(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"email and phone", "jane@example.com +1 415 555 0100", 1.0},
		{"email only", "reach me at jane@example.com", 0.5},
		{"phone only", "call +1 (415) 555-0100", 0.5},
		{"neither", "no contact details here", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contactSignal(tt.text); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSectionCoverage(t *testing.T) {
	sections := map[string]string{
		"experience": "...",
		"skills":     "...",
		"body":       "...",
	}
	if got := sectionCoverage(sections); got != 0.5 {
		t.Errorf("Expected 0.5 for two of four standard sections, got %v", got)
	}
	if got := sectionCoverage(map[string]string{}); got != 0 {
		t.Errorf("Expected 0 for no sections, got %v", got)
	}
}

func TestBulletSignal(t *testing.T) {
	text := strings.Repeat("- did a thing\n", 5)
	if got := bulletSignal(text); got != 0.5 {
		t.Errorf("Expected 0.5 for five bullets, got %v", got)
	}

	many := strings.Repeat("* item\n", 25)
	if got := bulletSignal(many); got != 1.0 {
		t.Errorf("Expected saturation at 1.0, got %v", got)
	}
}

func TestActionVerbRatio(t *testing.T) {
	if got := actionVerbRatio("Led the team. Cooked dinner."); got != 0.5 {
		t.Errorf("Expected 0.5, got %v", got)
	}
	if got := actionVerbRatio(""); got != 0 {
		t.Errorf("Expected 0 for empty text, got %v", got)
	}
	// Punctuation around the verb must not hide it
	if got := actionVerbRatio("(improved) latency"); got != 1.0 {
		t.Errorf("Expected parenthesized verb to count, got %v", got)
	}
}

func TestKeywordDensityFromRequiredSkills(t *testing.T) {
	jd := types.ParsedJD{
		RawText:        "irrelevant",
		RequiredSkills: []string{"go", "kubernetes", "terraform"},
	}

	got := keywordDensity("Shipped Go services on Kubernetes.", jd)
	if math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("Expected 2/3, got %v", got)
	}
}

func TestKeywordDensityDerivedFromJDText(t *testing.T) {
	jd := types.ParsedJD{RawText: "rust rust rust wasm"}

	got := keywordDensity("I write rust daily", jd)
	if got != 0.5 {
		t.Errorf("Expected 0.5 with one of two derived keywords present, got %v", got)
	}

	if keywordDensity("anything", types.ParsedJD{}) != 0 {
		t.Error("Expected 0 density for an empty JD")
	}
}

func TestExperienceFit(t *testing.T) {
	tests := []struct {
		name     string
		resume   string
		jd       string
		expected float64
	}{
		{"meets explicit requirement", "7 years of backend work", "needs 5+ years", 1.0},
		{"below explicit requirement", "3 years of backend work", "needs 5 years", 0.8},
		{"no stated years but senior title", "Senior Engineer at Acme", "requires 4 years", 0.9},
		{"no stated years or seniority", "built some apps", "requires 4 years", 0.5},
		{"seniority matched", "Lead developer", "Senior role", 0.8},
		{"seniority missed", "intern projects", "Senior role", 0.4},
		{"experience hints only", "worked there since 2019", "great team", 0.75},
		{"no signals at all", "hello world", "great team", 0.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := experienceFit(tt.resume, tt.jd)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFormattingPenalty(t *testing.T) {
	if got := formattingPenalty(""); got != 1.0 {
		t.Errorf("Expected full penalty for empty text, got %v", got)
	}

	// Short text with no bullets stacks both penalties
	if got := formattingPenalty("Just a line of text."); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("Expected 0.9 for short unstructured text, got %v", got)
	}

	// A long, bulleted, well-paragraphed resume carries no penalty
	line := "- achieved measurable results across production systems and teams\n"
	para := strings.Repeat(line, 5)
	good := strings.TrimSpace(strings.Repeat(para+"\n", 7))
	if got := formattingPenalty(good); got != 0 {
		t.Errorf("Expected no penalty for well-formatted text, got %v", got)
	}
}
