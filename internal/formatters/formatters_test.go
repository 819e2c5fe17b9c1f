package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumate/internal/types"
)

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		JD: types.ParsedJD{
			Title:          "Backend Engineer",
			RequiredSkills: []string{"go", "postgresql"},
			Experience:     "5+ years",
			Source:         "heuristic",
		},
		Skills: types.SkillComparison{
			Matched:       []string{"go"},
			Missing:       []string{"postgresql"},
			SkillFitIndex: 0.5,
		},
		ATS: types.ATSResult{
			Score:          72.5,
			Interpretation: "good match",
			Components: types.ScoreComponents{
				SemanticMatch:  80,
				KeywordMatch:   65,
				Structure:      75,
				ActionLanguage: 60,
			},
			Suggestions: []string{"Add PostgreSQL experience to your resume"},
		},
		Optimization: &types.OptimizedResume{
			OptimizedText:     "Rewritten resume body",
			SuggestedKeywords: []string{"postgresql"},
			Changes:           []string{"Rephrased experience bullets"},
		},
		Warnings: []string{"semantic matching degraded to lexical comparison"},
	}
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleResult(), "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded types.AnalysisResult
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("JSON output should parse: %v", err)
	}
	if decoded.ATS.Score != 72.5 {
		t.Errorf("Expected score 72.5, got %v", decoded.ATS.Score)
	}
}

func TestTextFormatter(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleResult(), "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"72.5/100",
		"good match",
		"Backend Engineer",
		"postgresql",
		"OPTIMIZED RESUME",
		"Rewritten resume body",
		"WARNINGS",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Text output missing %q:\n%s", want, output)
		}
	}
}

func TestMarkdownFormatter(t *testing.T) {
	output, err := GlobalRegistry.Format(sampleResult(), "markdown")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.HasPrefix(output, "# Resume Analysis") {
		t.Errorf("Markdown output should start with the title, got:\n%s", output)
	}
	for _, want := range []string{
		"## Score Breakdown",
		"| Semantic match | 80.0 |",
		"### Missing",
		"## Optimized Resume",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Markdown output missing %q", want)
		}
	}
}

func TestUnknownFormatRejected(t *testing.T) {
	if _, err := GlobalRegistry.Format(sampleResult(), "xml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestJSONFallbackForUnknownType(t *testing.T) {
	output, err := GlobalRegistry.Format(map[string]string{"key": "value"}, "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, `"key": "value"`) {
		t.Errorf("Unexpected JSON output: %s", output)
	}
}

func TestTextFormatterWithoutOptimization(t *testing.T) {
	result := sampleResult()
	result.Optimization = nil

	output, err := GlobalRegistry.Format(result, "text")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(output, "OPTIMIZED RESUME") {
		t.Error("Text output should omit the optimization section when absent")
	}
}
