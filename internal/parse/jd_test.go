package parse

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"resumate/internal/skills"
	"resumate/internal/types"
)

type fakeLLM struct {
	requirements types.JobRequirements
	err          error
	calls        int
}

func (f *fakeLLM) ExtractJobRequirements(_ context.Context, _ string) (types.JobRequirements, error) {
	f.calls++
	return f.requirements, f.err
}

func newTestJDAnalyzer(llm RequirementsExtractor) *JDAnalyzer {
	extractor := skills.NewExtractorWithVocabulary(skills.DefaultVocabulary(), 3)
	return NewJDAnalyzer(extractor, llm, nil)
}

func TestAnalyzeWithLLM(t *testing.T) {
	llm := &fakeLLM{
		requirements: types.JobRequirements{
			Title:          "Backend Engineer",
			RequiredSkills: []string{"Go", " PostgreSQL ", "go"},
			NiceToHave:     []string{"Kubernetes"},
			Experience:     "5+ years",
			Education:      "BSc or equivalent",
		},
	}
	analyzer := newTestJDAnalyzer(llm)

	jd, err := analyzer.Analyze(context.Background(), "We need a backend engineer.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if jd.Source != "llm" {
		t.Errorf("Expected llm source, got %s", jd.Source)
	}
	if jd.Title != "Backend Engineer" {
		t.Errorf("Expected title from extraction, got %q", jd.Title)
	}
	// Skills come back lowercased, trimmed, deduplicated, in order
	if !slices.Equal(jd.RequiredSkills, []string{"go", "postgresql"}) {
		t.Errorf("Expected normalized skills, got %v", jd.RequiredSkills)
	}
	if !slices.Equal(jd.NiceToHave, []string{"kubernetes"}) {
		t.Errorf("Expected normalized nice-to-have, got %v", jd.NiceToHave)
	}
	if llm.calls != 1 {
		t.Errorf("Expected one extraction call, got %d", llm.calls)
	}
}

func TestAnalyzeLLMFailureFallsBack(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("model overloaded")}
	analyzer := newTestJDAnalyzer(llm)

	jd, err := analyzer.Analyze(context.Background(), "Senior Go Engineer\n\nMust know Go and Docker.")
	if err != nil {
		t.Fatalf("Extraction failure should degrade, not error: %v", err)
	}

	if jd.Source != "heuristic" {
		t.Errorf("Expected heuristic source after LLM failure, got %s", jd.Source)
	}
	if !slices.Contains(jd.RequiredSkills, "go") {
		t.Errorf("Expected heuristic skills, got %v", jd.RequiredSkills)
	}
}

func TestAnalyzeLLMEmptySkillsUsesExtractor(t *testing.T) {
	// Model returned a title but no skills; the extractor fills the gap
	llm := &fakeLLM{requirements: types.JobRequirements{Title: "Platform Engineer"}}
	analyzer := newTestJDAnalyzer(llm)

	jd, err := analyzer.Analyze(context.Background(), "Experience with Kubernetes and Terraform required.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if jd.Source != "llm" {
		t.Errorf("Expected llm source, got %s", jd.Source)
	}
	if len(jd.RequiredSkills) == 0 {
		t.Error("Expected extractor-derived skills when model returns none")
	}
}

func TestAnalyzeHeuristic(t *testing.T) {
	analyzer := newTestJDAnalyzer(nil)

	text := `Senior Backend Engineer

Requirements:
5+ years of experience with Go
Skills: Go, PostgreSQL, Docker
Bachelor degree in computer science
Nice to have: Kubernetes
`

	jd, err := analyzer.Analyze(context.Background(), text)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if jd.Source != "heuristic" {
		t.Errorf("Expected heuristic source, got %s", jd.Source)
	}
	if jd.Title != "Senior Backend Engineer" {
		t.Errorf("Expected first line as title, got %q", jd.Title)
	}
	if !strings.Contains(jd.Experience, "5+ years") {
		t.Errorf("Expected years requirement captured, got %q", jd.Experience)
	}
	if !strings.Contains(strings.ToLower(jd.Education), "bachelor") {
		t.Errorf("Expected education line captured, got %q", jd.Education)
	}
	for _, want := range []string{"go", "postgresql", "docker"} {
		if !slices.Contains(jd.RequiredSkills, want) {
			t.Errorf("Expected %q in required skills, got %v", want, jd.RequiredSkills)
		}
	}
	if !slices.Contains(jd.NiceToHave, "kubernetes") {
		t.Errorf("Expected kubernetes in nice-to-have, got %v", jd.NiceToHave)
	}
}

func TestAnalyzeLabeledTitle(t *testing.T) {
	analyzer := newTestJDAnalyzer(nil)

	jd, err := analyzer.Analyze(context.Background(), "About us: we build things.\nJob Title: Data Engineer\nSkills: SQL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if jd.Title != "Data Engineer" {
		t.Errorf("Expected labeled title to win, got %q", jd.Title)
	}
}

func TestAnalyzeEmptyJD(t *testing.T) {
	analyzer := newTestJDAnalyzer(nil)

	for _, text := range []string{"", "   \n \t "} {
		if _, err := analyzer.Analyze(context.Background(), text); err == nil {
			t.Errorf("Expected error for empty JD %q", text)
		}
	}
}

func TestNormalizeSkills(t *testing.T) {
	got := normalizeSkills([]string{" Go ", "go", "", "SQL", "sql", "Rust"})
	if !slices.Equal(got, []string{"go", "sql", "rust"}) {
		t.Errorf("Expected order-preserving dedup, got %v", got)
	}
}
