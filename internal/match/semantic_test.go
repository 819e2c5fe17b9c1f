package match

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"resumate/internal/embedding"
)

// keywordEmbedder produces deterministic vectors where each dimension is
// the count of a probe keyword, making similarities predictable
type keywordEmbedder struct {
	keywords []string
	fail     bool
}

func (k *keywordEmbedder) Name() string { return "keyword" }

func (k *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if k.fail {
		return nil, fmt.Errorf("embedder down")
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, len(k.keywords))
		tokens := tokenSet(text)
		for j, kw := range k.keywords {
			if _, ok := tokens[kw]; ok {
				vec[j] = 1
			}
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func newTestMatcher(fail bool) *SemanticMatcher {
	provider := &keywordEmbedder{
		keywords: []string{"go", "python", "sql", "kubernetes", "frontend"},
		fail:     fail,
	}
	return NewSemanticMatcher(embedding.NewServiceWithProviders(nil, provider), nil)
}

func TestMatchIdenticalText(t *testing.T) {
	matcher := newTestMatcher(false)

	text := "Built Go services with SQL storage.\n\nOperated Kubernetes clusters."
	result, err := matcher.Match(context.Background(), text, text)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.OverallScore < 0.99 {
		t.Errorf("Identical text should score near 1.0, got %v", result.OverallScore)
	}
	if result.Method != "embedding" {
		t.Errorf("Expected embedding method, got %s", result.Method)
	}
	if len(result.ChunkScores) != 2 {
		t.Errorf("Expected 2 chunk scores, got %d", len(result.ChunkScores))
	}
}

func TestMatchScoreBounds(t *testing.T) {
	matcher := newTestMatcher(false)

	result, err := matcher.Match(context.Background(),
		"Go and Python and SQL experience.",
		"Frontend position requiring kubernetes.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.OverallScore < 0 || result.OverallScore > 1 {
		t.Errorf("Score out of [0,1]: %v", result.OverallScore)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	matcher := newTestMatcher(false)

	for _, pair := range [][2]string{
		{"", "JD text"},
		{"resume text", ""},
		{"", ""},
		{"\n\n  \n\n", "JD text"},
	} {
		result, err := matcher.Match(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.OverallScore != 0 {
			t.Errorf("Empty input should score 0, got %v for %q vs %q",
				result.OverallScore, pair[0], pair[1])
		}
	}
}

func TestMatchLexicalFallback(t *testing.T) {
	matcher := newTestMatcher(true) // provider always fails

	text := "Senior Go developer with Kubernetes experience."
	result, err := matcher.Match(context.Background(), text, text)
	if err != nil {
		t.Fatalf("Fallback should not surface an error, got: %v", err)
	}

	if result.Method != "lexical" {
		t.Errorf("Expected lexical fallback, got %s", result.Method)
	}
	// Identical text must score at least 0.9 on the lexical path
	if result.OverallScore < 0.9 {
		t.Errorf("Identical text on lexical path should score >= 0.9, got %v", result.OverallScore)
	}
}

func TestMatchNoEmbedderUsesLexical(t *testing.T) {
	matcher := NewSemanticMatcher(embedding.NewServiceWithProviders(nil), nil)

	result, err := matcher.Match(context.Background(), "go developer", "go developer")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Method != "lexical" {
		t.Errorf("Expected lexical method without providers, got %s", result.Method)
	}
	if result.OverallScore != 1.0 {
		t.Errorf("Identical token sets should give Jaccard 1.0, got %v", result.OverallScore)
	}
}

func TestChunkParagraphs(t *testing.T) {
	chunks := chunkParagraphs("first para\n\n\n\nsecond para\n\n   \n\nthird")
	expected := []string{"first para", "second para", "third"}
	if !slices.Equal(chunks, expected) {
		t.Errorf("Expected %v, got %v", expected, chunks)
	}
}

func TestLexicalMatchDisjoint(t *testing.T) {
	result := lexicalMatch("alpha beta", "gamma delta")
	if result.OverallScore != 0 {
		t.Errorf("Disjoint token sets should score 0, got %v", result.OverallScore)
	}
}
