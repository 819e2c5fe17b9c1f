package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
)

// countingProvider records how many texts it was asked to embed
type countingProvider struct {
	calls     int
	textCount int
	fail      bool
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Embed(_ context.Context, texts []string) ([][]float64, error) {
	p.calls++
	p.textCount += len(texts)
	if p.fail {
		return nil, fmt.Errorf("provider down")
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		// Deterministic per-text vector so cache correctness is observable
		vectors[i] = []float64{float64(len(text)), 1, 0}
	}
	return vectors, nil
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
		exact    bool
	}{
		{
			name:     "identical vectors",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float64{1, 0},
			b:        []float64{0, 1},
			expected: 0.0,
			exact:    true,
		},
		{
			name:     "opposite vectors",
			a:        []float64{1, 0},
			b:        []float64{-1, 0},
			expected: -1.0,
		},
		{
			name:     "zero vector returns exactly zero",
			a:        []float64{0, 0, 0},
			b:        []float64{1, 2, 3},
			expected: 0.0,
			exact:    true,
		},
		{
			name:     "empty vector returns exactly zero",
			a:        nil,
			b:        []float64{1, 2, 3},
			expected: 0.0,
			exact:    true,
		},
		{
			name:     "both empty returns exactly zero",
			a:        nil,
			b:        nil,
			expected: 0.0,
			exact:    true,
		},
		{
			name:     "length mismatch returns exactly zero",
			a:        []float64{1, 2},
			b:        []float64{1, 2, 3},
			expected: 0.0,
			exact:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if tt.exact {
				if got != tt.expected {
					t.Errorf("Expected exactly %v, got %v", tt.expected, got)
				}
				return
			}
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSimilarityNeverNaN(t *testing.T) {
	cases := [][2][]float64{
		{{0, 0}, {0, 0}},
		{nil, nil},
		{{0}, {1}},
	}
	for _, c := range cases {
		if got := Similarity(c[0], c[1]); math.IsNaN(got) {
			t.Errorf("Similarity(%v, %v) returned NaN", c[0], c[1])
		}
	}
}

func TestEmbedTextsCachesExactText(t *testing.T) {
	provider := &countingProvider{}
	svc := NewServiceWithProviders(nil, provider)
	ctx := context.Background()

	first, err := svc.EmbedTexts(ctx, []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.textCount != 2 {
		t.Fatalf("Expected 2 texts embedded, got %d", provider.textCount)
	}

	// Same texts again: must be served entirely from cache
	second, err := svc.EmbedTexts(ctx, []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.textCount != 2 {
		t.Errorf("Expected cache hit, provider embedded %d texts", provider.textCount)
	}
	for i := range first {
		if Similarity(first[i], second[i]) != 1.0 && len(first[i]) != len(second[i]) {
			t.Error("Cached vector differs from original")
		}
	}

	// Whitespace variant is a different cache key
	if _, err := svc.EmbedTexts(ctx, []string{"alpha "}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.textCount != 3 {
		t.Errorf("Expected whitespace variant to miss the cache, provider embedded %d texts", provider.textCount)
	}

	stats := svc.Stats()
	if stats.Hits != 2 || stats.Misses != 3 {
		t.Errorf("Expected 2 hits and 3 misses, got %+v", stats)
	}
}

func TestEmbedTextsPartialCacheHit(t *testing.T) {
	provider := &countingProvider{}
	svc := NewServiceWithProviders(nil, provider)
	ctx := context.Background()

	if _, err := svc.EmbedTexts(ctx, []string{"alpha"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// One cached, one new: only the miss goes to the provider
	if _, err := svc.EmbedTexts(ctx, []string{"alpha", "gamma"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.textCount != 2 {
		t.Errorf("Expected only the new text to be embedded, provider saw %d texts", provider.textCount)
	}
}

func TestClearCacheAllowsRepopulation(t *testing.T) {
	provider := &countingProvider{}
	svc := NewServiceWithProviders(nil, provider)
	ctx := context.Background()

	if _, err := svc.EmbedTexts(ctx, []string{"alpha"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	svc.ClearCache()

	if _, err := svc.EmbedTexts(ctx, []string{"alpha"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if provider.textCount != 2 {
		t.Errorf("Expected re-embedding after clear, provider saw %d texts", provider.textCount)
	}
}

func TestEmbedTextsUnavailable(t *testing.T) {
	t.Run("no providers", func(t *testing.T) {
		svc := NewServiceWithProviders(nil)
		_, err := svc.EmbedTexts(context.Background(), []string{"alpha"})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("Expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("failing provider", func(t *testing.T) {
		svc := NewServiceWithProviders(nil, &countingProvider{fail: true})
		_, err := svc.EmbedTexts(context.Background(), []string{"alpha"})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("Expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("fallback to second provider", func(t *testing.T) {
		bad := &countingProvider{fail: true}
		good := &countingProvider{}
		svc := NewServiceWithProviders(nil, bad, good)

		vectors, err := svc.EmbedTexts(context.Background(), []string{"alpha"})
		if err != nil {
			t.Fatalf("Expected fallback success, got %v", err)
		}
		if len(vectors) != 1 || len(vectors[0]) == 0 {
			t.Error("Expected a vector from the fallback provider")
		}
		if bad.calls != 1 || good.calls != 1 {
			t.Errorf("Expected both providers tried once, got %d and %d", bad.calls, good.calls)
		}
	})
}

func TestAvailable(t *testing.T) {
	if NewServiceWithProviders(nil).Available() {
		t.Error("Service with no providers should not report available")
	}
	if !NewServiceWithProviders(nil, &countingProvider{}).Available() {
		t.Error("Service with a provider should report available")
	}
}
