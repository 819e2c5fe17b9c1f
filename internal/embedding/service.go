package embedding

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"resumate/internal/config"
	appErrors "resumate/internal/errors"
)

// ErrUnavailable indicates that no embedding provider could serve the
// request. Callers are expected to fall back to lexical comparison.
var ErrUnavailable = errors.New("embedding providers unavailable")

// Service embeds text through an ordered provider chain and caches results
// for the lifetime of the process. The cache key is the exact input text:
// no normalization happens before lookup, so texts differing only in
// whitespace occupy separate entries.
type Service struct {
	providers []Provider
	cache     sync.Map // string -> []float64
	logger    *appErrors.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewService builds the embedding service from configuration. With the
// offline flag set, or no API key, the provider chain is empty and every
// embed request returns ErrUnavailable.
func NewService(cfg config.EmbeddingConfig, apiKey string, logger *appErrors.Logger) *Service {
	svc := &Service{logger: logger}

	if cfg.Offline {
		if logger != nil {
			logger.Info("Embedding service running offline, lexical fallback only")
		}
		return svc
	}

	gemini, err := NewGeminiEmbedder(cfg, apiKey, logger)
	if err != nil {
		if logger != nil {
			logger.Warn("Gemini embedding provider unavailable",
				"error", err.Error())
		}
		return svc
	}

	svc.providers = append(svc.providers, gemini)
	return svc
}

// NewServiceWithProviders builds a service around explicit providers
func NewServiceWithProviders(logger *appErrors.Logger, providers ...Provider) *Service {
	return &Service{providers: providers, logger: logger}
}

// Available reports whether any provider is configured
func (s *Service) Available() bool {
	return len(s.providers) > 0
}

// EmbedTexts returns one vector per input text, serving cached entries where
// possible and embedding only the misses. Returns ErrUnavailable (wrapped)
// when no provider can serve the uncached texts.
func (s *Service) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	results := make([][]float64, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if cached, ok := s.cache.Load(text); ok {
			results[i] = cached.([]float64)
			s.hits.Add(1)
			continue
		}
		s.misses.Add(1)
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return results, nil
	}

	vectors, err := s.embedThroughChain(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, vec := range vectors {
		results[missingIdx[j]] = vec
		s.cache.Store(missing[j], vec)
	}

	return results, nil
}

// EmbedText embeds a single text
func (s *Service) EmbedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := s.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// embedThroughChain tries each provider in order until one succeeds
func (s *Service) embedThroughChain(ctx context.Context, texts []string) ([][]float64, error) {
	if len(s.providers) == 0 {
		return nil, ErrUnavailable
	}

	var lastErr error
	for _, provider := range s.providers {
		vectors, err := provider.Embed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if s.logger != nil {
			s.logger.Warn("Embedding provider failed, trying next",
				"provider", provider.Name(),
				"batch_size", len(texts),
				"error", err.Error())
		}
	}

	return nil, errors.Join(ErrUnavailable, lastErr)
}

// ClearCache drops every cached vector. Safe to call concurrently with
// in-flight embeds; entries being computed at clear time may repopulate
// the cache after it returns.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// CacheStats reports cumulative cache behavior since process start
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Stats returns a snapshot of cache hit/miss counters
func (s *Service) Stats() CacheStats {
	return CacheStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
	}
}

// Similarity computes the cosine similarity of two vectors. Returns exactly
// 0.0 when either vector is empty or has zero norm, rather than NaN.
func Similarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
