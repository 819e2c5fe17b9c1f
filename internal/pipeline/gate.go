package pipeline

import (
	"context"

	"resumate/internal/types"

	"golang.org/x/sync/semaphore"
)

// Gate bounds simultaneous external LLM calls across the whole
// process. Calls beyond capacity queue rather than fail.
type Gate struct {
	sem *semaphore.Weighted
}

// NewGate creates a gate with the given number of permits. Non-positive
// values fall back to two permits.
func NewGate(permits int64) *Gate {
	if permits <= 0 {
		permits = 2
	}
	return &Gate{sem: semaphore.NewWeighted(permits)}
}

// Do runs fn while holding one permit, blocking until one is free or
// the context is cancelled
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)
	return fn(ctx)
}

// RequirementsExtractor mirrors the JD analyzer's LLM dependency
type RequirementsExtractor interface {
	ExtractJobRequirements(ctx context.Context, jdText string) (types.JobRequirements, error)
}

// GatedExtractor routes requirement extraction through the LLM gate so
// extraction and optimization share the same concurrency budget
type GatedExtractor struct {
	inner RequirementsExtractor
	gate  *Gate
}

// NewGatedExtractor wraps an extractor with the gate
func NewGatedExtractor(inner RequirementsExtractor, gate *Gate) *GatedExtractor {
	return &GatedExtractor{inner: inner, gate: gate}
}

// ExtractJobRequirements implements the extractor contract under the gate
func (e *GatedExtractor) ExtractJobRequirements(ctx context.Context, jdText string) (types.JobRequirements, error) {
	var out types.JobRequirements
	err := e.gate.Do(ctx, func(ctx context.Context) error {
		var innerErr error
		out, innerErr = e.inner.ExtractJobRequirements(ctx, jdText)
		return innerErr
	})
	return out, err
}
