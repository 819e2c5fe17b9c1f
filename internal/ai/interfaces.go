package ai

import (
	"context"

	"resumate/internal/types"
)

// AIProvider is the contract for LLM-backed operations.
// All methods return token usage information; callers can ignore it.
type AIProvider interface {
	OptimizeResume(ctx context.Context, input types.OptimizeInput) (types.OptimizedResume, *TokenUsage, error)
	ExtractJobRequirements(ctx context.Context, jobDescription string) (types.JobRequirements, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
