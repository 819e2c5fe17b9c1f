package ai

import (
	"context"
	"fmt"
	"sync"

	"resumate/internal/config"
	"resumate/internal/errors"
	"resumate/internal/types"
)

// Service handles LLM operations for one configured operation type.
// It adapts the provider's token-usage-aware methods to the simpler
// signatures the pipeline consumes.
type Service struct {
	Provider AIProvider // Exported for access from the server package
	config   *config.OperationAIConfig
	logger   *errors.Logger

	mu            sync.RWMutex
	usageObserver func(ctx context.Context, operation string, usage *TokenUsage)
}

// SetUsageObserver installs a callback invoked with the token usage of
// each successful call. The server wires metrics through it.
func (s *Service) SetUsageObserver(fn func(ctx context.Context, operation string, usage *TokenUsage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usageObserver = fn
}

func (s *Service) observeUsage(ctx context.Context, operation string, usage *TokenUsage) {
	if usage == nil {
		return
	}
	s.mu.RLock()
	fn := s.usageObserver
	s.mu.RUnlock()
	if fn != nil {
		fn(ctx, operation, usage)
	}
}

// NewService creates an AI service for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries)

	var provider AIProvider
	var err error

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeLLMUnavailable,
			"Failed to create AI provider", err)
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// OptimizeResume runs the resume optimization operation
func (s *Service) OptimizeResume(ctx context.Context, input types.OptimizeInput) (types.OptimizedResume, error) {
	output, usage, err := s.Provider.OptimizeResume(ctx, input)
	if err != nil {
		return types.OptimizedResume{}, err
	}
	s.logTokenUsage("optimize_resume", usage)
	s.observeUsage(ctx, "optimize_resume", usage)
	return output, nil
}

// ExtractJobRequirements runs structured JD extraction. The signature
// matches what the JD analyzer consumes.
func (s *Service) ExtractJobRequirements(ctx context.Context, jobDescription string) (types.JobRequirements, error) {
	output, usage, err := s.Provider.ExtractJobRequirements(ctx, jobDescription)
	if err != nil {
		return types.JobRequirements{}, err
	}
	s.logTokenUsage("extract_requirements", usage)
	s.observeUsage(ctx, "extract_requirements", usage)
	return output, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// CircuitBreakerStats exposes breaker state when the provider supports it
func (s *Service) CircuitBreakerStats() map[string]any {
	if g, ok := s.Provider.(*GeminiProvider); ok {
		return g.GetCircuitBreakerStats()
	}
	return map[string]any{"enabled": false}
}

// Close releases provider resources
func (s *Service) Close() error {
	return s.Provider.Close()
}

func (s *Service) logTokenUsage(operation string, usage *TokenUsage) {
	if usage == nil {
		return
	}
	s.logger.Debug("AI operation token usage",
		"operation", operation,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"total_tokens", usage.TotalTokens)
}
