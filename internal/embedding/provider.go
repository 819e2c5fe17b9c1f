package embedding

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"resumate/internal/config"
	appErrors "resumate/internal/errors"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// Provider produces embedding vectors for batches of text
type Provider interface {
	// Name identifies the provider in logs and stats
	Name() string
	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// GeminiEmbedder implements Provider using the Gemini embedding API
type GeminiEmbedder struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *appErrors.Logger
}

var _ Provider = (*GeminiEmbedder)(nil)

// NewGeminiEmbedder creates a Gemini-backed embedding provider
func NewGeminiEmbedder(cfg config.EmbeddingConfig, apiKey string, logger *appErrors.Logger) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, appErrors.NewEmbeddingError(appErrors.ErrCodeMissingAPIKey,
			"Gemini embedding provider requires an API key", nil)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, appErrors.NewEmbeddingError(appErrors.ErrCodeEmbeddingUnavailable,
			"Failed to create Gemini embedding client", err)
	}

	return &GeminiEmbedder{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Name implements Provider
func (g *GeminiEmbedder) Name() string {
	return "gemini"
}

// Embed implements Provider. A single API call embeds the whole batch.
func (g *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embedCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		embedCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	resp, err := g.embedWithRetry(embedCtx, contents)
	if err != nil {
		return nil, fmt.Errorf("gemini embed failed: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for i, emb := range resp.Embeddings {
		vec := make([]float64, len(emb.Values))
		for j, v := range emb.Values {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}

	return vectors, nil
}

// embedWithRetry retries transient failures with a short fixed backoff.
// Embedding batches are cheap, so the retry policy is simpler than the
// exponential one used for generation calls.
func (g *GeminiEmbedder) embedWithRetry(ctx context.Context, contents []*genai.Content) (*genai.EmbedContentResponse, error) {
	const maxAttempts = 3

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if g.logger != nil {
				g.logger.Warn("Retrying embedding batch",
					"attempt", attempt,
					"error", lastErr.Error())
			}
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, nil)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryableEmbedError(err) {
			break
		}
	}

	return nil, lastErr
}

// isRetryableEmbedError mirrors the retry classification used for generation
func isRetryableEmbedError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
