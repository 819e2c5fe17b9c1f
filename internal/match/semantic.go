// Package match compares resume content against job descriptions, both
// semantically and at the skill-set level.
package match

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"resumate/internal/embedding"
	appErrors "resumate/internal/errors"
	"resumate/internal/types"
)

// SemanticMatcher scores how well resume text covers a job description.
// Embedding failures degrade to a lexical comparison instead of erroring.
type SemanticMatcher struct {
	embedder *embedding.Service
	logger   *appErrors.Logger
}

// NewSemanticMatcher creates a matcher backed by the embedding service
func NewSemanticMatcher(embedder *embedding.Service, logger *appErrors.Logger) *SemanticMatcher {
	return &SemanticMatcher{embedder: embedder, logger: logger}
}

// maxChunks bounds the number of chunks embedded per document
const maxChunks = 40

// Match computes the semantic coverage of the job description by the
// resume. Each resume chunk is scored by its best-matching JD chunk;
// chunk scores blend into the overall score weighted by chunk length.
// The overall score is clamped to [0,1].
func (m *SemanticMatcher) Match(ctx context.Context, resumeText, jdText string) (types.SemanticResult, error) {
	resumeChunks := chunkParagraphs(resumeText)
	jdChunks := chunkParagraphs(jdText)

	if len(resumeChunks) == 0 || len(jdChunks) == 0 {
		return types.SemanticResult{OverallScore: 0, Method: "embedding"}, nil
	}

	if m.embedder != nil && m.embedder.Available() {
		result, err := m.embeddingMatch(ctx, resumeChunks, jdChunks)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, embedding.ErrUnavailable) {
			return types.SemanticResult{}, err
		}
		if m.logger != nil {
			m.logger.Warn("Embeddings unavailable, falling back to lexical match",
				"error", err.Error())
		}
	}

	return lexicalMatch(resumeText, jdText), nil
}

// embeddingMatch embeds both chunk sets in one batch and scores coverage
func (m *SemanticMatcher) embeddingMatch(ctx context.Context, resumeChunks, jdChunks []string) (types.SemanticResult, error) {
	batch := make([]string, 0, len(resumeChunks)+len(jdChunks))
	batch = append(batch, resumeChunks...)
	batch = append(batch, jdChunks...)

	vectors, err := m.embedder.EmbedTexts(ctx, batch)
	if err != nil {
		return types.SemanticResult{}, err
	}

	resumeVecs := vectors[:len(resumeChunks)]
	jdVecs := vectors[len(resumeChunks):]

	var weightedSum, totalWeight float64
	chunkScores := make([]types.ChunkScore, len(resumeChunks))
	for i, chunk := range resumeChunks {
		best := 0.0
		for _, jdVec := range jdVecs {
			if sim := embedding.Similarity(resumeVecs[i], jdVec); sim > best {
				best = sim
			}
		}
		chunkScores[i] = types.ChunkScore{Chunk: chunk, Similarity: best}

		weight := float64(len(chunk))
		weightedSum += best * weight
		totalWeight += weight
	}

	overall := 0.0
	if totalWeight > 0 {
		overall = weightedSum / totalWeight
	}

	return types.SemanticResult{
		OverallScore: clamp01(overall),
		ChunkScores:  chunkScores,
		Method:       "embedding",
	}, nil
}

// lexicalMatch is the degraded path: Jaccard similarity over token sets.
// Identical texts score 1.0, disjoint texts 0.0.
func lexicalMatch(resumeText, jdText string) types.SemanticResult {
	resumeTokens := tokenSet(resumeText)
	jdTokens := tokenSet(jdText)

	if len(resumeTokens) == 0 || len(jdTokens) == 0 {
		return types.SemanticResult{OverallScore: 0, Method: "lexical"}
	}

	intersection := 0
	for token := range resumeTokens {
		if _, ok := jdTokens[token]; ok {
			intersection++
		}
	}
	union := len(resumeTokens) + len(jdTokens) - intersection

	return types.SemanticResult{
		OverallScore: clamp01(float64(intersection) / float64(union)),
		Method:       "lexical",
	}
}

// chunkParagraphs splits text into paragraph chunks on blank lines,
// dropping whitespace-only paragraphs and capping the chunk count
func chunkParagraphs(text string) []string {
	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		chunks = append(chunks, para)
		if len(chunks) == maxChunks {
			break
		}
	}
	return chunks
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		set[token] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
