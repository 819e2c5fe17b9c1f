// Package scoring blends semantic, keyword, and structural signals into
// a single compatibility score with a component breakdown and
// improvement suggestions.
package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"resumate/internal/config"
	appErrors "resumate/internal/errors"
	"resumate/internal/types"
)

// fullActionRatio is the sentence ratio treated as full marks for
// active language; resumes rarely exceed it
const fullActionRatio = 0.4

// Engine computes ATS compatibility scores. Identical inputs under
// identical weights hit an in-memory result cache.
type Engine struct {
	weights        config.WeightsConfig
	threshold      float64
	maxSuggestions int
	cacheEnabled   bool

	cache  sync.Map
	hits   atomic.Int64
	misses atomic.Int64

	logger *appErrors.Logger
}

// NewEngine creates a scoring engine from configuration. Unusable
// weight sets fall back to the built-in defaults.
func NewEngine(cfg config.ScoringConfig, logger *appErrors.Logger) *Engine {
	weights := cfg.Weights
	if err := weights.Validate(); err != nil {
		if logger != nil {
			logger.Warn("Invalid scoring weights, using defaults", "error", err.Error())
		}
		weights = config.DefaultWeights()
	}

	threshold := cfg.SuggestionThreshold
	if threshold <= 0 {
		threshold = 60
	}
	maxSuggestions := cfg.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = 5
	}

	return &Engine{
		weights:        weights,
		threshold:      threshold,
		maxSuggestions: maxSuggestions,
		cacheEnabled:   cfg.CacheEnabled,
		logger:         logger,
	}
}

// Score blends the match results with structural signals using the
// engine's configured weights.
func (e *Engine) Score(resume types.ParsedResume, jd types.ParsedJD, semantic types.SemanticResult, skills types.SkillComparison) types.ATSResult {
	return e.ScoreWithWeights(resume, jd, semantic, skills, e.weights)
}

// ScoreWithWeights scores with a caller-provided weight set. Weights
// are renormalized to sum to 1; an unusable set falls back to the
// engine's configured weights.
func (e *Engine) ScoreWithWeights(resume types.ParsedResume, jd types.ParsedJD, semantic types.SemanticResult, skills types.SkillComparison, weights config.WeightsConfig) types.ATSResult {
	if err := weights.Validate(); err != nil {
		if e.logger != nil {
			e.logger.Warn("Rejecting caller weights", "error", err.Error())
		}
		weights = e.weights
	}
	weights = normalizeWeights(weights)

	key := cacheKey(resume.RawText, jd.RawText, semantic.OverallScore, skills.SkillFitIndex, weights)
	if e.cacheEnabled {
		if cached, ok := e.cache.Load(key); ok {
			e.hits.Add(1)
			return cached.(types.ATSResult)
		}
	}
	e.misses.Add(1)

	components := e.computeComponents(resume, jd, semantic, skills)

	score := weights.Semantic*components.SemanticMatch +
		weights.Keyword*components.KeywordMatch +
		weights.Structure*components.Structure +
		weights.Action*components.ActionLanguage
	score = round2(math.Min(100, math.Max(0, score)))

	result := types.ATSResult{
		Score:          score,
		Components:     components,
		Interpretation: Interpret(score),
		Suggestions:    e.suggestions(components, skills),
	}

	if e.cacheEnabled {
		e.cache.Store(key, result)
	}
	return result
}

func (e *Engine) computeComponents(resume types.ParsedResume, jd types.ParsedJD, semantic types.SemanticResult, skills types.SkillComparison) types.ScoreComponents {
	density := keywordDensity(resume.RawText, jd)
	penalty := formattingPenalty(resume.RawText)

	structure := 0.25*contactSignal(resume.RawText) +
		0.25*sectionCoverage(resume.Sections) +
		0.25*bulletSignal(resume.RawText) +
		0.25*(1-penalty)

	return types.ScoreComponents{
		SemanticMatch:  round2(100 * clamp01(semantic.OverallScore)),
		KeywordMatch:   round2(100 * clamp01(0.7*skills.SkillFitIndex+0.3*density)),
		Structure:      round2(100 * clamp01(structure)),
		ActionLanguage: round2(100 * clamp01(actionVerbRatio(resume.RawText)/fullActionRatio)),

		KeywordDensity:    round2(100 * density),
		ExperienceFit:     round2(100 * experienceFit(resume.RawText, jd.RawText)),
		FormattingPenalty: round2(100 * penalty),
	}
}

// suggestions derives guidance from below-threshold components, capped
// to keep the output scannable
func (e *Engine) suggestions(c types.ScoreComponents, skills types.SkillComparison) []string {
	var out []string

	if c.KeywordMatch < e.threshold && len(skills.Missing) > 0 {
		shown := skills.Missing
		if len(shown) > 3 {
			shown = shown[:3]
		}
		out = append(out, fmt.Sprintf("Add or highlight missing skills the role asks for: %s.",
			strings.Join(shown, ", ")))
	}
	if c.SemanticMatch < e.threshold {
		out = append(out, "Align your experience descriptions with the responsibilities in the job description.")
	}
	if c.ActionLanguage < e.threshold {
		out = append(out, "Use more action verbs (achieved, improved, designed, led) to describe your impact.")
	}
	if c.Structure < e.threshold {
		out = append(out, "Add standard section headers and use concise bullet points.")
	}
	if c.FormattingPenalty > 50 {
		out = append(out, "Expand the resume; very short or dense documents score poorly with automated screens.")
	}
	if c.ExperienceFit < 50 {
		out = append(out, "State your years of experience explicitly and emphasize senior responsibilities where applicable.")
	}

	if len(out) > e.maxSuggestions {
		out = out[:e.maxSuggestions]
	}
	return out
}

// Interpret maps a score to its qualitative band
func Interpret(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Moderate"
	default:
		return "Poor"
	}
}

// CacheStats reports cache hit and miss counts since startup
func (e *Engine) CacheStats() (hits, misses int64) {
	return e.hits.Load(), e.misses.Load()
}

// ClearCache drops all memoized scores
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// normalizeWeights scales a validated weight set so it sums to 1
func normalizeWeights(w config.WeightsConfig) config.WeightsConfig {
	sum := w.Semantic + w.Keyword + w.Structure + w.Action
	if sum <= 0 {
		return w
	}
	return config.WeightsConfig{
		Semantic:  w.Semantic / sum,
		Keyword:   w.Keyword / sum,
		Structure: w.Structure / sum,
		Action:    w.Action / sum,
	}
}

func cacheKey(resumeText, jdText string, semantic, fit float64, w config.WeightsConfig) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%.9f\x00%.9f\x00%.9f,%.9f,%.9f,%.9f",
		resumeText, jdText, semantic, fit, w.Semantic, w.Keyword, w.Structure, w.Action)
	return hex.EncodeToString(h.Sum(nil))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
