// Package pipeline orchestrates one analysis request through parsing,
// matching, scoring, and optional LLM optimization.
package pipeline

import (
	"context"
	"sync"
	"time"

	"resumate/internal/config"
	appErrors "resumate/internal/errors"
	"resumate/internal/extract"
	"resumate/internal/match"
	"resumate/internal/parse"
	"resumate/internal/scoring"
	"resumate/internal/types"

	"golang.org/x/sync/errgroup"
)

// Optimizer is the optional LLM-backed resume optimization dependency
type Optimizer interface {
	OptimizeResume(ctx context.Context, input types.OptimizeInput) (types.OptimizedResume, error)
}

// AnalyzeRequest carries one analysis request through the pipeline
type AnalyzeRequest struct {
	ResumeData     []byte
	ResumeFormat   extract.Format
	JobDescription string
	TargetRole     string
	Weights        *config.WeightsConfig // optional override
}

// Engine sequences the analysis phases. Parsing and matching each fan
// out and join; optimization runs under the process-wide LLM gate and
// fails soft.
type Engine struct {
	resumeParser *parse.ResumeParser
	jdAnalyzer   *parse.JDAnalyzer
	matcher      *match.SemanticMatcher
	scorer       *scoring.Engine
	optimizer    Optimizer
	gate         *Gate
	history      *History
	logger       *appErrors.Logger

	mu         sync.RWMutex
	aiObserver func(ctx context.Context, operation string, duration time.Duration, err error)
}

// Options holds the engine's dependencies. Optimizer may be nil when
// no LLM is configured; the pipeline then skips optimization.
type Options struct {
	ResumeParser *parse.ResumeParser
	JDAnalyzer   *parse.JDAnalyzer
	Matcher      *match.SemanticMatcher
	Scorer       *scoring.Engine
	Optimizer    Optimizer
	Gate         *Gate
	History      *History
	Logger       *appErrors.Logger
}

// NewEngine creates the orchestration engine
func NewEngine(opts Options) *Engine {
	gate := opts.Gate
	if gate == nil {
		gate = NewGate(2)
	}
	history := opts.History
	if history == nil {
		history = NewHistory()
	}
	return &Engine{
		resumeParser: opts.ResumeParser,
		jdAnalyzer:   opts.JDAnalyzer,
		matcher:      opts.Matcher,
		scorer:       opts.Scorer,
		optimizer:    opts.Optimizer,
		gate:         gate,
		history:      history,
		logger:       opts.Logger,
	}
}

// History exposes the engine's analysis history
func (e *Engine) History() *History {
	return e.history
}

// SetAIObserver installs a callback invoked after each LLM call. The
// server uses it to feed AI metrics once observability is initialized.
func (e *Engine) SetAIObserver(fn func(ctx context.Context, operation string, duration time.Duration, err error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.aiObserver = fn
}

func (e *Engine) observeAI(ctx context.Context, operation string, duration time.Duration, err error) {
	e.mu.RLock()
	fn := e.aiObserver
	e.mu.RUnlock()
	if fn != nil {
		fn(ctx, operation, duration, err)
	}
}

// Analyze runs the full pipeline for one request. The result is either
// complete or the request fails with one classified error; a failed
// optimization only adds a warning.
func (e *Engine) Analyze(ctx context.Context, req AnalyzeRequest) (types.AnalysisResult, error) {
	started := time.Now()
	var result types.AnalysisResult

	// Parsing phase: resume and JD parse concurrently, both must succeed
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		text, err := extract.Text(req.ResumeFormat, req.ResumeData)
		if err != nil {
			return err
		}
		resume, err := e.resumeParser.Parse(text)
		if err != nil {
			return err
		}
		result.Resume = resume
		return nil
	})
	group.Go(func() error {
		jd, err := e.jdAnalyzer.Analyze(groupCtx, req.JobDescription)
		if err != nil {
			return err
		}
		result.JD = jd
		return nil
	})
	if err := group.Wait(); err != nil {
		return types.AnalysisResult{}, err
	}

	// Match phase: semantic match and skill comparison are independent
	group, groupCtx = errgroup.WithContext(ctx)
	group.Go(func() error {
		semantic, err := e.matcher.Match(groupCtx, result.Resume.RawText, result.JD.RawText)
		if err != nil {
			return err
		}
		result.Semantic = semantic
		return nil
	})
	group.Go(func() error {
		result.Skills = match.CompareSkills(result.Resume.Profile.Flatten(), result.JD.RequiredSkills)
		return nil
	})
	if err := group.Wait(); err != nil {
		return types.AnalysisResult{}, err
	}

	if result.Semantic.Method == "lexical" {
		result.Warnings = append(result.Warnings,
			"semantic matching degraded to lexical comparison; embedding provider unavailable")
	}

	// Score phase
	if req.Weights != nil {
		result.ATS = e.scorer.ScoreWithWeights(result.Resume, result.JD, result.Semantic, result.Skills, *req.Weights)
	} else {
		result.ATS = e.scorer.Score(result.Resume, result.JD, result.Semantic, result.Skills)
	}

	// Optimize phase: gated and soft-failing
	e.optimize(ctx, req, &result)

	if e.logger != nil {
		e.logger.Info("Analysis completed",
			"score", result.ATS.Score,
			"interpretation", result.ATS.Interpretation,
			"semantic_method", result.Semantic.Method,
			"jd_source", result.JD.Source,
			"warnings", len(result.Warnings),
			"duration_ms", time.Since(started).Milliseconds())
	}

	e.history.Append(result)
	return result, nil
}

func (e *Engine) optimize(ctx context.Context, req AnalyzeRequest, result *types.AnalysisResult) {
	if e.optimizer == nil {
		return
	}

	input := types.OptimizeInput{
		ResumeText:     result.Resume.RawText,
		JobDescription: result.JD.RawText,
		TargetRole:     req.TargetRole,
		MissingSkills:  result.Skills.Missing,
	}

	var optimized types.OptimizedResume
	started := time.Now()
	err := e.gate.Do(ctx, func(ctx context.Context) error {
		var innerErr error
		optimized, innerErr = e.optimizer.OptimizeResume(ctx, input)
		return innerErr
	})
	e.observeAI(ctx, "optimize_resume", time.Since(started), err)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("Resume optimization failed, returning analysis without it",
				"error", err.Error())
		}
		result.Warnings = append(result.Warnings, "resume optimization unavailable: "+err.Error())
		return
	}
	result.Optimization = &optimized
}
