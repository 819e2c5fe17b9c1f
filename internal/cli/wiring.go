package cli

import (
	"resumate/internal/ai"
	"resumate/internal/config"
	"resumate/internal/embedding"
	appErrors "resumate/internal/errors"
	"resumate/internal/match"
	"resumate/internal/parse"
	"resumate/internal/pipeline"
	"resumate/internal/scoring"
	"resumate/internal/skills"
)

// services holds everything the analyze and serve commands share: the
// wired pipeline plus the individual pieces that need closing or that
// the server reports on.
type services struct {
	Engine     *pipeline.Engine
	Embedder   *embedding.Service
	Scorer     *scoring.Engine
	Extractor  *skills.Extractor
	OptimizeAI *ai.Service
	ExtractAI  *ai.Service
}

// Close releases the vocabulary watcher and AI clients
func (s *services) Close() {
	if s.Extractor != nil {
		_ = s.Extractor.Close()
	}
	if s.OptimizeAI != nil {
		_ = s.OptimizeAI.Close()
	}
	if s.ExtractAI != nil {
		_ = s.ExtractAI.Close()
	}
}

// buildServices wires the analysis pipeline from configuration. A missing
// API key disables the LLM-backed pieces instead of failing: job
// requirements fall back to heuristic extraction and optimization is
// skipped with a warning on each analysis.
func buildServices(cfg *config.Config, logger *appErrors.Logger) (*services, error) {
	extractor, err := skills.NewExtractor(cfg.Skills, logger)
	if err != nil {
		return nil, err
	}

	embedder := embedding.NewService(cfg.Embedding, cfg.AI.APIKey, logger)
	scorer := scoring.NewEngine(cfg.Scoring, logger)

	// One gate bounds all LLM calls in the process
	gate := pipeline.NewGate(cfg.AI.MaxConcurrent)

	var optimizeAI *ai.Service
	optimizeCfg := cfg.GetOptimizeConfig()
	if optimizeCfg.APIKey != "" {
		optimizeAI, err = ai.NewService(&optimizeCfg, "optimize", logger)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("No API key configured, resume optimization disabled")
	}

	var extractAI *ai.Service
	var requirementsExtractor parse.RequirementsExtractor
	extractCfg := cfg.GetExtractConfig()
	if extractCfg.APIKey != "" {
		extractAI, err = ai.NewService(&extractCfg, "extract", logger)
		if err != nil {
			return nil, err
		}
		requirementsExtractor = pipeline.NewGatedExtractor(extractAI, gate)
	} else {
		logger.Warn("No API key configured, job requirement extraction uses heuristics only")
	}

	var optimizer pipeline.Optimizer
	if optimizeAI != nil {
		optimizer = optimizeAI
	}

	engine := pipeline.NewEngine(pipeline.Options{
		ResumeParser: parse.NewResumeParser(extractor, logger),
		JDAnalyzer:   parse.NewJDAnalyzer(extractor, requirementsExtractor, logger),
		Matcher:      match.NewSemanticMatcher(embedder, logger),
		Scorer:       scorer,
		Optimizer:    optimizer,
		Gate:         gate,
		Logger:       logger,
	})

	return &services{
		Engine:     engine,
		Embedder:   embedder,
		Scorer:     scorer,
		Extractor:  extractor,
		OptimizeAI: optimizeAI,
		ExtractAI:  extractAI,
	}, nil
}
