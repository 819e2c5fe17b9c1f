package parse

import (
	"context"
	"regexp"
	"strings"

	appErrors "resumate/internal/errors"
	"resumate/internal/skills"
	"resumate/internal/types"
)

// RequirementsExtractor extracts structured requirements from a job
// description, typically by calling an LLM
type RequirementsExtractor interface {
	ExtractJobRequirements(ctx context.Context, jdText string) (types.JobRequirements, error)
}

// JDAnalyzer converts job description text into a ParsedJD. When an LLM
// extractor is configured it is tried first; heuristics cover the rest.
type JDAnalyzer struct {
	extractor *skills.Extractor
	llm       RequirementsExtractor
	logger    *appErrors.Logger
}

// NewJDAnalyzer creates an analyzer. llm may be nil, in which case only
// the heuristic path runs.
func NewJDAnalyzer(extractor *skills.Extractor, llm RequirementsExtractor, logger *appErrors.Logger) *JDAnalyzer {
	return &JDAnalyzer{extractor: extractor, llm: llm, logger: logger}
}

// Analyze parses a job description. LLM extraction failures degrade to
// the heuristic path instead of failing the analysis.
func (a *JDAnalyzer) Analyze(ctx context.Context, jdText string) (types.ParsedJD, error) {
	clean := CleanText(jdText)
	if clean == "" {
		return types.ParsedJD{}, appErrors.NewValidationError(
			appErrors.ErrCodeEmptyDocument,
			"job description contains no text", nil)
	}

	if a.llm != nil {
		req, err := a.llm.ExtractJobRequirements(ctx, clean)
		if err == nil {
			return a.fromRequirements(clean, req), nil
		}
		if a.logger != nil {
			a.logger.Warn("LLM requirement extraction failed, using heuristics",
				"error", err.Error())
		}
	}

	return a.heuristicAnalyze(clean), nil
}

// fromRequirements builds a ParsedJD from structured LLM output. Skill
// selection prefers the explicit required list; when the model returns
// none, the extractor's skill object fills in, and its flattened
// skills-plus-tools list is the last resort.
func (a *JDAnalyzer) fromRequirements(jdText string, req types.JobRequirements) types.ParsedJD {
	required := normalizeSkills(req.RequiredSkills)
	if len(required) == 0 {
		profile := a.extractor.Extract(jdText)
		required = normalizeSkills(profile.Skills)
		if len(required) == 0 {
			required = normalizeSkills(profile.Flatten())
		}
	}

	return types.ParsedJD{
		RawText:        jdText,
		Title:          strings.TrimSpace(req.Title),
		RequiredSkills: required,
		NiceToHave:     normalizeSkills(req.NiceToHave),
		Experience:     strings.TrimSpace(req.Experience),
		Education:      strings.TrimSpace(req.Education),
		Source:         "llm",
	}
}

var (
	titleLinePattern  = regexp.MustCompile(`(?i)^(?:job\s+title|position|role)\s*[:\-]\s*(.+)$`)
	yearsLinePattern  = regexp.MustCompile(`(?i)\d+\+?\s*(?:years?|yrs)\b[^\n.]*`)
	educationPattern  = regexp.MustCompile(`(?i)\b(?:bachelor|master|phd|doctorate|b\.?s\.?c?|m\.?s\.?c?|degree)\b`)
	niceToHavePattern = regexp.MustCompile(`(?i)\b(?:nice to have|preferred|a plus|bonus)\b`)
)

// heuristicAnalyze is the degraded path when no LLM is available
func (a *JDAnalyzer) heuristicAnalyze(jdText string) types.ParsedJD {
	jd := types.ParsedJD{
		RawText: jdText,
		Source:  "heuristic",
	}

	lines := strings.Split(jdText, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if m := titleLinePattern.FindStringSubmatch(trimmed); m != nil && jd.Title == "" {
			jd.Title = strings.TrimSpace(m[1])
		}
		if jd.Experience == "" {
			if m := yearsLinePattern.FindString(trimmed); m != "" {
				jd.Experience = strings.TrimSpace(m)
			}
		}
		if jd.Education == "" && educationPattern.MatchString(trimmed) {
			jd.Education = trimmed
		}
	}
	// first short line doubles as the title when none is labeled
	if jd.Title == "" {
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				if len(trimmed) <= 80 {
					jd.Title = trimmed
				}
				break
			}
		}
	}

	profile := a.extractor.Extract(jdText)
	jd.RequiredSkills = normalizeSkills(profile.Flatten())

	for _, line := range lines {
		if niceToHavePattern.MatchString(line) {
			lineProfile := a.extractor.Extract(line)
			jd.NiceToHave = append(jd.NiceToHave, normalizeSkills(lineProfile.Flatten())...)
		}
	}
	jd.NiceToHave = normalizeSkills(jd.NiceToHave)

	return jd
}

// normalizeSkills lowercases and trims terms, dropping empties and
// duplicates while preserving order
func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	return out
}
