// Package parse turns raw document text into structured records: resumes
// into sections plus a skill profile, job descriptions into requirements.
package parse

import (
	"regexp"
	"strings"

	appErrors "resumate/internal/errors"
	"resumate/internal/skills"
	"resumate/internal/types"
)

// canonical section names recognized as resume headers
var sectionHeaders = []string{
	"summary",
	"objective",
	"experience",
	"work experience",
	"professional experience",
	"education",
	"skills",
	"technical skills",
	"projects",
	"certifications",
	"publications",
	"contact",
}

// headerAliases folds header variants onto one canonical section name
var headerAliases = map[string]string{
	"work experience":         "experience",
	"professional experience": "experience",
	"technical skills":        "skills",
	"objective":               "summary",
}

// ResumeParser converts extracted resume text into a ParsedResume
type ResumeParser struct {
	extractor *skills.Extractor
	logger    *appErrors.Logger
}

// NewResumeParser creates a parser backed by the given skill extractor
func NewResumeParser(extractor *skills.Extractor, logger *appErrors.Logger) *ResumeParser {
	return &ResumeParser{extractor: extractor, logger: logger}
}

// Parse cleans the text, splits it into sections by common resume headers,
// and extracts the skill profile and word frequencies
func (p *ResumeParser) Parse(text string) (types.ParsedResume, error) {
	clean := CleanText(text)
	if clean == "" {
		return types.ParsedResume{}, appErrors.NewParseError(
			appErrors.ErrCodeEmptyDocument,
			"resume contains no extractable text", nil)
	}

	resume := types.ParsedResume{
		RawText:  clean,
		Sections: parseSections(clean),
		Profile:  p.extractor.Extract(clean),
		WordFreq: wordFrequencies(clean),
	}

	if p.logger != nil {
		p.logger.Debug("Parsed resume",
			"sections", len(resume.Sections),
			"skills", len(resume.Profile.Skills),
			"tools", len(resume.Profile.Tools))
	}
	return resume, nil
}

var (
	crlfPattern      = regexp.MustCompile(`\r\n?`)
	inlineWSPattern  = regexp.MustCompile(`[ \t]+`)
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
	trailingWSOnLine = regexp.MustCompile(`[ \t]+\n`)
)

// CleanText normalizes line endings and whitespace while preserving the
// paragraph structure that downstream chunking relies on
func CleanText(text string) string {
	text = crlfPattern.ReplaceAllString(text, "\n")
	text = inlineWSPattern.ReplaceAllString(text, " ")
	text = trailingWSOnLine.ReplaceAllString(text, "\n")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// parseSections walks the text line by line, treating short lines that
// match a known header as section boundaries. Text before the first
// header, or all text when no header is found, lands under "body".
func parseSections(text string) map[string]string {
	sections := make(map[string]string)
	current := "body"
	var buf strings.Builder

	flush := func() {
		content := strings.TrimSpace(buf.String())
		if content != "" {
			if existing, ok := sections[current]; ok {
				content = existing + "\n" + content
			}
			sections[current] = content
		}
		buf.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if name, ok := matchHeader(line); ok {
			flush()
			current = name
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	flush()

	return sections
}

// matchHeader reports whether a line is a section header. Headers are
// short standalone lines, optionally ending with a colon.
func matchHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || len(trimmed) > 40 {
		return "", false
	}
	normalized := strings.ToLower(strings.TrimSuffix(trimmed, ":"))
	normalized = strings.TrimSpace(normalized)
	for _, header := range sectionHeaders {
		if normalized == header {
			if alias, ok := headerAliases[header]; ok {
				return alias, true
			}
			return header, true
		}
	}
	return "", false
}

var wordPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z+#.]{2,}`)

var stopWords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "have": {}, "has": {}, "was": {}, "were": {}, "are": {},
	"our": {}, "their": {}, "your": {}, "its": {}, "into": {}, "per": {},
	"using": {}, "used": {}, "use": {}, "will": {}, "all": {}, "new": {},
}

// wordFrequencies counts lowercase terms of three or more characters,
// skipping common stop words
func wordFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		word = strings.Trim(word, ".")
		if _, stop := stopWords[word]; stop || len(word) < 3 {
			continue
		}
		freq[word]++
	}
	return freq
}
