package scoring

import (
	"regexp"
	"sort"
	"strings"

	"resumate/internal/types"
)

// actionVerbs is the curated vocabulary for detecting active language
var actionVerbs = map[string]struct{}{
	"achieved": {}, "improved": {}, "reduced": {}, "increased": {},
	"developed": {}, "designed": {}, "built": {}, "led": {}, "managed": {},
	"created": {}, "launched": {}, "delivered": {}, "optimized": {},
	"implemented": {}, "engineered": {}, "streamlined": {}, "orchestrated": {},
	"spearheaded": {}, "coordinated": {}, "advised": {},
}

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	bulletPattern   = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)
	sentencePattern = regexp.MustCompile(`[.?!\n]+`)
	wordCharPattern = regexp.MustCompile(`\w+`)
	jdTokenPattern  = regexp.MustCompile(`[^\w+#.\-]+`)
	yearsPattern    = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs)`)
	seniorPattern   = regexp.MustCompile(`\b(?:senior|lead|principal|manager|director)\b`)
	anyYearPattern  = regexp.MustCompile(`\b(?:years?|\d{4})\b`)
	blankLineSplit  = regexp.MustCompile(`\n{2,}`)
)

// contactSignal scores presence of an email address and a phone number,
// half each
func contactSignal(text string) float64 {
	signal := 0.0
	if emailPattern.MatchString(text) {
		signal += 0.5
	}
	if phonePattern.MatchString(text) {
		signal += 0.5
	}
	return signal
}

// standardSections are the sections automated screens expect to find
var standardSections = []string{"experience", "education", "skills", "summary"}

// sectionCoverage is the fraction of standard sections present
func sectionCoverage(sections map[string]string) float64 {
	found := 0
	for _, name := range standardSections {
		if _, ok := sections[name]; ok {
			found++
		}
	}
	return float64(found) / float64(len(standardSections))
}

// bulletSignal saturates at ten bullet points
func bulletSignal(text string) float64 {
	count := len(bulletPattern.FindAllString(text, -1))
	if count > 10 {
		count = 10
	}
	return float64(count) / 10.0
}

// actionVerbRatio is the fraction of sentences containing an action verb
func actionVerbRatio(text string) float64 {
	var total, hits int
	for _, sentence := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		total++
		for _, word := range strings.Fields(strings.ToLower(sentence)) {
			word = strings.Trim(word, ".,;:()")
			if _, ok := actionVerbs[word]; ok {
				hits++
				break
			}
		}
	}
	if total == 0 {
		return 0
	}
	return clamp01(float64(hits) / float64(total))
}

// keywordDensity is the fraction of JD keywords found in the resume.
// The JD's required skill list serves as the keyword set when present;
// otherwise the thirty most frequent JD tokens stand in.
func keywordDensity(resumeText string, jd types.ParsedJD) float64 {
	keywords := jd.RequiredSkills
	if len(keywords) == 0 {
		keywords = frequentJDTokens(jd.RawText, 30)
	}
	if len(keywords) == 0 {
		return 0
	}

	resumeLower := strings.ToLower(resumeText)
	found := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(resumeLower, kw) {
			found++
		}
	}
	return clamp01(float64(found) / float64(len(keywords)))
}

// frequentJDTokens returns the top-n tokens of the JD by frequency
func frequentJDTokens(jdText string, n int) []string {
	freq := make(map[string]int)
	for _, token := range jdTokenPattern.Split(strings.ToLower(jdText), -1) {
		if len(token) > 1 {
			freq[token]++
		}
	}

	tokens := make([]string, 0, len(freq))
	for token := range freq {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if freq[tokens[i]] != freq[tokens[j]] {
			return freq[tokens[i]] > freq[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})

	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return tokens
}

// experienceFit estimates how well stated experience matches the JD.
// Explicit year requirements dominate; seniority wording is the backup
// signal.
func experienceFit(resumeText, jdText string) float64 {
	resumeLower := strings.ToLower(resumeText)
	jdLower := strings.ToLower(jdText)

	reqYears := extractYears(jdLower)
	resYears := extractYears(resumeLower)

	switch {
	case reqYears > 0 && resYears > 0:
		if resYears >= reqYears {
			return 1.0
		}
		return clamp01(0.5 + 0.5*float64(resYears)/float64(reqYears))
	case reqYears > 0:
		if seniorPattern.MatchString(resumeLower) {
			return 0.9
		}
		return 0.5
	case seniorPattern.MatchString(jdLower):
		if seniorPattern.MatchString(resumeLower) {
			return 0.8
		}
		return 0.4
	case anyYearPattern.MatchString(resumeLower):
		return 0.75
	default:
		return 0.45
	}
}

func extractYears(text string) int {
	m := yearsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	years := 0
	for _, c := range m[1] {
		years = years*10 + int(c-'0')
	}
	return years
}

// formattingPenalty grows toward 1 for very short resumes, wall-of-text
// paragraphs, and documents with almost no bullets
func formattingPenalty(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 1.0
	}

	penalty := 0.0
	switch words := len(wordCharPattern.FindAllString(text, -1)); {
	case words < 120:
		penalty += 0.7
	case words < 250:
		penalty += 0.3
	}

	var paragraphs []string
	for _, p := range blankLineSplit.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) > 0 {
		total := 0
		for _, p := range paragraphs {
			total += len(p)
		}
		switch avg := float64(total) / float64(len(paragraphs)); {
		case avg > 1000:
			penalty += 0.4
		case avg > 400:
			penalty += 0.2
		}
	}

	if len(bulletPattern.FindAllString(text, -1)) < 3 {
		penalty += 0.2
	}

	return clamp01(penalty)
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
