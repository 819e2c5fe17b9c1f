// Package skills extracts skill and tool mentions from resume and job
// description text.
package skills

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"resumate/internal/config"
	appErrors "resumate/internal/errors"
	"resumate/internal/types"
)

// Extractor finds skills and tools in free text. Safe for concurrent use;
// the vocabulary may be swapped at runtime by the watcher.
type Extractor struct {
	mu        sync.RWMutex
	vocab     Vocabulary
	minSkills int
	logger    *appErrors.Logger
	watcher   *VocabWatcher
}

// NewExtractor builds an extractor from configuration. With a vocabulary
// file configured the file contents replace the built-in vocabulary, and
// the watcher keeps it fresh when watching is enabled.
func NewExtractor(cfg config.SkillsConfig, logger *appErrors.Logger) (*Extractor, error) {
	e := &Extractor{
		vocab:     DefaultVocabulary(),
		minSkills: cfg.MinSkills,
		logger:    logger,
	}
	if e.minSkills <= 0 {
		e.minSkills = 3
	}

	if cfg.VocabularyFile != "" {
		vocab, err := LoadVocabularyFile(cfg.VocabularyFile)
		if err != nil {
			return nil, err
		}
		e.vocab = vocab

		if cfg.WatchVocabulary {
			watcher, err := NewVocabWatcher(cfg.VocabularyFile, 0, e.reloadVocabulary, logger)
			if err != nil {
				return nil, err
			}
			if err := watcher.Start(); err != nil {
				return nil, err
			}
			e.watcher = watcher
		}
	}

	return e, nil
}

// NewExtractorWithVocabulary builds an extractor around an explicit vocabulary
func NewExtractorWithVocabulary(vocab Vocabulary, minSkills int) *Extractor {
	if minSkills <= 0 {
		minSkills = 3
	}
	return &Extractor{vocab: vocab, minSkills: minSkills}
}

// Close stops the vocabulary watcher if one is running
func (e *Extractor) Close() error {
	if e.watcher != nil {
		return e.watcher.Stop()
	}
	return nil
}

// reloadVocabulary re-reads the vocabulary file after a change event
func (e *Extractor) reloadVocabulary(path string) {
	vocab, err := LoadVocabularyFile(path)
	if err != nil {
		if e.logger != nil {
			e.logger.LogError(err, "Vocabulary reload failed, keeping previous vocabulary", "file", path)
		}
		return
	}

	e.mu.Lock()
	e.vocab = vocab
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("Vocabulary reloaded",
			"file", path,
			"skills", len(vocab.Skills),
			"tools", len(vocab.Tools))
	}
}

// skillLinePattern matches list-style skill headers like "Skills:" or
// "Technical Skills -"
var skillLinePattern = regexp.MustCompile(`(?i)^\s*(?:technical\s+|core\s+|key\s+)?(?:skills?|technologies|tools?|stack)\s*[:\-]\s*(.+)$`)

// listSeparators splits enumerated skill lines into candidate terms
var listSeparators = regexp.MustCompile(`[,;|•·/]+`)

// wordPattern tokenizes text for the frequency fallback
var wordPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+#.\-]*`)

var stopwords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "have": {}, "has": {}, "are": {}, "was": {}, "were": {},
	"will": {}, "would": {}, "can": {}, "our": {}, "your": {}, "their": {},
	"you": {}, "not": {}, "all": {}, "any": {}, "who": {}, "about": {},
	"into": {}, "over": {}, "more": {}, "than": {}, "work": {}, "worked": {},
	"working": {}, "team": {}, "teams": {}, "experience": {}, "years": {},
	"using": {}, "used": {}, "use": {}, "new": {}, "other": {}, "well": {},
	"strong": {}, "ability": {}, "including": {}, "various": {}, "also": {},
	"within": {}, "across": {}, "such": {}, "etc": {}, "been": {}, "its": {},
}

// Extract returns the skills and tools found in text, as separate lists.
// Three passes feed the result: explicit skill list lines, a vocabulary
// scan over the whole text, and a frequency fallback when the first two
// passes find too few skills.
func (e *Extractor) Extract(text string) types.SkillProfile {
	e.mu.RLock()
	vocab := e.vocab
	e.mu.RUnlock()

	lower := strings.ToLower(text)

	var skills, tools []string
	seen := make(map[string]struct{})

	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(strings.Trim(term, ".")))
		if term == "" || len(term) > 40 {
			return
		}
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		if _, isTool := vocab.Tools[term]; isTool {
			tools = append(tools, term)
		} else {
			skills = append(skills, term)
		}
	}

	// Pass 1: explicit list lines
	for _, line := range strings.Split(text, "\n") {
		match := skillLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		for _, term := range listSeparators.Split(match[1], -1) {
			add(term)
		}
	}

	// Pass 2: vocabulary scan over the full text
	for term := range vocab.Skills {
		if containsTerm(lower, term) {
			add(term)
		}
	}
	for term := range vocab.Tools {
		if containsTerm(lower, term) {
			add(term)
		}
	}

	// Pass 3: frequency fallback when too little was found
	if len(skills) < e.minSkills {
		for _, term := range frequentTerms(lower, e.minSkills-len(skills), seen) {
			add(term)
		}
	}

	return types.SkillProfile{Skills: skills, Tools: tools}
}

// plainTerm marks terms safe for word-boundary matching
var plainTerm = regexp.MustCompile(`^[a-z0-9 ]+$`)

// containsTerm reports whether term occurs in text on word boundaries.
// Terms with non-word characters (c++, node.js) fall back to substring
// matching since boundary checks behave poorly around them.
func containsTerm(text, term string) bool {
	if !plainTerm.MatchString(term) {
		return strings.Contains(text, term)
	}

	for idx := strings.Index(text, term); idx != -1; {
		before := idx == 0 || !isWordChar(text[idx-1])
		end := idx + len(term)
		after := end == len(text) || !isWordChar(text[end])
		if before && after {
			return true
		}
		next := strings.Index(text[idx+1:], term)
		if next == -1 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}

// frequentTerms returns up to limit tokens that repeat in the text,
// longest-frequency first, skipping stopwords and already-seen terms
func frequentTerms(lower string, limit int, seen map[string]struct{}) []string {
	if limit <= 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, token := range wordPattern.FindAllString(lower, -1) {
		if len(token) < 3 {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		counts[token]++
	}

	type freq struct {
		term  string
		count int
	}
	var ranked []freq
	for term, count := range counts {
		if count >= 2 {
			ranked = append(ranked, freq{term, count})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].term < ranked[j].term
	})

	var terms []string
	for _, f := range ranked {
		if len(terms) >= limit {
			break
		}
		terms = append(terms, f.term)
	}
	return terms
}
