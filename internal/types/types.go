package types

// SkillProfile holds the skills and tools extracted from a document.
// Skills and tools stay in separate lists until a consumer flattens them.
type SkillProfile struct {
	Skills []string `json:"skills"`
	Tools  []string `json:"tools"`
}

// Flatten returns skills followed by tools as a single list.
func (p SkillProfile) Flatten() []string {
	out := make([]string, 0, len(p.Skills)+len(p.Tools))
	out = append(out, p.Skills...)
	out = append(out, p.Tools...)
	return out
}

// ParsedResume represents a resume after text extraction and parsing
type ParsedResume struct {
	RawText  string            `json:"rawText"`
	Sections map[string]string `json:"sections"`
	Profile  SkillProfile      `json:"profile"`
	WordFreq map[string]int    `json:"wordFreq,omitempty"`
}

// ParsedJD represents an analyzed job description
type ParsedJD struct {
	RawText        string   `json:"rawText"`
	Title          string   `json:"title,omitempty"`
	RequiredSkills []string `json:"requiredSkills"`
	NiceToHave     []string `json:"niceToHave,omitempty"`
	Experience     string   `json:"experience,omitempty"`
	Education      string   `json:"education,omitempty"`
	Source         string   `json:"source"` // "llm" or "heuristic"
}

// ChunkScore is the best similarity found for a single resume chunk
type ChunkScore struct {
	Chunk      string  `json:"chunk"`
	Similarity float64 `json:"similarity"`
}

// SemanticResult represents the semantic comparison of resume and JD text
type SemanticResult struct {
	OverallScore float64      `json:"overallScore"` // in [0,1]
	ChunkScores  []ChunkScore `json:"chunkScores,omitempty"`
	Method       string       `json:"method"` // "embedding" or "lexical"
}

// SkillComparison represents the set comparison of resume vs JD skills
type SkillComparison struct {
	Matched       []string `json:"matched"`
	Missing       []string `json:"missing"`
	SkillFitIndex float64  `json:"skillFitIndex"` // |matched| / |jd skills|, 1.0 for empty JD
}

// ScoreComponents holds the per-dimension ATS sub-scores, each in [0,100].
// The first four enter the weighted blend; the rest are reported as
// supporting signals.
type ScoreComponents struct {
	SemanticMatch  float64 `json:"semanticMatch"`
	KeywordMatch   float64 `json:"keywordMatch"`
	Structure      float64 `json:"structure"`
	ActionLanguage float64 `json:"actionLanguage"`

	KeywordDensity    float64 `json:"keywordDensity"`
	ExperienceFit     float64 `json:"experienceFit"`
	FormattingPenalty float64 `json:"formattingPenalty"`
}

// ATSResult represents the blended compatibility score with its breakdown
type ATSResult struct {
	Score          float64         `json:"score"` // in [0,100]
	Components     ScoreComponents `json:"components"`
	Interpretation string          `json:"interpretation"`
	Suggestions    []string        `json:"suggestions,omitempty"`
}

// OptimizeInput carries everything the resume optimizer needs
type OptimizeInput struct {
	ResumeText     string   `json:"resumeText"`
	JobDescription string   `json:"jobDescription"`
	TargetRole     string   `json:"targetRole,omitempty"`
	MissingSkills  []string `json:"missingSkills,omitempty"`
}

// OptimizedResume is the output of the LLM resume optimizer
type OptimizedResume struct {
	OptimizedText     string   `json:"optimizedText"`
	SuggestedKeywords []string `json:"suggestedKeywords"`
	Changes           []string `json:"changes"`
}

// AnalysisResult is the complete output of one analysis run
type AnalysisResult struct {
	Resume       ParsedResume     `json:"resume"`
	JD           ParsedJD         `json:"jobDescription"`
	Semantic     SemanticResult   `json:"semantic"`
	Skills       SkillComparison  `json:"skills"`
	ATS          ATSResult        `json:"ats"`
	Optimization *OptimizedResume `json:"optimization,omitempty"`
	Warnings     []string         `json:"warnings,omitempty"`
}

// JobRequirements is the LLM extraction schema for job descriptions
type JobRequirements struct {
	Title          string   `json:"title"`
	RequiredSkills []string `json:"requiredSkills"`
	NiceToHave     []string `json:"niceToHave"`
	Experience     string   `json:"experience"`
	Education      string   `json:"education"`
}
