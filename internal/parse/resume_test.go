package parse

import (
	"errors"
	"strings"
	"testing"

	appErrors "resumate/internal/errors"
	"resumate/internal/skills"
)

func newTestResumeParser() *ResumeParser {
	extractor := skills.NewExtractorWithVocabulary(skills.DefaultVocabulary(), 3)
	return NewResumeParser(extractor, nil)
}

func TestParseSections(t *testing.T) {
	parser := newTestResumeParser()

	text := `John Doe
john@example.com

Summary
Backend engineer with eight years of experience.

Work Experience
Acme Corp, Senior Engineer
- Built Go services

Technical Skills:
Go, PostgreSQL, Docker

Education
BSc Computer Science
`

	resume, err := parser.Parse(text)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, ok := resume.Sections["body"]; !ok {
		t.Error("Expected preamble text under 'body'")
	}
	if !strings.Contains(resume.Sections["summary"], "Backend engineer") {
		t.Errorf("Expected summary section, got %q", resume.Sections["summary"])
	}
	if !strings.Contains(resume.Sections["experience"], "Acme Corp") {
		t.Errorf("Expected 'Work Experience' folded into experience, got %v", resume.Sections)
	}
	if !strings.Contains(resume.Sections["skills"], "PostgreSQL") {
		t.Errorf("Expected 'Technical Skills:' folded into skills, got %v", resume.Sections)
	}
	if !strings.Contains(resume.Sections["education"], "BSc") {
		t.Errorf("Expected education section, got %v", resume.Sections)
	}
}

func TestParseExtractsProfileAndFrequencies(t *testing.T) {
	parser := newTestResumeParser()

	resume, err := parser.Parse("Skills: Go, Python\n\nBuilt services. Built pipelines.")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	found := false
	for _, s := range resume.Profile.Skills {
		if s == "python" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected 'python' in profile, got %v", resume.Profile.Skills)
	}
	if resume.WordFreq["built"] != 2 {
		t.Errorf("Expected 'built' counted twice, got %d", resume.WordFreq["built"])
	}
}

func TestParseEmptyResume(t *testing.T) {
	parser := newTestResumeParser()

	for _, text := range []string{"", "   \n\t\n  "} {
		_, err := parser.Parse(text)
		if err == nil {
			t.Fatalf("Expected error for empty text %q", text)
		}
		var appErr *appErrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != appErrors.ErrCodeEmptyDocument {
			t.Errorf("Expected EMPTY_DOCUMENT error, got %v", err)
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normalizes CRLF",
			input:    "line one\r\nline two\rline three",
			expected: "line one\nline two\nline three",
		},
		{
			name:     "collapses inline whitespace",
			input:    "too   many\t\tspaces",
			expected: "too many spaces",
		},
		{
			name:     "caps blank runs at one empty line",
			input:    "first\n\n\n\n\nsecond",
			expected: "first\n\nsecond",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  \n content \n  ",
			expected: "content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMatchHeader(t *testing.T) {
	tests := []struct {
		line     string
		expected string
		isHeader bool
	}{
		{"Experience", "experience", true},
		{"WORK EXPERIENCE", "experience", true},
		{"Technical Skills:", "skills", true},
		{"Objective", "summary", true},
		{"  Education  ", "education", true},
		{"Skills: Go, Python", "", false},
		{"I gained experience working at Acme Corp on distributed systems", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		name, ok := matchHeader(tt.line)
		if ok != tt.isHeader {
			t.Errorf("matchHeader(%q): expected header=%v, got %v", tt.line, tt.isHeader, ok)
			continue
		}
		if ok && name != tt.expected {
			t.Errorf("matchHeader(%q): expected %q, got %q", tt.line, tt.expected, name)
		}
	}
}

func TestWordFrequenciesSkipsStopWords(t *testing.T) {
	freq := wordFrequencies("The engineer and the architect used the compiler")

	if _, ok := freq["the"]; ok {
		t.Error("Stop word 'the' should be excluded")
	}
	if freq["engineer"] != 1 || freq["architect"] != 1 {
		t.Errorf("Expected content words counted once, got %v", freq)
	}
}
