package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumate/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return "AnalysisResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== COMPATIBILITY SCORE ===\n")
	output.WriteString(fmt.Sprintf("Score: %.1f/100 (%s)\n\n", result.ATS.Score, result.ATS.Interpretation))
	output.WriteString("Breakdown:\n")
	output.WriteString(fmt.Sprintf("  Semantic match:  %.1f\n", result.ATS.Components.SemanticMatch))
	output.WriteString(fmt.Sprintf("  Keyword match:   %.1f\n", result.ATS.Components.KeywordMatch))
	output.WriteString(fmt.Sprintf("  Structure:       %.1f\n", result.ATS.Components.Structure))
	output.WriteString(fmt.Sprintf("  Action language: %.1f\n", result.ATS.Components.ActionLanguage))
	output.WriteString("\n")

	output.WriteString("=== JOB REQUIREMENTS ===\n")
	if result.JD.Title != "" {
		output.WriteString(fmt.Sprintf("Title: %s\n", result.JD.Title))
	}
	if result.JD.Experience != "" {
		output.WriteString(fmt.Sprintf("Experience: %s\n", result.JD.Experience))
	}
	if result.JD.Education != "" {
		output.WriteString(fmt.Sprintf("Education: %s\n", result.JD.Education))
	}
	output.WriteString(fmt.Sprintf("Extracted via: %s\n\n", result.JD.Source))

	output.WriteString("=== SKILLS ===\n")
	if len(result.Skills.Matched) > 0 {
		output.WriteString("Matched:\n")
		for _, skill := range result.Skills.Matched {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}
	if len(result.Skills.Missing) > 0 {
		output.WriteString("Missing:\n")
		for _, skill := range result.Skills.Missing {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}
	output.WriteString(fmt.Sprintf("Skill fit: %.0f%%\n\n", result.Skills.SkillFitIndex*100))

	if len(result.ATS.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		for i, suggestion := range result.ATS.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
		output.WriteString("\n")
	}

	if result.Optimization != nil {
		output.WriteString("=== OPTIMIZED RESUME ===\n\n")
		output.WriteString(result.Optimization.OptimizedText)
		output.WriteString("\n\n")
		if len(result.Optimization.Changes) > 0 {
			output.WriteString("Changes:\n")
			for _, change := range result.Optimization.Changes {
				output.WriteString(fmt.Sprintf("- %s\n", change))
			}
			output.WriteString("\n")
		}
		if len(result.Optimization.SuggestedKeywords) > 0 {
			output.WriteString("Suggested keywords:\n")
			for _, keyword := range result.Optimization.SuggestedKeywords {
				output.WriteString(fmt.Sprintf("- %s\n", keyword))
			}
			output.WriteString("\n")
		}
	}

	if len(result.Warnings) > 0 {
		output.WriteString("=== WARNINGS ===\n")
		for _, warning := range result.Warnings {
			output.WriteString(fmt.Sprintf("- %s\n", warning))
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %.1f/100 (%s)\n\n", result.ATS.Score, result.ATS.Interpretation))

	output.WriteString("## Score Breakdown\n\n")
	output.WriteString("| Component | Score |\n")
	output.WriteString("|-----------|-------|\n")
	output.WriteString(fmt.Sprintf("| Semantic match | %.1f |\n", result.ATS.Components.SemanticMatch))
	output.WriteString(fmt.Sprintf("| Keyword match | %.1f |\n", result.ATS.Components.KeywordMatch))
	output.WriteString(fmt.Sprintf("| Structure | %.1f |\n", result.ATS.Components.Structure))
	output.WriteString(fmt.Sprintf("| Action language | %.1f |\n\n", result.ATS.Components.ActionLanguage))

	output.WriteString("## Job Requirements\n\n")
	if result.JD.Title != "" {
		output.WriteString(fmt.Sprintf("**Title:** %s\n\n", result.JD.Title))
	}
	if result.JD.Experience != "" {
		output.WriteString(fmt.Sprintf("**Experience:** %s\n\n", result.JD.Experience))
	}
	if result.JD.Education != "" {
		output.WriteString(fmt.Sprintf("**Education:** %s\n\n", result.JD.Education))
	}
	output.WriteString(fmt.Sprintf("**Extracted via:** %s\n\n", result.JD.Source))

	output.WriteString("## Skills\n\n")
	if len(result.Skills.Matched) > 0 {
		output.WriteString("### Matched\n")
		for _, skill := range result.Skills.Matched {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	if len(result.Skills.Missing) > 0 {
		output.WriteString("### Missing\n")
		for _, skill := range result.Skills.Missing {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}
	output.WriteString(fmt.Sprintf("**Skill fit:** %.0f%%\n\n", result.Skills.SkillFitIndex*100))

	if len(result.ATS.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, suggestion := range result.ATS.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
		output.WriteString("\n")
	}

	if result.Optimization != nil {
		output.WriteString("## Optimized Resume\n\n")
		output.WriteString(result.Optimization.OptimizedText)
		output.WriteString("\n\n")
		if len(result.Optimization.Changes) > 0 {
			output.WriteString("### Changes\n")
			for _, change := range result.Optimization.Changes {
				output.WriteString(fmt.Sprintf("- %s\n", change))
			}
			output.WriteString("\n")
		}
		if len(result.Optimization.SuggestedKeywords) > 0 {
			output.WriteString("### Suggested Keywords\n")
			for _, keyword := range result.Optimization.SuggestedKeywords {
				output.WriteString(fmt.Sprintf("- %s\n", keyword))
			}
			output.WriteString("\n")
		}
	}

	if len(result.Warnings) > 0 {
		output.WriteString("## Warnings\n\n")
		for _, warning := range result.Warnings {
			output.WriteString(fmt.Sprintf("- %s\n", warning))
		}
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
