package skills

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary holds the known skill and tool terms used for classification.
// Terms are stored lowercase.
type Vocabulary struct {
	Skills map[string]struct{}
	Tools  map[string]struct{}
}

// vocabularyFile is the YAML shape of an external vocabulary file
type vocabularyFile struct {
	Skills []string `yaml:"skills"`
	Tools  []string `yaml:"tools"`
}

// defaultSkills covers common technologies and competencies seen in
// engineering resumes. An external vocabulary file replaces this list.
var defaultSkills = []string{
	"python", "java", "go", "golang", "javascript", "typescript", "c++", "c#",
	"rust", "ruby", "php", "scala", "kotlin", "swift", "sql", "nosql", "html",
	"css", "react", "angular", "vue", "node.js", "django", "flask", "spring",
	"rest", "graphql", "grpc", "microservices", "machine learning", "deep learning",
	"data analysis", "data engineering", "nlp", "etl", "ci/cd", "tdd", "agile",
	"scrum", "distributed systems", "system design", "api design", "testing",
	"debugging", "linux", "networking", "security", "oauth", "caching",
	"communication", "leadership", "mentoring", "problem solving",
}

// defaultTools covers platforms and tooling, kept separate from skills
var defaultTools = []string{
	"docker", "kubernetes", "terraform", "ansible", "jenkins", "git", "github",
	"gitlab", "aws", "gcp", "azure", "postgresql", "postgres", "mysql", "mongodb",
	"redis", "elasticsearch", "kafka", "rabbitmq", "spark", "hadoop", "airflow",
	"prometheus", "grafana", "datadog", "jira", "confluence", "tableau", "excel",
	"pandas", "numpy", "pytorch", "tensorflow", "scikit-learn", "snowflake",
	"dbt", "vault", "nginx", "helm",
}

// DefaultVocabulary returns the built-in vocabulary
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Skills: toSet(defaultSkills),
		Tools:  toSet(defaultTools),
	}
}

// LoadVocabularyFile reads a vocabulary from a YAML file. Both lists must
// be non-empty together: a file with neither skills nor tools is rejected.
func LoadVocabularyFile(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}

	if len(file.Skills) == 0 && len(file.Tools) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary file %s defines no skills or tools", path)
	}

	return Vocabulary{
		Skills: toSet(file.Skills),
		Tools:  toSet(file.Tools),
	}, nil
}

func toSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			set[term] = struct{}{}
		}
	}
	return set
}
