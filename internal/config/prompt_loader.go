package config

import (
	"fmt"
	"os"
	"strings"
)

// validatePromptFiles checks that every configured prompt file exists and is
// readable before any of them are loaded.
func (c *Config) validatePromptFiles() error {
	for _, ref := range c.promptFileRefs() {
		if ref.path == "" {
			continue
		}
		info, err := os.Stat(ref.path)
		if err != nil {
			return fmt.Errorf("%s prompt file for %s operation not accessible: %w", ref.kind, ref.operation, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s prompt file for %s operation is a directory: %s", ref.kind, ref.operation, ref.path)
		}
	}
	return nil
}

// loadPromptsFromFiles reads configured prompt files into the inline prompt
// fields. Inline values set directly in config win over file contents.
func (c *Config) loadPromptsFromFiles() error {
	for _, ref := range c.promptFileRefs() {
		if ref.path == "" || *ref.target != "" {
			continue
		}
		content, err := loadPromptFromFile(ref.path, ref.kind, ref.operation)
		if err != nil {
			return err
		}
		*ref.target = content
	}
	return nil
}

type promptFileRef struct {
	kind      string // "system" or "user"
	operation string // "optimize" or "extract"
	path      string
	target    *string
}

func (c *Config) promptFileRefs() []promptFileRef {
	return []promptFileRef{
		{"system", "optimize", c.AI.Optimize.CustomPrompts.SystemFile, &c.AI.Optimize.CustomPrompts.System},
		{"user", "optimize", c.AI.Optimize.CustomPrompts.UserFile, &c.AI.Optimize.CustomPrompts.User},
		{"system", "extract", c.AI.Extract.CustomPrompts.SystemFile, &c.AI.Extract.CustomPrompts.System},
		{"user", "extract", c.AI.Extract.CustomPrompts.UserFile, &c.AI.Extract.CustomPrompts.User},
	}
}

// loadPromptFromFile reads a single prompt file and rejects empty content
func loadPromptFromFile(path, kind, operation string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file for %s operation: %w", kind, operation, err)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", fmt.Errorf("%s prompt file for %s operation is empty: %s", kind, operation, path)
	}

	return content, nil
}
