package ai

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

//go:embed prompts/*.txt
var defaultPrompts embed.FS

// Prompt template names
const (
	PromptAnalystSystem      = "analyst_system"
	PromptSearchSystem       = "search_system"
	PromptGlobalSearchSystem = "global_search_system"
	PromptDatasetSummary     = "dataset_summary"
	PromptAnalysisOfData     = "analysis_of_data"
)

// PromptManager loads prompt templates. Files in PromptsDir override the
// embedded defaults of the same name.
type PromptManager struct {
	PromptsDir string
}

// NewPromptManager creates a prompt manager; an empty dir uses only the embedded templates
func NewPromptManager(promptsDir string) *PromptManager {
	if promptsDir != "" {
		log.Printf("[PromptManager] Initialized for directory: %s", promptsDir)
	}
	return &PromptManager{PromptsDir: promptsDir}
}

// LoadPrompt loads a prompt template by name
func (pm *PromptManager) LoadPrompt(name string) (string, error) {
	if pm.PromptsDir != "" {
		content, err := os.ReadFile(filepath.Join(pm.PromptsDir, name+".txt"))
		if err == nil {
			return strings.TrimRight(string(content), "\n"), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to load prompt %s: %w", name, err)
		}
	}

	content, err := fs.ReadFile(defaultPrompts, "prompts/"+name+".txt")
	if err != nil {
		return "", fmt.Errorf("prompt template not found: %s", name)
	}
	return strings.TrimRight(string(content), "\n"), nil
}

// RenderPrompt replaces {PLACEHOLDER} with values
func (pm *PromptManager) RenderPrompt(name string, replacements map[string]string) (string, error) {
	template, err := pm.LoadPrompt(name)
	if err != nil {
		return "", err
	}

	pairs := make([]string, 0, len(replacements)*2)
	for placeholder, value := range replacements {
		pairs = append(pairs, "{"+placeholder+"}", value)
	}
	// a single pass keeps placeholders inside values (e.g. cell text) untouched
	return strings.NewReplacer(pairs...).Replace(template), nil
}
