package prompts

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

type PromptManager struct {
	prompts map[string]string // mode -> prompt template
}

// loaded prompt template
type PromptTemplate struct {
	Prompt string `yaml:"prompt"`
}

// creates a new prompt manager and loads templates
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[string]string),
	}

	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return pm, nil
}

// BuildEvaluatorPrompt renders the transcript-scoring prompt.
func (pm *PromptManager) BuildEvaluatorPrompt(transcript []models.TranscriptMessage) (string, error) {
	template, exists := pm.prompts["evaluator"]
	if !exists {
		return "", fmt.Errorf("template not found for mode: evaluator")
	}

	var sb strings.Builder
	for _, msg := range transcript {
		sb.WriteString("- ")
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}

	// Simple string replacement instead of complex template execution
	return strings.ReplaceAll(template, "{{.Transcript}}", sb.String()), nil
}

// BuildGeneratorPrompt renders the question-generation prompt.
func (pm *PromptManager) BuildGeneratorPrompt(meta models.InterviewMetadata) (string, error) {
	template, exists := pm.prompts["generator"]
	if !exists {
		return "", fmt.Errorf("template not found for mode: generator")
	}

	result := strings.ReplaceAll(template, "{{.Role}}", meta.Role)
	result = strings.ReplaceAll(result, "{{.Level}}", meta.Level)
	result = strings.ReplaceAll(result, "{{.Techstack}}", meta.Techstack)
	result = strings.ReplaceAll(result, "{{.Type}}", meta.Type)
	result = strings.ReplaceAll(result, "{{.Amount}}", strconv.Itoa(meta.Amount))

	return result, nil
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		if promptTemplate.Prompt == "" {
			return fmt.Errorf("template file %s has an empty prompt", entry.Name())
		}
		pm.prompts[name] = promptTemplate.Prompt
	}

	if len(pm.prompts) == 0 {
		return fmt.Errorf("no prompt templates found")
	}

	return nil
}
