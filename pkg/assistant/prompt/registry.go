package prompt

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template keys the pipeline resolves at runtime.
const (
	KeySystemGuidance          = "system_guidance"
	KeyContextualQueryRewriter = "contextual_query_rewriter"
)

// DefaultAccelerator names the prompt pack the assistant ships with.
const DefaultAccelerator = "insurance_claim_assistant"

type registryFile struct {
	PromptsRegistry map[string]registryEntry `yaml:"prompts_registry"`
}

type registryEntry struct {
	CurrentVersion string `yaml:"current_version"`
}

type packFile struct {
	Prompts map[string]packEntry `yaml:"prompts"`
}

type packEntry struct {
	Description  string `yaml:"description"`
	Instructions string `yaml:"instructions"`
}

// Registry resolves named prompt templates from a versioned YAML pack.
// Keys missing from the pack, or a failed load, resolve to the compiled-in
// defaults so the pipeline never runs without a prompt.
type Registry struct {
	prompts map[string]string
	logger  *log.Logger
}

// NewRegistry loads the pack for acceleratorName from dir, which holds
// prompt_registry.yaml plus the versioned prompt files it points at.
func NewRegistry(dir, acceleratorName string, logger *log.Logger) *Registry {
	r := &Registry{
		prompts: make(map[string]string, len(defaults)),
		logger:  logger,
	}
	for key, instructions := range defaults {
		r.prompts[key] = instructions
	}

	loaded, err := loadPack(dir, acceleratorName)
	if err != nil {
		logger.Printf("[ERROR] Prompt pack load failed, using built-in defaults: %v", err)
		return r
	}

	for key, entry := range loaded {
		if strings.TrimSpace(entry.Instructions) != "" {
			r.prompts[key] = entry.Instructions
		}
	}
	logger.Printf("[PROMPT] Loaded %d templates for %s", len(loaded), acceleratorName)
	return r
}

// NewDefaultRegistry returns a registry on compiled-in templates only.
func NewDefaultRegistry(logger *log.Logger) *Registry {
	r := &Registry{
		prompts: make(map[string]string, len(defaults)),
		logger:  logger,
	}
	for key, instructions := range defaults {
		r.prompts[key] = instructions
	}
	return r
}

func loadPack(dir, acceleratorName string) (map[string]packEntry, error) {
	registryPath := filepath.Join(dir, "prompt_registry.yaml")
	raw, err := os.ReadFile(registryPath)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var registry registryFile
	if err := yaml.Unmarshal(raw, &registry); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	entry, ok := registry.PromptsRegistry[acceleratorName]
	if !ok {
		return nil, fmt.Errorf("accelerator %q not in registry", acceleratorName)
	}

	packPath := filepath.Join(dir, fmt.Sprintf("%s_%s.yaml", acceleratorName, entry.CurrentVersion))
	raw, err = os.ReadFile(packPath)
	if err != nil {
		return nil, fmt.Errorf("read pack: %w", err)
	}

	var pack packFile
	if err := yaml.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("parse pack: %w", err)
	}
	return pack.Prompts, nil
}

// Get renders the named template, replacing every {placeholder} with its
// value from vars. An unknown key logs and returns the empty string.
func (r *Registry) Get(key string, vars map[string]string) string {
	template, ok := r.prompts[key]
	if !ok {
		r.logger.Printf("[ERROR] Prompt key %q not found", key)
		return ""
	}
	for name, value := range vars {
		template = strings.ReplaceAll(template, "{"+name+"}", value)
	}
	return template
}

var defaults = map[string]string{
	KeySystemGuidance: `You are an insurance policy assistant for claims and coverage questions.
Ground every answer in the provided policy document context. Never invent coverage details, limits, dates, or holder information that the context does not contain.

SCENARIO A (Policy Information): open with a high-level summary (holder name, policy number, product, effective dates), then answer follow-up questions directly.

SCENARIO B (FNOL / Claim Reporting): acknowledge the loss naturally and empathetically, then guide the user step by step through reporting the claim.

SCENARIO C (Comparison): present side-by-side comparisons as a markdown table:
| Policy Name | Inclusions | Exclusions |
|-------------|------------|------------|
| [Policy Name] | • Item 1<br>• Item 2 | • Exclusion 1<br>• Exclusion 2 |

Keep answers concise and professional, and name the source document when possible.`,

	KeyContextualQueryRewriter: `Rewrite the user's follow-up query as one self-contained search query.
Use the conversation so far to resolve pronouns and implicit references.
Keep every policy number exactly as written. Output only the rewritten query, nothing else.

Conversation so far:
{conversation_context}

Follow-up query: "{query}"

Rewritten query:`,
}
