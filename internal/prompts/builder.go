package prompts

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{([a-z_]+)\}\}`)

// PromptBuilder fills a registered template with variables.
type PromptBuilder struct {
	basePrompt *Prompt
	variables  map[string]string
}

// NewPromptBuilder creates a new prompt builder based on a registered prompt.
func NewPromptBuilder(registry *PromptRegistry, id string, version PromptVersion) (*PromptBuilder, error) {
	basePrompt, err := registry.Get(id, version)
	if err != nil {
		return nil, fmt.Errorf("failed to get base prompt: %w", err)
	}

	return &PromptBuilder{
		basePrompt: basePrompt,
		variables:  make(map[string]string),
	}, nil
}

// SetVariable sets a variable for template substitution.
func (b *PromptBuilder) SetVariable(key, value string) *PromptBuilder {
	b.variables[key] = value
	return b
}

// Build constructs the final prompt string. Every {{key}} placeholder in the
// template must have a variable. Substitution is a single pass, so values that
// themselves contain {{...}} are inserted literally.
func (b *PromptBuilder) Build() (string, error) {
	template := b.basePrompt.Content

	var missing []string
	for _, m := range placeholderRe.FindAllStringSubmatch(template, -1) {
		if _, ok := b.variables[m[1]]; !ok {
			missing = append(missing, m[1])
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s: unset variables: %s", b.basePrompt.ID, strings.Join(missing, ", "))
	}

	keys := make([]string, 0, len(b.variables))
	for k := range b.variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", b.variables[k])
	}

	return strings.NewReplacer(pairs...).Replace(template), nil
}
