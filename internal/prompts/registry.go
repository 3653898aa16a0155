package prompts

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// PromptRegistry manages versioned prompts.
type PromptRegistry struct {
	mu      sync.RWMutex
	prompts map[string]map[PromptVersion]*Prompt // ID -> Version -> Prompt
}

var defaultRegistry *PromptRegistry
var defaultRegistryOnce sync.Once

// DefaultRegistry returns the default global prompt registry.
func DefaultRegistry() *PromptRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewPromptRegistry()
	})
	return defaultRegistry
}

// NewPromptRegistry creates a new prompt registry.
func NewPromptRegistry() *PromptRegistry {
	return &PromptRegistry{
		prompts: make(map[string]map[PromptVersion]*Prompt),
	}
}

// Register registers a prompt in the registry. Registering the same ID and
// version twice is an error.
func (r *PromptRegistry) Register(p *Prompt) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("prompt must have an ID")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.prompts[p.ID] == nil {
		r.prompts[p.ID] = make(map[PromptVersion]*Prompt)
	}
	if _, exists := r.prompts[p.ID][p.Version]; exists {
		return fmt.Errorf("prompt %s version %s already registered", p.ID, p.Version)
	}
	r.prompts[p.ID][p.Version] = p
	return nil
}

// MustRegister is Register for package initialization.
func (r *PromptRegistry) MustRegister(p *Prompt) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Get retrieves a specific version of a prompt.
func (r *PromptRegistry) Get(id string, version PromptVersion) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}

	prompt, ok := versions[version]
	if !ok {
		return nil, fmt.Errorf("prompt %s version %s not found", id, version)
	}

	return prompt, nil
}

// GetLatest retrieves the latest (non-deprecated) version of a prompt.
// If all versions are deprecated, returns the most recent version.
func (r *PromptRegistry) GetLatest(id string) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}

	// Find latest non-deprecated version
	var latest *Prompt
	var latestVersion PromptVersion

	for version, prompt := range versions {
		if !prompt.Deprecated {
			if latest == nil || version.newerThan(latestVersion) {
				latest = prompt
				latestVersion = version
			}
		}
	}

	// If all are deprecated, return the most recent deprecated version
	if latest == nil {
		for version, prompt := range versions {
			if latest == nil || version.newerThan(latestVersion) {
				latest = prompt
				latestVersion = version
			}
		}
	}

	if latest == nil {
		return nil, fmt.Errorf("no versions found for prompt: %s", id)
	}

	return latest, nil
}

// newerThan compares dotted versions numerically, component by component, so
// 1.10.0 is newer than 1.9.0. Missing components count as zero; a component
// that is not a number compares as text.
func (v PromptVersion) newerThan(other PromptVersion) bool {
	a, b := strings.Split(string(v), "."), strings.Split(string(other), ".")
	for i := 0; i < len(a) || i < len(b); i++ {
		x, y := "0", "0"
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		xn, errX := strconv.Atoi(x)
		yn, errY := strconv.Atoi(y)
		switch {
		case errX == nil && errY == nil:
			if xn != yn {
				return xn > yn
			}
		case x != y:
			return x > y
		}
	}
	return false
}
