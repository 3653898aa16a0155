// Package prompts holds the versioned prompt templates sent to the language
// model and the builders that fill them from a farmer's profile and page inputs.
package prompts

// PromptVersion represents a version identifier for prompts.
type PromptVersion string

const (
	// PromptV1 is the first version of prompts.
	PromptV1 PromptVersion = "1.0.0"
)

// Prompt represents a versioned prompt template with metadata.
type Prompt struct {
	ID         string        // Unique identifier (e.g., "crop_planner", "chat")
	Version    PromptVersion // Version of this prompt
	Content    string        // Template text with {{variable}} placeholders
	Deprecated bool          // True if this version is deprecated
}
