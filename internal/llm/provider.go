// Package llm optionally polishes inferred titles into a cleaner display
// form. The polished title is presentation only: destination paths are
// always built from the engine's own inference, never from model output.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/refileproj/refile/internal/model"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Polish rewrites an inferred title into a clean display form
	Polish(ctx context.Context, req PolishRequest) (*PolishResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// PolishRequest contains the input for title polishing.
type PolishRequest struct {
	// Title is the engine's composed title, underscores and all
	Title string

	// Snippet is the first lines of the text rendition, for context
	Snippet string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// PolishResponse contains the polished title.
type PolishResponse struct {
	// Title is the cleaned display title
	Title string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// BuildPrompt constructs the default polishing prompt.
func BuildPrompt(req PolishRequest) string {
	prompt := fmt.Sprintf(`You are cleaning up a machine-inferred document title.

RULES:
1. Answer with the title ONLY: one line, no quotes, no commentary.
2. Keep the original language of the title.
3. Remove recovery artifacts (underscores, duplicated fragments, tool names).
4. Do not invent information that is not in the title or the excerpt.

Inferred title: %s
`, req.Title)

	if snippet := strings.TrimSpace(req.Snippet); snippet != "" {
		prompt += fmt.Sprintf("\nDocument excerpt:\n%s\n", snippet)
	}
	return prompt
}

// firstLine reduces a model response to its usable single-line title.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(s, `"'`)
}

// ConfigFromModel converts model.LLMConfig to the provider Config.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}
