// Package llm provides the text completion client used to write posts.
// It defines a provider-agnostic LLM interface with an implementation for
// OpenAI-compatible chat completion APIs (Groq, OpenAI, DeepSeek) and a
// deterministic mock for testing.
package llm

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed         = errors.New("LLM request failed")
	ErrInvalidConfig     = errors.New("invalid LLM configuration")
	ErrMissingCredential = errors.New("missing LLM API credential")
)

// LLM defines the interface for interacting with language models.
// Implementations must be stateless and thread-safe.
type LLM interface {
	// Generate produces text from a prompt using the configured model.
	// Returns the generated text or an error if generation fails.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted in LLMConfig.Provider.
const (
	ProviderGroq     = "groq"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// Base URLs of the OpenAI-compatible endpoints.
const (
	GroqBaseURL     = "https://api.groq.com/openai/v1"
	DeepSeekBaseURL = "https://api.deepseek.com/v1"
)

// LLMConfig holds common configuration options for LLM providers.
type LLMConfig struct {
	// Provider selects the endpoint family (groq, openai, deepseek)
	Provider string

	// Model specifies the model identifier (e.g., "llama-3.3-70b-versatile")
	Model string

	// BaseURL overrides the provider endpoint (empty = provider default)
	BaseURL string

	// Temperature controls randomness (0.0 = provider default)
	Temperature float32

	// MaxTokens limits the response length (0 = use provider default)
	MaxTokens int

	// APIKey is the authentication key for the provider
	APIKey string
}

// DefaultLLMConfig returns the defaults used for post generation.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:    ProviderGroq,
		Model:       "llama-3.3-70b-versatile",
		BaseURL:     GroqBaseURL,
		Temperature: 0.7,
		MaxTokens:   1024,
	}
}

// ResolveBaseURL returns the endpoint for the configured provider.
func (c LLMConfig) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	switch c.Provider {
	case ProviderGroq, "":
		return GroqBaseURL
	case ProviderDeepSeek:
		return DeepSeekBaseURL
	default:
		// openai-go falls back to api.openai.com
		return ""
	}
}
