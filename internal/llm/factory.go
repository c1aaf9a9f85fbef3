package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a new LLM provider based on the given provider type and model.
// Supported provider types: "mistral", "openai", "anthropic", "ollama".
// A missing credential returns an error wrapping ErrMissingAPIKey.
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "mistral":
		apiKey := os.Getenv("MISTRAL_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: MISTRAL_API_KEY environment variable is not set", ErrMissingAPIKey)
		}
		return NewMistralProvider(apiKey, model), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY environment variable is not set", ErrMissingAPIKey)
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY environment variable is not set", ErrMissingAPIKey)
		}
		return NewAnthropicProvider(apiKey, model), nil

	case "ollama":
		return NewOllamaProvider(os.Getenv("OLLAMA_HOST"), model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
