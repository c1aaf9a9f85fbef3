package embeddings

import (
	"fmt"
	"os"
)

// New creates an embedder for the given provider type.
// Supported provider types: "mistral", "openai", "ollama".
// A missing API key returns an error wrapping ErrMissingAPIKey.
func New(providerType, model string, dimensions int, ollamaURL string) (Embedder, error) {
	switch providerType {
	case "mistral":
		apiKey := os.Getenv("MISTRAL_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: MISTRAL_API_KEY environment variable is not set", ErrMissingAPIKey)
		}
		return NewMistralEmbedder(apiKey, model), nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY environment variable is not set", ErrMissingAPIKey)
		}
		return NewOpenAIEmbedder(apiKey, model, dimensions), nil

	case "ollama":
		if ollamaURL == "" {
			ollamaURL = os.Getenv("OLLAMA_HOST")
		}
		if dimensions <= 0 {
			dimensions = 384
		}
		return NewOllamaEmbedder(model, dimensions, ollamaURL), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
