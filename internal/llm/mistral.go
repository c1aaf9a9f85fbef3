package llm

const (
	mistralBaseURL = "https://api.mistral.ai/v1"

	// DefaultMistralModel is used when no model is configured.
	DefaultMistralModel = "mistral-large-latest"
)

// NewMistralProvider creates a provider for Mistral's chat completions API.
func NewMistralProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = DefaultMistralModel
	}
	return NewCompatibleProvider("mistral", apiKey, mistralBaseURL, model)
}
