package embeddings

const (
	mistralBaseURL = "https://api.mistral.ai/v1"

	// ModelMistralEmbed is Mistral's general purpose embedding model.
	ModelMistralEmbed = "mistral-embed"
)

// NewMistralEmbedder creates an embedder for Mistral's OpenAI-compatible API.
func NewMistralEmbedder(apiKey, model string) *OpenAIEmbedder {
	if model == "" {
		model = ModelMistralEmbed
	}
	return newCompatibleEmbedder(apiKey, mistralBaseURL, "mistral", model, 1024)
}
