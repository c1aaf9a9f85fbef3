package config

// DefaultPath is the config file name looked up in the working directory.
const DefaultPath = ".docqa.yml"

// ModelPreset describes the default models for a provider.
type ModelPreset struct {
	LLMModel            string
	EmbeddingModel      string
	EmbeddingDimensions int
}

var presets = map[ProviderType]ModelPreset{
	ProviderMistral:   {LLMModel: "mistral-large-latest", EmbeddingModel: "mistral-embed", EmbeddingDimensions: 1024},
	ProviderOpenAI:    {LLMModel: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small", EmbeddingDimensions: 1536},
	ProviderAnthropic: {LLMModel: "claude-sonnet-4-5-20250929", EmbeddingModel: "text-embedding-3-small", EmbeddingDimensions: 1536},
	ProviderOllama:    {LLMModel: "llama3", EmbeddingModel: "all-minilm", EmbeddingDimensions: 384},
}

// DefaultIncludes are the document globs ingested by default.
var DefaultIncludes = []string{"**/*.pdf", "**/*.txt", "**/*.md"}

// DefaultExcludes are glob patterns skipped during ingestion.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	".docqa/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProvider:         ProviderMistral,
		LLMModel:            "mistral-large-latest",
		EmbeddingProvider:   ProviderOllama,
		EmbeddingModel:      "all-minilm",
		EmbeddingDimensions: 384,
		OllamaURL:           "http://localhost:11434",
		ChunkSize:           1000,
		ChunkOverlap:        200,
		TopK:                5,
		Temperature:         0.1,
		MaxTokens:           1000,
		PreviewLength:       200,
		IndexDir:            ".docqa/index",
		IndexBackend:        BackendFlat,
		DBPath:              ".docqa/history.db",
		Include:             DefaultIncludes,
		Exclude:             DefaultExcludes,
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
	}
}

// GetPreset returns the model preset for the given provider.
// Returns the Mistral preset if the provider is unknown.
func GetPreset(provider ProviderType) ModelPreset {
	if p, ok := presets[provider]; ok {
		return p
	}
	return presets[ProviderMistral]
}
