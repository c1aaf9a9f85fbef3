package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "DOCQA_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCQA_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// DOCQA_TOP_K -> top_k, DOCQA_SERVER_PORT -> server.port.
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "server_"); ok {
		return "server." + rest
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLLMProviders = map[ProviderType]bool{
	ProviderMistral:   true,
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderOllama:    true,
}

// Anthropic has no embeddings endpoint.
var validEmbeddingProviders = map[ProviderType]bool{
	ProviderMistral: true,
	ProviderOpenAI:  true,
	ProviderOllama:  true,
}

var validBackends = map[IndexBackend]bool{
	BackendFlat:    true,
	BackendChromem: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.LLMProvider == "" {
		return fmt.Errorf("llm_provider is required")
	}
	if !validLLMProviders[c.LLMProvider] {
		return fmt.Errorf("invalid llm_provider %q: must be one of mistral, openai, anthropic, ollama", c.LLMProvider)
	}
	if c.LLMModel == "" {
		return fmt.Errorf("llm_model is required")
	}

	if !validEmbeddingProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of mistral, openai, ollama", c.EmbeddingProvider)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.EmbeddingDimensions < 0 {
		return fmt.Errorf("embedding_dimensions must be non-negative")
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size)")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.PreviewLength <= 0 {
		return fmt.Errorf("preview_length must be positive")
	}
	if c.RateLimitRPM < 0 {
		return fmt.Errorf("rate_limit_rpm must be non-negative")
	}

	if c.IndexDir == "" {
		return fmt.Errorf("index_dir is required")
	}
	if !validBackends[c.IndexBackend] {
		return fmt.Errorf("invalid index_backend %q: must be one of flat, chromem", c.IndexBackend)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderMistral:
		return "MISTRAL_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
