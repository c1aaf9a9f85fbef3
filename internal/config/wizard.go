package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to docqa! Let's configure your document index.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"mistral", "openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	embedPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"ollama", "mistral", "openai"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	embedProvider := ProviderType(embedStr)

	backendPrompt := promptui.Select{
		Label: "Select index backend",
		Items: []string{
			"flat    (exact in-process search)",
			"chromem (chromem-go embedded vector DB)",
		},
	}
	backendIdx, _, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend selection: %w", err)
	}
	backends := []IndexBackend{BackendFlat, BackendChromem}

	chunkPrompt := promptui.Prompt{
		Label:    "Chunk size (characters)",
		Default:  "1000",
		Validate: positiveInt,
	}
	chunkStr, err := chunkPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chunk size: %w", err)
	}
	chunkSize, _ := strconv.Atoi(chunkStr)

	includePrompt := promptui.Prompt{
		Label:   "Include patterns (comma-separated globs)",
		Default: strings.Join(DefaultIncludes, ","),
	}
	includeStr, err := includePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("include patterns: %w", err)
	}

	llmPreset := GetPreset(provider)
	embedPreset := GetPreset(embedProvider)

	cfg := DefaultConfig()
	cfg.LLMProvider = provider
	cfg.LLMModel = llmPreset.LLMModel
	cfg.EmbeddingProvider = embedProvider
	cfg.EmbeddingModel = embedPreset.EmbeddingModel
	cfg.EmbeddingDimensions = embedPreset.EmbeddingDimensions
	cfg.IndexBackend = backends[backendIdx]
	cfg.ChunkSize = chunkSize
	if cfg.ChunkOverlap >= chunkSize {
		cfg.ChunkOverlap = chunkSize / 5
	}
	if inc := splitAndTrim(includeStr); len(inc) > 0 {
		cfg.Include = inc
	}

	for _, p := range []ProviderType{provider, embedProvider} {
		if envVar := APIKeyEnvVar(p); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment (or .env) before running docqa.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
