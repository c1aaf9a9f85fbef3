package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ziadkadry99/docqa/internal/app"
	"github.com/ziadkadry99/docqa/internal/config"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docqa init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openApp builds the application from config and warns about missing
// capabilities.
func openApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if !a.EmbeddingsAvailable() {
		fmt.Fprintf(os.Stderr, "Warning: embedding provider %q is not configured%s\n",
			cfg.EmbeddingProvider, keyHint(cfg.EmbeddingProvider))
	}
	return a, nil
}

// warnNoLLM prints a hint when the language model is unavailable.
func warnNoLLM(a *app.App) {
	if a.LLMAvailable() {
		return
	}
	cfg := a.Config()
	fmt.Fprintf(os.Stderr, "Warning: language model %q is not configured%s\n",
		cfg.LLMProvider, keyHint(cfg.LLMProvider))
}

func keyHint(p config.ProviderType) string {
	if env := config.APIKeyEnvVar(p); env != "" {
		return "; set " + env
	}
	return ""
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to maxLen characters with an ellipsis.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
