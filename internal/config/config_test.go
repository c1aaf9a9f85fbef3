package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLMProvider != ProviderMistral {
		t.Errorf("expected default provider %q, got %q", ProviderMistral, cfg.LLMProvider)
	}
	if cfg.LLMModel != "mistral-large-latest" {
		t.Errorf("expected default model mistral-large-latest, got %q", cfg.LLMModel)
	}
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 {
		t.Errorf("expected chunking 1000/200, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.Temperature != 0.1 {
		t.Errorf("expected default temperature 0.1, got %f", cfg.Temperature)
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("expected default max_tokens 1000, got %d", cfg.MaxTokens)
	}
	if cfg.IndexBackend != BackendFlat {
		t.Errorf("expected default backend flat, got %q", cfg.IndexBackend)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.docqa.yml")

	original := DefaultConfig()
	original.LLMProvider = ProviderOpenAI
	original.LLMModel = "gpt-4o"
	original.ChunkSize = 500
	original.ChunkOverlap = 50
	original.IndexBackend = BackendChromem
	original.Include = []string{"**/*.pdf", "notes/*.md"}
	original.Server.Port = 9090

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.LLMProvider != original.LLMProvider {
		t.Errorf("llm_provider: got %q, want %q", loaded.LLMProvider, original.LLMProvider)
	}
	if loaded.LLMModel != original.LLMModel {
		t.Errorf("llm_model: got %q, want %q", loaded.LLMModel, original.LLMModel)
	}
	if loaded.ChunkSize != 500 || loaded.ChunkOverlap != 50 {
		t.Errorf("chunking: got %d/%d, want 500/50", loaded.ChunkSize, loaded.ChunkOverlap)
	}
	if loaded.IndexBackend != BackendChromem {
		t.Errorf("index_backend: got %q", loaded.IndexBackend)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("server.port: got %d, want 9090", loaded.Server.Port)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Fatalf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.LLMProvider != ProviderMistral {
		t.Errorf("expected default provider, got %q", cfg.LLMProvider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("DOCQA_LLM_PROVIDER", "openai")
	t.Setenv("DOCQA_TOP_K", "8")
	t.Setenv("DOCQA_SERVER_PORT", "9999")
	t.Setenv("DOCQA_SERVER_DOCUMENT_ROOT", "/srv/papers")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LLMProvider != ProviderOpenAI {
		t.Errorf("env override failed: got %q, want %q", loaded.LLMProvider, ProviderOpenAI)
	}
	if loaded.TopK != 8 {
		t.Errorf("top_k override failed: got %d", loaded.TopK)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("server.port override failed: got %d", loaded.Server.Port)
	}
	if loaded.Server.DocumentRoot != "/srv/papers" {
		t.Errorf("server.document_root override failed: got %q", loaded.Server.DocumentRoot)
	}
}

func TestDefaultCORSOriginsAreLocal(t *testing.T) {
	for _, o := range DefaultConfig().Server.CORSOrigins {
		if o == "*" {
			t.Fatal("default CORS origins must not allow every origin")
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid provider", func(c *Config) { c.LLMProvider = "invalid" }},
		{"empty provider", func(c *Config) { c.LLMProvider = "" }},
		{"empty model", func(c *Config) { c.LLMModel = "" }},
		{"anthropic embeddings", func(c *Config) { c.EmbeddingProvider = ProviderAnthropic }},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"overlap too large", func(c *Config) { c.ChunkOverlap = c.ChunkSize }},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }},
		{"zero top_k", func(c *Config) { c.TopK = 0 }},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }},
		{"unknown backend", func(c *Config) { c.IndexBackend = "faiss" }},
		{"empty index dir", func(c *Config) { c.IndexDir = "" }},
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig should be valid, got: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	if p := GetPreset(ProviderOllama); p.EmbeddingDimensions != 384 {
		t.Errorf("expected 384 dims for ollama, got %d", p.EmbeddingDimensions)
	}
	if p := GetPreset("unknown"); p.LLMModel != "mistral-large-latest" {
		t.Errorf("expected fallback to mistral, got %q", p.LLMModel)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderMistral, "MISTRAL_API_KEY"},
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		if got := APIKeyEnvVar(tt.provider); got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.pdf", []string{"**/*.pdf"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
