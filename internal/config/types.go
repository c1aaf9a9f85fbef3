package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderMistral   ProviderType = "mistral"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// IndexBackend selects how the vector index scores queries.
type IndexBackend string

const (
	BackendFlat    IndexBackend = "flat"
	BackendChromem IndexBackend = "chromem"
)

// Config is the top-level docqa configuration, corresponding to .docqa.yml.
type Config struct {
	LLMProvider         ProviderType `yaml:"llm_provider" koanf:"llm_provider"`
	LLMModel            string       `yaml:"llm_model" koanf:"llm_model"`
	EmbeddingProvider   ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int          `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	OllamaURL           string       `yaml:"ollama_url" koanf:"ollama_url"`

	ChunkSize     int     `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap  int     `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	TopK          int     `yaml:"top_k" koanf:"top_k"`
	Temperature   float64 `yaml:"temperature" koanf:"temperature"`
	MaxTokens     int     `yaml:"max_tokens" koanf:"max_tokens"`
	PreviewLength int     `yaml:"preview_length" koanf:"preview_length"`
	RateLimitRPM  int     `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`

	IndexDir     string       `yaml:"index_dir" koanf:"index_dir"`
	IndexBackend IndexBackend `yaml:"index_backend" koanf:"index_backend"`
	DBPath       string       `yaml:"db_path" koanf:"db_path"`

	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`

	Server ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port        int      `yaml:"port" koanf:"port"`
	CORSOrigins []string `yaml:"cors_origins" koanf:"cors_origins"`
	// DocumentRoot confines POST /api/documents/ingest. Empty means the
	// working directory of the server.
	DocumentRoot string `yaml:"document_root" koanf:"document_root"`
}
