package vectordb

import (
	"errors"

	"github.com/ziadkadry99/docqa/internal/chunker"
)

// Backend selects the scoring structure behind an Index.
type Backend string

const (
	// BackendFlat scores every stored vector with an exact inner product.
	BackendFlat Backend = "flat"
	// BackendChromem keeps vectors in a chromem-go collection.
	BackendChromem Backend = "chromem"
)

var (
	ErrNoChunks       = errors.New("no documents to index")
	ErrUnavailable    = errors.New("embedding provider is not available")
	ErrNotInitialized = errors.New("index has not been built")
	ErrNoSnapshot     = errors.New("no saved index found")
	ErrInvalidK       = errors.New("k must be positive")
)

// SearchResult pairs a chunk with its similarity score.
type SearchResult struct {
	Chunk chunker.Chunk `json:"chunk"`
	Score float32       `json:"score"`
}

// Stats describes the current contents of an Index.
type Stats struct {
	Initialized    bool    `json:"initialized"`
	NumDocuments   int     `json:"num_documents"`
	Dimension      *int    `json:"dimension"`
	EmbeddingModel string  `json:"embedding_model,omitempty"`
	Backend        Backend `json:"backend,omitempty"`
}

// LoadResult reports soft conditions found while loading a snapshot.
type LoadResult struct {
	ModelMismatch bool
	SavedModel    string
	CurrentModel  string
}

// ProgressFunc is called after each embedding batch.
type ProgressFunc func(done, total int)
