// Package retriever connects chunk ingestion and question retrieval to a
// vector index.
package retriever

import (
	"context"
	"errors"
	"strings"

	"github.com/ziadkadry99/docqa/internal/chunker"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// ErrEmptyQuestion is returned for a question with no non-space characters.
var ErrEmptyQuestion = errors.New("Empty question")

// Index is the subset of vectordb.Index used by the Retriever.
type Index interface {
	Build(ctx context.Context, chunks []chunker.Chunk, progress vectordb.ProgressFunc) error
	Search(ctx context.Context, query string, k int) ([]vectordb.SearchResult, error)
	Stats() vectordb.Stats
}

// Retriever orchestrates ingestion and retrieval.
type Retriever struct {
	index Index
}

// New returns a Retriever backed by index.
func New(index Index) *Retriever {
	return &Retriever{index: index}
}

// Ingest replaces the index contents with chunks.
func (r *Retriever) Ingest(ctx context.Context, chunks []chunker.Chunk, progress vectordb.ProgressFunc) error {
	return r.index.Build(ctx, chunks, progress)
}

// Retrieve returns the k chunks most relevant to question. Empty questions
// are rejected without searching.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]vectordb.SearchResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	return r.index.Search(ctx, question, k)
}

// Ready reports whether the index holds any chunks.
func (r *Retriever) Ready() bool {
	return r.index.Stats().Initialized
}
