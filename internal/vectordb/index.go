// Package vectordb stores chunk embeddings and answers top-k similarity
// queries. Vectors are L2-normalized, so inner product equals cosine
// similarity.
package vectordb

import (
	"context"
	"fmt"
	"sync"

	"github.com/ziadkadry99/docqa/internal/chunker"
	"github.com/ziadkadry99/docqa/internal/embeddings"
)

const defaultBatchSize = 64

// snapshot is one complete build. chunks[i] is the chunk stored at index
// position i. A snapshot is never modified after it is published.
type snapshot struct {
	chunks []chunker.Chunk
	store  store
	dim    int
	model  string
}

// Index is a flat similarity index over chunk embeddings. Searches may run
// concurrently with Build or Load and observe either the old or the new
// contents, never a mix.
type Index struct {
	embedder  embeddings.Embedder
	backend   Backend
	batchSize int

	// buildMu serializes Build and Load.
	buildMu sync.Mutex

	mu   sync.RWMutex
	snap *snapshot
}

// New creates an empty Index. A nil embedder leaves the index unavailable
// for Build and Search; previously saved snapshots can still be loaded.
func New(embedder embeddings.Embedder, backend Backend) *Index {
	if backend == "" {
		backend = BackendFlat
	}
	return &Index{embedder: embedder, backend: backend, batchSize: defaultBatchSize}
}

// Available reports whether an embedding provider is configured.
func (idx *Index) Available() bool {
	return idx.embedder != nil
}

func (idx *Index) current() *snapshot {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.snap
}

func (idx *Index) publish(s *snapshot) {
	idx.mu.Lock()
	idx.snap = s
	idx.mu.Unlock()
}

// Build embeds every chunk and replaces the index contents. On any error,
// including cancellation of ctx, the previous contents are kept.
func (idx *Index) Build(ctx context.Context, chunks []chunker.Chunk, progress ProgressFunc) error {
	if len(chunks) == 0 {
		return ErrNoChunks
	}
	if idx.embedder == nil {
		return ErrUnavailable
	}

	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()

	vectors := make([][]float32, 0, len(chunks))
	dim := 0
	for start := 0; start < len(chunks); start += idx.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+idx.batchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		embs, err := idx.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
		}
		if len(embs) != len(texts) {
			return fmt.Errorf("embedder returned %d vectors for %d chunks", len(embs), len(texts))
		}
		for i, e := range embs {
			v := append([]float32(nil), e...)
			if dim == 0 {
				dim = len(v)
			}
			if len(v) == 0 || len(v) != dim {
				return fmt.Errorf("chunk %d: embedding has dimension %d, expected %d", chunks[start+i].ID, len(v), dim)
			}
			if err := embeddings.Normalize(v); err != nil {
				return fmt.Errorf("chunk %d: %w", chunks[start+i].ID, err)
			}
			vectors = append(vectors, v)
		}
		if progress != nil {
			progress(end, len(chunks))
		}
	}

	owned := append([]chunker.Chunk(nil), chunks...)
	var st store = &flatStore{vectors: vectors}
	if idx.backend == BackendChromem {
		cs, err := newChromemStore(ctx, idx.embedder, owned, vectors)
		if err != nil {
			return err
		}
		st = cs
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	idx.publish(&snapshot{chunks: owned, store: st, dim: dim, model: idx.embedder.Name()})
	return nil
}

// Search returns up to k chunks most similar to query, best first. Equal
// scores are ordered by insertion. An empty index returns no results and
// no error; check Stats().Initialized to tell it apart from a query with
// no matches.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	snap := idx.current()
	if snap == nil || len(snap.chunks) == 0 {
		return nil, nil
	}
	if idx.embedder == nil {
		return nil, ErrUnavailable
	}

	embs, err := idx.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(embs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for the query", len(embs))
	}
	q := append([]float32(nil), embs[0]...)
	if len(q) != snap.dim {
		return nil, fmt.Errorf("query embedding has dimension %d, index has %d", len(q), snap.dim)
	}
	if err := embeddings.Normalize(q); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits, err := snap.store.search(ctx, q, k)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, h := range hits {
		if h.pos < 0 || h.pos >= len(snap.chunks) {
			return nil, fmt.Errorf("index position %d out of range", h.pos)
		}
		results = append(results, SearchResult{Chunk: snap.chunks[h.pos], Score: h.score})
	}
	return results, nil
}

// Chunks returns the chunks of the current build in index order.
func (idx *Index) Chunks() []chunker.Chunk {
	snap := idx.current()
	if snap == nil {
		return nil
	}
	return append([]chunker.Chunk(nil), snap.chunks...)
}

// Stats reports what the index currently holds.
func (idx *Index) Stats() Stats {
	snap := idx.current()
	if snap == nil {
		return Stats{Backend: idx.backend}
	}
	dim := snap.dim
	return Stats{
		Initialized:    true,
		NumDocuments:   len(snap.chunks),
		Dimension:      &dim,
		EmbeddingModel: snap.model,
		Backend:        snap.store.kind(),
	}
}
