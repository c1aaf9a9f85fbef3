package vectordb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/docqa/internal/chunker"
	"github.com/ziadkadry99/docqa/internal/embeddings"
)

const (
	collectionName = "documents"
	chromemFile    = "chromem.gob.gz"
	// The .gz suffix selects compressed reads on import.
	chromemTmpFile = "chromem.tmp.gob.gz"
)

// chromemStore keeps one build in a chromem-go collection. Document IDs are
// chunk positions.
type chromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

func newChromemStore(ctx context.Context, embedder embeddings.Embedder, chunks []chunker.Chunk, vectors [][]float32) (*chromemStore, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, embeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        strconv.Itoa(i),
			Content:   c.Content,
			Metadata:  map[string]string{"source": c.SourceName, "chunk_id": strconv.Itoa(c.ID)},
			Embedding: vectors[i],
		}
	}
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return nil, fmt.Errorf("add documents: %w", err)
	}

	return &chromemStore{db: db, collection: col}, nil
}

func embeddingFunc(e embeddings.Embedder) chromem.EmbeddingFunc {
	if e == nil {
		return nil
	}
	return embeddings.ToChromemFunc(e)
}

func (s *chromemStore) kind() Backend { return BackendChromem }

func (s *chromemStore) search(ctx context.Context, query []float32, k int) ([]hit, error) {
	// chromem-go requires nResults <= collection size. Every document is
	// requested so that equal scores can be ordered by position.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, query, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	hits := make([]hit, 0, len(results))
	for _, r := range results {
		pos, err := strconv.Atoi(r.ID)
		if err != nil {
			return nil, fmt.Errorf("chromem document id %q is not a position", r.ID)
		}
		hits = append(hits, hit{pos: pos, score: r.Similarity})
	}
	return topK(hits, k), nil
}

// dimension is the length of the stored embeddings, read from the first
// document. An empty collection has dimension 0.
func (s *chromemStore) dimension(ctx context.Context) (int, error) {
	if s.collection.Count() == 0 {
		return 0, nil
	}
	doc, err := s.collection.GetByID(ctx, "0")
	if err != nil {
		return 0, fmt.Errorf("chromem document 0: %w", err)
	}
	return len(doc.Embedding), nil
}

func (s *chromemStore) save(dir string) error {
	tmp := filepath.Join(dir, chromemTmpFile)
	if err := s.db.ExportToFile(tmp, true, ""); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("export to file: %w", err)
	}
	return os.Rename(tmp, filepath.Join(dir, chromemFile))
}

func loadChromemStore(dir string, embedder embeddings.Embedder) (*chromemStore, error) {
	db := chromem.NewDB()
	if err := db.ImportFromFile(filepath.Join(dir, chromemFile), ""); err != nil {
		return nil, fmt.Errorf("import from file: %w", err)
	}

	col := db.GetCollection(collectionName, embeddingFunc(embedder))
	if col == nil {
		return nil, fmt.Errorf("collection %q not found after import", collectionName)
	}
	return &chromemStore{db: db, collection: col}, nil
}
