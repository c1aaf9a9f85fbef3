package vectordb

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const flatIndexFile = "index.gob"

// hit is a scored index position.
type hit struct {
	pos   int
	score float32
}

// store scores normalized query vectors against the vectors of one build.
// Positions returned by search are positions in the chunk sequence.
type store interface {
	search(ctx context.Context, query []float32, k int) ([]hit, error)
	save(dir string) error
	kind() Backend
}

// flatStore is an exact inner-product index.
type flatStore struct {
	vectors [][]float32
}

type flatFile struct {
	Dimension int
	Vectors   [][]float32
}

func (s *flatStore) kind() Backend { return BackendFlat }

func (s *flatStore) search(ctx context.Context, query []float32, k int) ([]hit, error) {
	hits := make([]hit, len(s.vectors))
	for i, v := range s.vectors {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[i] = hit{pos: i, score: dot(query, v)}
	}
	return topK(hits, k), nil
}

func (s *flatStore) save(dir string) error {
	dim := 0
	if len(s.vectors) > 0 {
		dim = len(s.vectors[0])
	}
	return writeFileAtomic(filepath.Join(dir, flatIndexFile), func(f *os.File) error {
		return gob.NewEncoder(f).Encode(flatFile{Dimension: dim, Vectors: s.vectors})
	})
}

func loadFlatStore(dir string) (*flatStore, int, error) {
	f, err := os.Open(filepath.Join(dir, flatIndexFile))
	if err != nil {
		return nil, 0, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	var data flatFile
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, 0, fmt.Errorf("decoding index file: %w", err)
	}
	for i, v := range data.Vectors {
		if len(v) != data.Dimension {
			return nil, 0, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), data.Dimension)
		}
	}
	return &flatStore{vectors: data.Vectors}, data.Dimension, nil
}

// topK orders hits by descending score, breaking ties by position, and
// keeps the first k.
func topK(hits []hit, k int) []hit {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
