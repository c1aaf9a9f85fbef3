package vectordb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ziadkadry99/docqa/internal/chunker"
)

const (
	chunksFile = "chunks.json"
	// configFile is written last and marks the snapshot as complete.
	configFile = "config.json"
)

type snapshotConfig struct {
	EmbeddingModelName string    `json:"embedding_model_name"`
	ChunkCount         int       `json:"chunk_count"`
	Dimension          int       `json:"dimension"`
	Backend            Backend   `json:"backend"`
	CreatedAt          time.Time `json:"created_at"`
}

// HasSnapshot reports whether dir holds a completed snapshot.
func HasSnapshot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, configFile))
	return err == nil
}

// Save writes the current build to dir. The index structure and chunk
// sequence are written first and the config record last, so an interrupted
// save leaves no config record and is rejected by Load.
func (idx *Index) Save(dir string) error {
	snap := idx.current()
	if snap == nil {
		return ErrNotInitialized
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating index dir: %w", err)
	}
	if err := os.Remove(filepath.Join(dir, configFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing previous config: %w", err)
	}

	if err := snap.store.save(dir); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, chunksFile), snap.chunks); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}

	cfg := snapshotConfig{
		EmbeddingModelName: snap.model,
		ChunkCount:         len(snap.chunks),
		Dimension:          snap.dim,
		Backend:            snap.store.kind(),
		CreatedAt:          time.Now().UTC(),
	}
	if err := writeJSON(filepath.Join(dir, configFile), cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// Load replaces the index contents with the snapshot in dir. Any error
// leaves the in-memory index untouched. A snapshot built with a different
// embedding model loads successfully and is reported in the result.
func (idx *Index) Load(dir string) (LoadResult, error) {
	var res LoadResult

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if errors.Is(err, os.ErrNotExist) {
		return res, ErrNoSnapshot
	} else if err != nil {
		return res, fmt.Errorf("reading config: %w", err)
	}
	var cfg snapshotConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return res, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFlat
	}

	data, err = os.ReadFile(filepath.Join(dir, chunksFile))
	if err != nil {
		return res, fmt.Errorf("reading chunks: %w", err)
	}
	var chunks []chunker.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return res, fmt.Errorf("decoding chunks: %w", err)
	}
	if len(chunks) != cfg.ChunkCount {
		return res, fmt.Errorf("snapshot has %d chunks, config records %d", len(chunks), cfg.ChunkCount)
	}

	if idx.embedder != nil && idx.embedder.Dimensions() > 0 && idx.embedder.Dimensions() != cfg.Dimension {
		return res, fmt.Errorf("snapshot dimension %d does not match embedder dimension %d", cfg.Dimension, idx.embedder.Dimensions())
	}

	var st store
	switch cfg.Backend {
	case BackendFlat:
		fs, dim, err := loadFlatStore(dir)
		if err != nil {
			return res, err
		}
		if len(fs.vectors) != len(chunks) {
			return res, fmt.Errorf("snapshot has %d vectors for %d chunks", len(fs.vectors), len(chunks))
		}
		if dim != cfg.Dimension {
			return res, fmt.Errorf("index dimension %d does not match config dimension %d", dim, cfg.Dimension)
		}
		st = fs
	case BackendChromem:
		cs, err := loadChromemStore(dir, idx.embedder)
		if err != nil {
			return res, err
		}
		if n := cs.collection.Count(); n != len(chunks) {
			return res, fmt.Errorf("snapshot has %d vectors for %d chunks", n, len(chunks))
		}
		dim, err := cs.dimension(context.Background())
		if err != nil {
			return res, err
		}
		if dim != cfg.Dimension {
			return res, fmt.Errorf("index dimension %d does not match config dimension %d", dim, cfg.Dimension)
		}
		st = cs
	default:
		return res, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}

	res.SavedModel = cfg.EmbeddingModelName
	if idx.embedder != nil {
		res.CurrentModel = idx.embedder.Name()
		res.ModelMismatch = res.CurrentModel != res.SavedModel
	}

	idx.buildMu.Lock()
	idx.publish(&snapshot{chunks: chunks, store: st, dim: cfg.Dimension, model: cfg.EmbeddingModelName})
	idx.buildMu.Unlock()
	return res, nil
}

func writeJSON(path string, v any) error {
	return writeFileAtomic(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// writeFileAtomic writes to a temporary file in the same directory and
// renames it over path once the write has been synced.
func writeFileAtomic(path string, write func(*os.File) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
