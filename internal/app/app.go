// Package app holds the application state shared by the CLI, the HTTP API
// and the MCP server: the index, the answer generator and the history.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ziadkadry99/docqa/internal/chunker"
	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/db"
	"github.com/ziadkadry99/docqa/internal/embeddings"
	"github.com/ziadkadry99/docqa/internal/extract"
	"github.com/ziadkadry99/docqa/internal/history"
	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/retriever"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// summaryWindow is how many recent turns feed the conversation summary.
const summaryWindow = 5

// Options supplies the external services of an App. Nil services leave the
// matching capability unavailable.
type Options struct {
	Embedder embeddings.Embedder
	Provider llm.Provider
	History  *history.Store
}

// App is the document Q&A application state.
type App struct {
	cfg       *config.Config
	index     *vectordb.Index
	retriever *retriever.Retriever
	generator *qa.Generator
	chunker   *chunker.Chunker
	history   *history.Store
	closeDB   func() error

	// ingestMu serializes document processing.
	ingestMu sync.Mutex

	mu        sync.RWMutex
	processed bool
	docStats  DocumentStats
}

// New assembles an App from cfg and explicit services.
func New(cfg *config.Config, opts Options) (*App, error) {
	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	index := vectordb.New(opts.Embedder, vectordb.Backend(cfg.IndexBackend))

	return &App{
		cfg:       cfg,
		index:     index,
		retriever: retriever.New(index),
		generator: qa.New(opts.Provider, qa.Options{
			Model:         cfg.LLMModel,
			Temperature:   cfg.Temperature,
			MaxTokens:     cfg.MaxTokens,
			PreviewLength: cfg.PreviewLength,
		}),
		chunker: ch,
		history: opts.History,
	}, nil
}

// FromConfig builds the services named in cfg and returns a ready App.
// Providers whose credentials are missing are left unavailable with a
// warning. A saved index in cfg.IndexDir is loaded when present.
func FromConfig(cfg *config.Config) (*App, error) {
	var opts Options

	emb, err := embeddings.New(string(cfg.EmbeddingProvider), cfg.EmbeddingModel, cfg.EmbeddingDimensions, cfg.OllamaURL)
	switch {
	case errors.Is(err, embeddings.ErrMissingAPIKey):
		log.Printf("app: embeddings unavailable: %v", err)
	case err != nil:
		return nil, fmt.Errorf("creating embedder: %w", err)
	default:
		opts.Embedder = emb
	}

	provider, err := llm.NewProvider(string(cfg.LLMProvider), cfg.LLMModel)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		log.Printf("app: language model unavailable: %v", err)
	case err != nil:
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	default:
		if cfg.RateLimitRPM > 0 {
			provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
		}
		opts.Provider = provider
	}

	var database *db.DB
	if cfg.DBPath != "" {
		database, err = db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening history database: %w", err)
		}
		opts.History = history.NewStore(database)
	}

	a, err := New(cfg, opts)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, err
	}
	if database != nil {
		a.closeDB = database.Close
	}

	if vectordb.HasSnapshot(cfg.IndexDir) {
		if _, err := a.LoadIndex(); err != nil {
			log.Printf("app: could not load saved index from %s: %v", cfg.IndexDir, err)
		}
	}
	return a, nil
}

// Close releases the history database.
func (a *App) Close() error {
	if a.closeDB != nil {
		return a.closeDB()
	}
	return nil
}

// Config returns the configuration the App was built with.
func (a *App) Config() *config.Config { return a.cfg }

// LLMAvailable reports whether a language model is configured.
func (a *App) LLMAvailable() bool { return a.generator.Available() }

// EmbeddingsAvailable reports whether an embedding provider is configured.
func (a *App) EmbeddingsAvailable() bool { return a.index.Available() }

// Processed reports whether documents have been indexed or loaded.
func (a *App) Processed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.processed
}

// DocumentStats returns statistics about the indexed chunks.
func (a *App) DocumentStats() DocumentStats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.docStats
}

// IndexStats reports what the vector index holds.
func (a *App) IndexStats() vectordb.Stats { return a.index.Stats() }

// ProcessResult summarizes one ProcessDocuments call.
type ProcessResult struct {
	Files    int           `json:"files"`
	Stats    DocumentStats `json:"stats"`
	Warnings []string      `json:"warnings,omitempty"`
	Saved    bool          `json:"saved"`
}

// ProcessDocuments extracts, chunks and indexes the files at paths,
// replacing the previous corpus. Files that cannot be read are reported as
// warnings and skipped. Calls are serialized; on error the previous index
// and stats are kept. The new index is saved to the configured directory.
func (a *App) ProcessDocuments(ctx context.Context, paths []string, progress vectordb.ProgressFunc) (*ProcessResult, error) {
	a.ingestMu.Lock()
	defer a.ingestMu.Unlock()

	res := &ProcessResult{}
	var docs []chunker.Document
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := extract.File(p)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		docs = append(docs, chunker.Document{SourceName: doc.Name, Text: doc.Text, Metadata: doc.Metadata()})
	}
	res.Files = len(docs)

	chunks, err := a.chunker.SplitDocuments(docs)
	if err != nil {
		return res, err
	}
	if len(chunks) == 0 {
		return res, vectordb.ErrNoChunks
	}

	if err := a.retriever.Ingest(ctx, chunks, progress); err != nil {
		return res, fmt.Errorf("indexing documents: %w", err)
	}

	res.Stats = ComputeStats(chunks)
	a.setProcessed(res.Stats)

	if a.cfg.IndexDir != "" {
		if err := a.index.Save(a.cfg.IndexDir); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("saving index: %v", err))
		} else {
			res.Saved = true
		}
	}
	return res, nil
}

func (a *App) setProcessed(stats DocumentStats) {
	a.mu.Lock()
	a.processed = true
	a.docStats = stats
	a.mu.Unlock()
}

// Search returns the chunks most relevant to query. k <= 0 uses the
// configured top_k.
func (a *App) Search(ctx context.Context, query string, k int) ([]vectordb.SearchResult, error) {
	return a.retriever.Retrieve(ctx, query, a.topK(k))
}

func (a *App) topK(k int) int {
	if k <= 0 {
		return a.cfg.TopK
	}
	return k
}

// AskQuestion retrieves context for question and generates an answer. A
// blank question fails without touching the index or the model. Successful
// answers are appended to the history.
func (a *App) AskQuestion(ctx context.Context, question string, k int) qa.Result {
	if strings.TrimSpace(question) == "" {
		return &qa.Failure{Kind: qa.FailEmptyQuestion, Reason: qa.ReasonEmptyQuestion}
	}
	if !a.generator.Available() {
		return &qa.Failure{Kind: qa.FailUnavailable, Reason: qa.ReasonUnavailable}
	}

	results, err := a.retriever.Retrieve(ctx, question, a.topK(k))
	if err != nil {
		return &qa.Failure{Kind: qa.FailSearch, Reason: fmt.Sprintf("Error searching documents: %v", err)}
	}

	res := a.generator.Answer(ctx, question, results)
	if s, ok := res.(*qa.Success); ok && a.history != nil {
		if _, err := a.history.Append(ctx, history.Turn{Question: question, Answer: s.Answer, Citations: s.Citations}); err != nil {
			log.Printf("app: recording history: %v", err)
		}
	}
	return res
}

// SaveIndex writes the current index to the configured directory.
func (a *App) SaveIndex() error {
	return a.index.Save(a.cfg.IndexDir)
}

// LoadIndex replaces the index with the snapshot in the configured
// directory and refreshes the document stats.
func (a *App) LoadIndex() (vectordb.LoadResult, error) {
	a.ingestMu.Lock()
	defer a.ingestMu.Unlock()

	res, err := a.index.Load(a.cfg.IndexDir)
	if err != nil {
		return res, err
	}
	if res.ModelMismatch {
		log.Printf("app: index was built with %q but the current embedding model is %q", res.SavedModel, res.CurrentModel)
	}
	a.setProcessed(ComputeStats(a.index.Chunks()))
	return res, nil
}

// History returns every recorded turn, oldest first.
func (a *App) History(ctx context.Context) ([]history.Turn, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.List(ctx)
}

// ClearHistory deletes the conversation history.
func (a *App) ClearHistory(ctx context.Context) (int64, error) {
	if a.history == nil {
		return 0, nil
	}
	return a.history.Clear(ctx)
}

// Summary summarizes the most recent conversation turns. It returns an
// empty string when there is no history or no language model.
func (a *App) Summary(ctx context.Context) (string, error) {
	if a.history == nil {
		return "", nil
	}
	turns, err := a.history.Recent(ctx, summaryWindow)
	if err != nil {
		return "", err
	}
	exchanges := make([]qa.Exchange, len(turns))
	for i, t := range turns {
		exchanges[i] = qa.Exchange{Question: t.Question, Answer: t.Answer}
	}
	return a.generator.Summarize(ctx, exchanges)
}
