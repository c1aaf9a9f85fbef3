// Package chunker splits extracted document text into overlapping passages
// that are small enough to embed and retrieve individually.
package chunker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

// Default chunking parameters.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Separators are tried in order; the empty separator splits into characters.
var Separators = []string{"\n\n", "\n", " ", ""}

// ErrInvalidParams is returned for a non-positive size or an overlap outside [0, size).
var ErrInvalidParams = errors.New("chunker: invalid chunk size or overlap")

// Chunk is a contiguous span of a source document, the unit of retrieval.
type Chunk struct {
	ID         int               `json:"id"`
	SourceName string            `json:"source_name"`
	Content    string            `json:"content"`
	CharLength int               `json:"char_length"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Document is one extracted input ready for chunking.
type Document struct {
	SourceName string
	Text       string
	Metadata   map[string]string
}

// Chunker splits documents with a fixed size and overlap.
type Chunker struct {
	size     int
	overlap  int
	splitter textsplitter.RecursiveCharacter
}

// New returns a Chunker. Size and overlap are measured in characters.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidParams, size, overlap)
	}
	return &Chunker{
		size:    size,
		overlap: overlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(Separators),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}, nil
}

// Split chunks a single text. Chunk ids start at zero.
func Split(text, sourceName string, size, overlap int) ([]Chunk, error) {
	c, err := New(size, overlap)
	if err != nil {
		return nil, err
	}
	return c.SplitDocuments([]Document{{SourceName: sourceName, Text: text}})
}

// SplitDocuments chunks every document in order. Chunk ids are assigned
// across the whole batch, so they are unique and increasing regardless of
// how many documents contributed. Documents with no text are skipped.
func (c *Chunker) SplitDocuments(docs []Document) ([]Chunk, error) {
	var chunks []Chunk
	for _, doc := range docs {
		pieces, err := c.SplitText(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("splitting %s: %w", doc.SourceName, err)
		}
		for _, piece := range pieces {
			id := len(chunks)
			n := utf8.RuneCountInString(piece)
			meta := make(map[string]string, len(doc.Metadata)+3)
			for k, v := range doc.Metadata {
				meta[k] = v
			}
			meta["source"] = doc.SourceName
			meta["chunk_id"] = strconv.Itoa(id)
			meta["chunk_size"] = strconv.Itoa(n)
			chunks = append(chunks, Chunk{
				ID:         id,
				SourceName: doc.SourceName,
				Content:    piece,
				CharLength: n,
				Metadata:   meta,
			})
		}
	}
	return chunks, nil
}

// SplitText returns the passages of text. Whitespace-only input yields none,
// and no passage is blank.
func (c *Chunker) SplitText(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	pieces, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}
	out := pieces[:0]
	for _, p := range pieces {
		// The character fallback emits single runes untrimmed.
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
