// Package qa builds grounded prompts from retrieved chunks, asks a language
// model for an answer and assembles the citations behind it.
package qa

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/docqa/internal/citation"
	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// Defaults for answer generation.
const (
	DefaultTemperature   = 0.1
	DefaultMaxTokens     = 1000
	DefaultPreviewLength = 200

	summaryTurns       = 5
	summaryAnswerLen   = 200
	summaryTemperature = 0.3
	summaryMaxTokens   = 200
)

// Options configures a Generator. Zero values select the defaults.
type Options struct {
	Model         string
	Temperature   float64
	MaxTokens     int
	PreviewLength int
}

// Generator answers questions from retrieved context. The language model is
// optional; without one every answer is a Failure.
type Generator struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	previewLen  int
}

// New returns a Generator. provider may be nil.
func New(provider llm.Provider, opts Options) *Generator {
	g := &Generator{
		provider:    provider,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		previewLen:  opts.PreviewLength,
	}
	if g.temperature <= 0 {
		g.temperature = DefaultTemperature
	}
	if g.maxTokens <= 0 {
		g.maxTokens = DefaultMaxTokens
	}
	if g.previewLen <= 0 {
		g.previewLen = DefaultPreviewLength
	}
	return g
}

// Available reports whether a language model is configured.
func (g *Generator) Available() bool {
	return g != nil && g.provider != nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.model
}

// BuildPrompt composes the prompt sent to the model. Each retrieved chunk is
// labeled "Source N" where N is its rank in results.
func BuildPrompt(question string, results []vectordb.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("Question: %s\n\n"+
			"No relevant context was found in the uploaded documents. "+
			"Please answer based on your general knowledge and state that the answer is not backed by the documents.", question)
	}

	var sb strings.Builder
	sb.WriteString("You are an intelligent document Q&A assistant. Answer the question based on the provided context from the documents.\n\n")
	sb.WriteString("Context from relevant documents:\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "[Source %d: %s, Chunk %d, Relevance: %.3f]\n%s\n\n", i+1, r.Chunk.SourceName, r.Chunk.ID, r.Score, r.Chunk.Content)
	}
	fmt.Fprintf(&sb, "Question: %s\n\n", question)
	sb.WriteString("Instructions:\n" +
		"1. Answer the question based primarily on the provided context\n" +
		"2. If the context doesn't contain enough information, clearly state this\n" +
		"3. Cite specific sources when making claims (e.g., \"According to Source 1...\")\n" +
		"4. Be concise but comprehensive\n" +
		"5. If multiple sources provide different information, acknowledge this\n\n" +
		"Answer:")
	return sb.String()
}

// Citations builds one citation per result, numbered by rank to match the
// prompt labels.
func Citations(results []vectordb.SearchResult, previewLen int) []citation.Citation {
	out := make([]citation.Citation, len(results))
	for i, r := range results {
		out[i] = citation.Citation{
			SourceID:       i + 1,
			Filename:       r.Chunk.SourceName,
			ChunkID:        r.Chunk.ID,
			RelevanceScore: float64(r.Score),
			Excerpt:        Excerpt(r.Chunk.Content, previewLen),
		}
	}
	return out
}

// Excerpt truncates content to n characters, appending "..." if truncated.
func Excerpt(content string, n int) string {
	if utf8.RuneCountInString(content) <= n {
		return content
	}
	return string([]rune(content)[:n]) + "..."
}

// Answer asks the model to answer question from results. It makes a single
// attempt; provider errors become a Failure.
func (g *Generator) Answer(ctx context.Context, question string, results []vectordb.SearchResult) Result {
	if !g.Available() {
		return &Failure{Kind: FailUnavailable, Reason: ReasonUnavailable}
	}

	prompt := BuildPrompt(question, results)
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return &Failure{Kind: FailGeneration, Reason: fmt.Sprintf("Error generating answer: %v", err)}
	}

	// Some providers omit usage; fall back to an estimate from the text.
	if resp.InputTokens == 0 {
		resp.InputTokens = llm.EstimateTokens(prompt)
	}
	if resp.OutputTokens == 0 {
		resp.OutputTokens = llm.EstimateTokens(resp.Content)
	}

	return &Success{
		Answer:        resp.Content,
		Citations:     Citations(results, g.previewLen),
		Grounded:      len(results) > 0,
		Model:         resp.Model,
		InputTokens:   resp.InputTokens,
		OutputTokens:  resp.OutputTokens,
		EstimatedCost: resp.Usage(),
	}
}

// Exchange is one question and answer from the conversation history.
type Exchange struct {
	Question string
	Answer   string
}

// Summarize asks the model for a brief summary of the last few exchanges.
// It returns an empty string when there is nothing to summarize or no
// model is configured.
func (g *Generator) Summarize(ctx context.Context, history []Exchange) (string, error) {
	if !g.Available() || len(history) == 0 {
		return "", nil
	}
	if len(history) > summaryTurns {
		history = history[len(history)-summaryTurns:]
	}

	var sb strings.Builder
	sb.WriteString("Summarize the following conversation between a user and a document Q&A system. ")
	sb.WriteString("Provide a brief summary of the main topics discussed and key information provided.\n\n")
	for _, ex := range history {
		fmt.Fprintf(&sb, "Q: %s\nA: %s\n\n", ex.Question, Excerpt(ex.Answer, summaryAnswerLen))
	}

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: sb.String()}},
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summarizing conversation: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}
