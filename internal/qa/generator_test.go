package qa

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ziadkadry99/docqa/internal/chunker"
	"github.com/ziadkadry99/docqa/internal/llm"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

type mockProvider struct {
	mu       sync.Mutex
	calls    []llm.CompletionRequest
	response string
	err      error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.CompletionResponse{Content: m.response, Model: "mock-model", InputTokens: 10, OutputTokens: 5}, nil
}

func sampleResults() []vectordb.SearchResult {
	return []vectordb.SearchResult{
		{Chunk: chunker.Chunk{ID: 7, SourceName: "biology.pdf", Content: "Cats are mammals."}, Score: 0.91234},
		{Chunk: chunker.Chunk{ID: 2, SourceName: "pets.pdf", Content: strings.Repeat("d", 250)}, Score: 0.5},
	}
}

func TestBuildPromptWithContext(t *testing.T) {
	prompt := BuildPrompt("Are cats mammals?", sampleResults())

	for _, want := range []string{
		"[Source 1: biology.pdf, Chunk 7, Relevance: 0.912]\nCats are mammals.",
		"[Source 2: pets.pdf, Chunk 2, Relevance: 0.500]",
		"Question: Are cats mammals?",
		"based primarily on the provided context",
		"clearly state this",
		"According to Source 1",
		"concise",
		"acknowledge this",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	// Rank, not chunk id, labels each source.
	if strings.Contains(prompt, "Source 7") {
		t.Error("prompt labels a source by chunk id")
	}
}

func TestBuildPromptWithoutContext(t *testing.T) {
	prompt := BuildPrompt("What is Go?", nil)
	if !strings.Contains(prompt, "What is Go?") || !strings.Contains(prompt, "general knowledge") {
		t.Errorf("unexpected prompt: %s", prompt)
	}
	if strings.Contains(prompt, "Source 1") {
		t.Error("prompt without context should not list sources")
	}
}

func TestAnswerSuccess(t *testing.T) {
	mock := &mockProvider{response: "Yes, according to Source 1."}
	g := New(mock, Options{Model: "mistral-large-latest"})

	res := g.Answer(context.Background(), "Are cats mammals?", sampleResults())
	s, ok := res.(*Success)
	if !ok {
		t.Fatalf("expected *Success, got %#v", res)
	}
	if s.Answer != "Yes, according to Source 1." || !s.Grounded {
		t.Errorf("unexpected success: %+v", s)
	}
	if len(s.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(s.Citations))
	}
	c1, c2 := s.Citations[0], s.Citations[1]
	if c1.SourceID != 1 || c1.ChunkID != 7 || c1.Filename != "biology.pdf" || c1.Excerpt != "Cats are mammals." {
		t.Errorf("unexpected first citation: %+v", c1)
	}
	if c2.SourceID != 2 || c2.Excerpt != strings.Repeat("d", 200)+"..." {
		t.Errorf("second citation not truncated: %+v", c2)
	}

	req := mock.calls[0]
	if req.Temperature != DefaultTemperature || req.MaxTokens != DefaultMaxTokens || req.Model != "mistral-large-latest" {
		t.Errorf("unexpected request settings: %+v", req)
	}
}

func TestAnswerWithoutContextIsUngrounded(t *testing.T) {
	mock := &mockProvider{response: "Go is a programming language."}
	res := New(mock, Options{}).Answer(context.Background(), "What is Go?", nil)
	s, ok := res.(*Success)
	if !ok {
		t.Fatalf("expected *Success, got %#v", res)
	}
	if s.Grounded || len(s.Citations) != 0 {
		t.Errorf("expected ungrounded answer with no citations: %+v", s)
	}
}

func TestAnswerUnavailable(t *testing.T) {
	g := New(nil, Options{})
	if g.Available() {
		t.Fatal("generator without provider should be unavailable")
	}
	res := g.Answer(context.Background(), "q", sampleResults())
	f, ok := res.(*Failure)
	if !ok || f.Reason != ReasonUnavailable || f.Kind != FailUnavailable {
		t.Errorf("expected unavailable failure, got %#v", res)
	}
}

func TestAnswerProviderError(t *testing.T) {
	mock := &mockProvider{err: errors.New("rate limited")}
	res := New(mock, Options{}).Answer(context.Background(), "q", sampleResults())
	f, ok := res.(*Failure)
	if !ok {
		t.Fatalf("expected *Failure, got %#v", res)
	}
	if !strings.Contains(f.Reason, "rate limited") {
		t.Errorf("reason should carry the provider error: %q", f.Reason)
	}
	if f.Kind != FailGeneration {
		t.Errorf("kind = %q, want %q", f.Kind, FailGeneration)
	}
	if len(mock.calls) != 1 {
		t.Errorf("expected a single attempt, got %d", len(mock.calls))
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("short", 200); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Excerpt("héllo wörld", 5); got != "héllo..." {
		t.Errorf("got %q", got)
	}
}

func TestSummarize(t *testing.T) {
	mock := &mockProvider{response: "  The user asked about animals.  "}
	g := New(mock, Options{})

	var history []Exchange
	for i := 0; i < 7; i++ {
		history = append(history, Exchange{Question: string(rune('A'+i)) + "?", Answer: strings.Repeat("x", 300)})
	}

	summary, err := g.Summarize(context.Background(), history)
	if err != nil {
		t.Fatal(err)
	}
	if summary != "The user asked about animals." {
		t.Errorf("summary = %q", summary)
	}

	req := mock.calls[0]
	prompt := req.Messages[0].Content
	if strings.Contains(prompt, "Q: A?") || strings.Contains(prompt, "Q: B?") {
		t.Error("summary should only cover the last 5 exchanges")
	}
	if !strings.Contains(prompt, "Q: C?") || !strings.Contains(prompt, "Q: G?") {
		t.Error("summary is missing recent exchanges")
	}
	if strings.Contains(prompt, strings.Repeat("x", 201)) {
		t.Error("answers should be truncated to 200 characters")
	}
	if req.Temperature != 0.3 || req.MaxTokens != 200 {
		t.Errorf("unexpected summary settings: %+v", req)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	mock := &mockProvider{}
	summary, err := New(mock, Options{}).Summarize(context.Background(), nil)
	if err != nil || summary != "" {
		t.Errorf("expected empty summary, got %q, %v", summary, err)
	}
	if len(mock.calls) != 0 {
		t.Error("model called for empty history")
	}
	if s, _ := New(nil, Options{}).Summarize(context.Background(), []Exchange{{Question: "q"}}); s != "" {
		t.Error("unavailable generator should return empty summary")
	}
}
