package qa

import "github.com/ziadkadry99/docqa/internal/citation"

// Result is the outcome of answering a question: either *Success or *Failure.
type Result interface {
	isResult()
}

// Success is a generated answer and the citations that support it.
type Success struct {
	Answer    string              `json:"answer"`
	Citations []citation.Citation `json:"citations"`
	// Grounded is false when no document context was available and the
	// answer comes from the model's general knowledge.
	Grounded      bool    `json:"grounded"`
	Model         string  `json:"model,omitempty"`
	InputTokens   int     `json:"input_tokens,omitempty"`
	OutputTokens  int     `json:"output_tokens,omitempty"`
	EstimatedCost float64 `json:"estimated_cost_usd,omitempty"`
}

// FailureKind classifies why an answer could not be produced.
type FailureKind string

const (
	FailEmptyQuestion FailureKind = "empty_question"
	FailUnavailable   FailureKind = "unavailable"
	FailSearch        FailureKind = "search"
	FailGeneration    FailureKind = "generation"
)

// Failure carries the kind and a human-readable reason an answer could not
// be produced.
type Failure struct {
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

func (*Success) isResult() {}
func (*Failure) isResult() {}

// Failure reasons shared with callers.
const (
	ReasonEmptyQuestion = "Empty question"
	ReasonUnavailable   = "Language model is not configured"
)
