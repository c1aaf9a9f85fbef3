package llm

// Role is who authored a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is one chat completion call. An empty Model uses the
// provider's configured model; zero MaxTokens leaves the provider default.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionResponse is the generated text and token usage reported by the
// provider. Token counts are zero when the provider does not report them.
type CompletionResponse struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
	FinishReason string
}

// Usage is the estimated cost in USD of producing r.
func (r *CompletionResponse) Usage() float64 {
	return EstimateCost(r.Model, r.InputTokens, r.OutputTokens)
}
