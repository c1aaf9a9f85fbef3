package llm

// usdPerMillion is the list price of a model in USD per million tokens.
type usdPerMillion struct {
	input, output float64
}

var prices = map[string]usdPerMillion{
	"mistral-large-latest":       {2.00, 6.00},
	"mistral-small-latest":       {0.20, 0.60},
	"open-mistral-nemo":          {0.15, 0.15},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"gpt-4o":                     {2.50, 10.00},
	"gpt-4o-mini":                {0.15, 0.60},
}

// EstimateCost returns the estimated cost in USD of a completion, or 0 for
// models without a known price (including every local Ollama model).
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := prices[model]
	if !ok {
		return 0
	}
	return (float64(inputTokens)*p.input + float64(outputTokens)*p.output) / 1e6
}

// EstimateTokens approximates the token count of text at four bytes per
// token. Non-empty text is at least one token.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(len(text)/4, 1)
}
