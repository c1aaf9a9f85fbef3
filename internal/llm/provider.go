package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned by NewProvider when the provider's
// credential is not configured. Callers treat it as "unavailable".
var ErrMissingAPIKey = errors.New("LLM API key is not set")

// ErrEmptyResponse is returned when a provider answers with no content.
var ErrEmptyResponse = errors.New("LLM returned an empty response")

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
