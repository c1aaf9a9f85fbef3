package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider spaces requests to a Provider so that no more than
// rpm are sent in any minute. Up to rpm requests may go out back to back
// after an idle period.
type RateLimitedProvider struct {
	provider Provider
	capacity float64
	perToken time.Duration

	mu      sync.Mutex
	tokens  float64
	updated time.Time
}

// NewRateLimitedProvider wraps provider with a limit of rpm requests per
// minute. A non-positive rpm returns provider unchanged.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	if rpm <= 0 {
		return provider
	}
	return &RateLimitedProvider{
		provider: provider,
		capacity: float64(rpm),
		perToken: time.Minute / time.Duration(rpm),
		tokens:   float64(rpm),
		updated:  time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}

// acquire takes one token, sleeping until one has accrued.
func (r *RateLimitedProvider) acquire(ctx context.Context) error {
	for {
		wait := r.reserve(time.Now())
		if wait == 0 {
			return nil
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// reserve refills the bucket up to now and takes a token if one is
// available. Otherwise it returns how long until the next token accrues.
func (r *RateLimitedProvider) reserve(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens += float64(now.Sub(r.updated)) / float64(r.perToken)
	if r.tokens > r.capacity {
		r.tokens = r.capacity
	}
	r.updated = now

	if r.tokens >= 1 {
		r.tokens--
		return 0
	}
	return time.Duration((1 - r.tokens) * float64(r.perToken))
}
