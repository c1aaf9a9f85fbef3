package embeddings

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrMissingAPIKey is returned by New when the provider's credential is not set.
var ErrMissingAPIKey = errors.New("embedding API key is not set")

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates embeddings for one or more texts. The result has one
	// vector per input, all of the same length.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// Normalize scales v to unit L2 length in place. A zero vector is an error
// because it has no direction to compare against.
func Normalize(v []float32) error {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return fmt.Errorf("cannot normalize zero vector")
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
	return nil
}
