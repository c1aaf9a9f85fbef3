package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const maxBatchSize = 100

// OpenAI embedding models.
const (
	ModelTextEmbedding3Small = "text-embedding-3-small"
	ModelTextEmbedding3Large = "text-embedding-3-large"
)

func openAIDimensions(model string) int {
	switch model {
	case ModelTextEmbedding3Large:
		return 3072
	default:
		return 1536
	}
}

// OpenAIEmbedder generates embeddings using an OpenAI-compatible embeddings API.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	provider   string
}

// NewOpenAIEmbedder creates a new OpenAI embedder with the given API key and model.
// dimensions of 0 selects the model's native size.
func NewOpenAIEmbedder(apiKey, model string, dimensions int) *OpenAIEmbedder {
	if dimensions <= 0 {
		dimensions = openAIDimensions(model)
	}
	return &OpenAIEmbedder{
		client:     openai.NewClient(apiKey),
		model:      model,
		dimensions: dimensions,
		provider:   "openai",
	}
}

// newCompatibleEmbedder targets any server that speaks the OpenAI embeddings protocol.
func newCompatibleEmbedder(apiKey, baseURL, provider, model string, dimensions int) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		dimensions: dimensions,
		provider:   provider,
	}
}

func (e *OpenAIEmbedder) Name() string {
	if e.provider == "openai" {
		return e.model
	}
	return e.provider + "/" + e.model
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	allEmbeddings := make([][]float32, 0, len(texts))

	for i := 0; i < len(texts); i += maxBatchSize {
		end := min(i+maxBatchSize, len(texts))
		batch := texts[i:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("%s embedding request failed: %w", e.provider, err)
		}

		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("%s returned %d embeddings, expected %d", e.provider, len(resp.Data), len(batch))
		}

		allEmbeddings = append(allEmbeddings, byIndex(resp.Data)...)
	}

	return allEmbeddings, nil
}

// byIndex orders embeddings by their reported input position, falling back
// to response order if the positions are missing or inconsistent.
func byIndex(data []openai.Embedding) [][]float32 {
	out := make([][]float32, len(data))
	for _, emb := range data {
		if emb.Index < 0 || emb.Index >= len(data) || out[emb.Index] != nil {
			for j, e := range data {
				out[j] = e.Embedding
			}
			return out
		}
		out[emb.Index] = emb.Embedding
	}
	return out
}
