package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultModel      = openai.EmbeddingModelTextEmbedding3Small
	defaultMaxRetries = 3
)

type embeddingsAPI interface {
	New(ctx context.Context, body openai.EmbeddingNewParams, opts ...option.RequestOption) (*openai.CreateEmbeddingResponse, error)
}

// Embedder creates embeddings with the OpenAI embeddings endpoint.
type Embedder struct {
	api   embeddingsAPI
	model openai.EmbeddingModel
}

// NewEmbedder creates a new OpenAI embeddings client. Retries are handled by the SDK.
func NewEmbedder(apiKey, model string, maxRetries int) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(maxRetries),
	)

	return newEmbedder(&client.Embeddings, model), nil
}

func newEmbedder(api embeddingsAPI, model string) *Embedder {
	m := openai.EmbeddingModel(strings.TrimSpace(model))
	if m == "" {
		m = defaultModel
	}
	return &Embedder{api: api, model: m}
}

// Embed creates one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	resp, err := e.api.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	// Data carries its own index; do not rely on response order.
	embeddings := make([][]float32, len(texts))
	for _, data := range resp.Data {
		idx := int(data.Index)
		if idx < 0 || idx >= len(texts) || embeddings[idx] != nil {
			return nil, fmt.Errorf("openai returned unexpected embedding index %d", data.Index)
		}

		embedding32 := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			embedding32[j] = float32(v)
		}
		embeddings[idx] = embedding32
	}

	return embeddings, nil
}

// Model returns the embedding model name.
func (e *Embedder) Model() string {
	return string(e.model)
}
