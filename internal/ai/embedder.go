package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/matchscore/internal/utils"
)

const defaultBatchSize = 100

// Embedder turns texts into embedding vectors, one per input text and in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// Batched splits large requests into provider-sized chunks.
type Batched struct {
	embedder  Embedder
	size      int
	logger    *zap.Logger
	maxLogLen int
}

// NewBatched wraps embedder so that no single request carries more than size texts.
func NewBatched(embedder Embedder, size int, logger *zap.Logger) *Batched {
	if size <= 0 {
		size = defaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Batched{
		embedder:  embedder,
		size:      size,
		logger:    logger,
		maxLogLen: 80,
	}
}

// Embed requests vectors chunk by chunk and concatenates the results.
func (b *Batched) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += b.size {
		end := min(start+b.size, len(texts))
		chunk := texts[start:end]

		b.logger.Debug("embedding request",
			zap.Int("offset", start),
			zap.Int("count", len(chunk)),
			zap.String("first_text", utils.TruncateForLog(chunk[0], b.maxLogLen)),
		)

		out, err := b.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed texts %d-%d: %w", start, end, err)
		}
		if len(out) != len(chunk) {
			return nil, fmt.Errorf("embed texts %d-%d: got %d vectors for %d texts", start, end, len(out), len(chunk))
		}

		vectors = append(vectors, out...)
	}

	b.logger.Debug("embedding completed", zap.Int("texts", len(texts)))

	return vectors, nil
}

// Model returns the wrapped embedder's model name.
func (b *Batched) Model() string {
	return b.embedder.Model()
}
