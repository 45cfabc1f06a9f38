package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
)

// Embedder turns texts into vectors. Implementations live in internal/ai.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Semantic scores cosine similarity of embedding vectors. Vectors are fetched up front by
// Warm; Similarity only reads the cache and never calls the embedder.
type Semantic struct {
	embedder Embedder

	mu      sync.RWMutex
	vectors map[string][]float32

	misses atomic.Int64
}

var _ Comparator = (*Semantic)(nil)

// NewSemantic creates a semantic comparator backed by the given embedder.
func NewSemantic(embedder Embedder) (*Semantic, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrComparatorUnavailable)
	}

	return &Semantic{
		embedder: embedder,
		vectors:  make(map[string][]float32),
	}, nil
}

func (*Semantic) Kind() Kind { return KindSemantic }

// Warm embeds every text that is not cached yet. It is meant to run once during startup,
// before any scoring.
func (s *Semantic) Warm(ctx context.Context, texts []string) (int, error) {
	s.mu.RLock()
	pending := make([]string, 0, len(texts))
	seen := make(map[string]struct{}, len(texts))
	for _, text := range texts {
		key := strings.TrimSpace(text)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := s.vectors[key]; !ok {
			pending = append(pending, key)
		}
	}
	s.mu.RUnlock()

	if len(pending) == 0 {
		return 0, nil
	}

	vectors, err := s.embedder.Embed(ctx, pending)
	if err != nil {
		return 0, fmt.Errorf("%w: embed texts: %w", ErrComparatorUnavailable, err)
	}
	if len(vectors) != len(pending) {
		return 0, fmt.Errorf("%w: embedder returned %d vectors for %d texts", ErrComparatorUnavailable, len(vectors), len(pending))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, key := range pending {
		s.vectors[key] = vectors[i]
	}

	return len(pending), nil
}

// Similarity returns the cosine similarity of the cached vectors for a and b. Texts that were
// never warmed score 0 and are counted as misses.
func (s *Semantic) Similarity(a, b string) float64 {
	s.mu.RLock()
	va, okA := s.vectors[strings.TrimSpace(a)]
	vb, okB := s.vectors[strings.TrimSpace(b)]
	s.mu.RUnlock()

	if !okA || !okB {
		s.misses.Add(1)
		return 0
	}

	sim, err := Cosine(va, vb)
	if err != nil {
		return 0
	}
	return sim
}

// Misses reports how many Similarity calls hit an un-warmed text.
func (s *Semantic) Misses() int64 {
	return s.misses.Load()
}

// Len returns the number of cached vectors.
func (s *Semantic) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

var errVectorMismatch = errors.New("vectors have different dimensions")

// Cosine returns the cosine similarity of two vectors. A zero vector yields 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errVectorMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
