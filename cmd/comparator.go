package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/matchscore/internal/ai"
	"github.com/spigell/matchscore/internal/ai/gemini"
	"github.com/spigell/matchscore/internal/ai/openai"
	"github.com/spigell/matchscore/internal/logger"
	"github.com/spigell/matchscore/internal/secrets"
	"github.com/spigell/matchscore/internal/similarity"

	"go.uber.org/zap"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"
)

// comparatorSetup is a ready comparator plus what the host needs to report on it.
type comparatorSetup struct {
	comparator similarity.Comparator
	semantic   *similarity.Semantic
	logger     *zap.Logger
}

// newComparator builds the configured comparator. A semantic comparator is warmed with
// corpus before it is returned, so scoring never waits on the provider.
func newComparator(ctx context.Context, cfg *ComparatorConfig, corpus []string, log *zap.Logger) (*comparatorSetup, error) {
	kind, err := similarity.ParseKind(cfg.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", similarity.ErrComparatorUnavailable, err)
	}

	if kind == similarity.KindLexical {
		return &comparatorSetup{
			comparator: similarity.NewLexical(),
			logger:     logger.WithComparatorFields(log, string(kind), "", ""),
		}, nil
	}

	embedder, provider, err := newEmbedder(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", similarity.ErrComparatorUnavailable, err)
	}

	log = logger.WithComparatorFields(log, string(kind), provider, embedder.Model())

	semantic, err := similarity.NewSemantic(ai.NewBatched(embedder, cfg.BatchSize, log))
	if err != nil {
		return nil, err
	}

	log.Info("warming semantic comparator", zap.Int("texts", len(corpus)))

	embedded, err := semantic.Warm(ctx, corpus)
	if err != nil {
		return nil, err
	}

	log.Info("semantic comparator ready", zap.Int("embedded", embedded), zap.Int("cached", semantic.Len()))

	return &comparatorSetup{
		comparator: semantic,
		semantic:   semantic,
		logger:     log,
	}, nil
}

func newEmbedder(ctx context.Context, cfg *ComparatorConfig, log *zap.Logger) (ai.Embedder, string, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = providerGemini
	}

	switch provider {
	case providerGemini:
		pc := providerConfig(cfg.Gemini)
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: pc.APIKey,
			File:  pc.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, "", fmt.Errorf("%w (set comparator.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		genLogger := log.With(
			zap.String(logger.FieldProvider, provider),
			zap.Int("ai_retry_attempts", pc.MaxRetries),
		)

		embedder, err := gemini.NewEmbedder(ctx, apiKey, pc.Model, pc.MaxRetries, genLogger)
		if err != nil {
			return nil, "", err
		}
		return embedder, provider, nil
	case providerOpenAI:
		pc := providerConfig(cfg.OpenAI)
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: pc.APIKey,
			File:  pc.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, "", fmt.Errorf("%w (set comparator.openai.api-key-file or OPENAI_API_KEY)", err)
		}

		embedder, err := openai.NewEmbedder(apiKey, pc.Model, pc.MaxRetries)
		if err != nil {
			return nil, "", err
		}
		return embedder, provider, nil
	default:
		return nil, "", fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

func providerConfig(pc *ProviderConfig) *ProviderConfig {
	if pc == nil {
		return &ProviderConfig{}
	}
	return pc
}
