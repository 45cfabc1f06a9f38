package matching

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/matchscore/internal/similarity"
)

// ErrInvalidConfig is returned when weights or thresholds are out of range.
var ErrInvalidConfig = errors.New("invalid match scoring config")

// Weights are percentage-point multipliers applied to each 0-1 component ratio.
// They are not required to sum to 100.
type Weights struct {
	Skill      float64 `mapstructure:"skill" json:"skill" validate:"gte=0"`
	Education  float64 `mapstructure:"education" json:"education" validate:"gte=0"`
	Title      float64 `mapstructure:"title" json:"title" validate:"gte=0"`
	Experience float64 `mapstructure:"experience" json:"experience" validate:"gte=0"`
}

// Thresholds are the cut-offs a similarity must exceed to count as an approximate skill match.
type Thresholds struct {
	Lexical  float64 `mapstructure:"lexical" json:"lexical" validate:"gte=0,lte=100"`
	Semantic float64 `mapstructure:"semantic" json:"semantic" validate:"gte=0,lte=1"`
}

// Credit is the partial credit an approximate skill match earns relative to an exact one.
type Credit struct {
	Lexical  float64 `mapstructure:"lexical" json:"lexical" validate:"gte=0,lte=1"`
	Semantic float64 `mapstructure:"semantic" json:"semantic" validate:"gte=0,lte=1"`
}

// Config holds everything the scorer is tuned with.
type Config struct {
	Weights    Weights    `mapstructure:"weights" json:"weights"`
	Thresholds Thresholds `mapstructure:"thresholds" json:"thresholds"`
	Credit     Credit     `mapstructure:"credit" json:"credit"`
}

// DefaultConfig returns the 60/20/15/5 weighting with the 80 lexical and 0.82 semantic cut-offs.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Skill:      60,
			Education:  20,
			Title:      15,
			Experience: 5,
		},
		Thresholds: Thresholds{
			Lexical:  80,
			Semantic: 0.82,
		},
		Credit: Credit{
			Lexical:  0.5,
			Semantic: 0.6,
		},
	}
}

// Validate checks the config ranges.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) threshold(kind similarity.Kind) float64 {
	if kind == similarity.KindLexical {
		return c.Thresholds.Lexical
	}
	return c.Thresholds.Semantic
}

func (c Config) credit(kind similarity.Kind) float64 {
	if kind == similarity.KindLexical {
		return c.Credit.Lexical
	}
	return c.Credit.Semantic
}
