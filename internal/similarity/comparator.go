// Package similarity provides the string-comparison strategies used for approximate skill and
// title matching.
package similarity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrComparatorUnavailable is returned when no usable comparator could be constructed.
var ErrComparatorUnavailable = errors.New("similarity comparator is unavailable")

// Kind identifies a comparator family and the scale its scores are expressed on.
type Kind string

const (
	// KindLexical scores token-order-insensitive string similarity on a 0-100 scale.
	KindLexical Kind = "lexical"
	// KindSemantic scores embedding similarity on a 0-1 scale.
	KindSemantic Kind = "semantic"
)

// Scale returns the maximum similarity value a comparator of this kind produces.
func (k Kind) Scale() float64 {
	if k == KindLexical {
		return 100
	}
	return 1
}

// ParseKind resolves a configured comparator kind. Empty input defaults to lexical.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindLexical:
		return KindLexical, nil
	case KindSemantic:
		return KindSemantic, nil
	default:
		return "", fmt.Errorf("unsupported comparator kind: %q", s)
	}
}

// Comparator scores how similar two strings are on the scale of its Kind.
type Comparator interface {
	Kind() Kind
	Similarity(a, b string) float64
}

// Ratio returns the comparator's similarity normalized to 0-1.
func Ratio(c Comparator, a, b string) float64 {
	return c.Similarity(a, b) / c.Kind().Scale()
}
