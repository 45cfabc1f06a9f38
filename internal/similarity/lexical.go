package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Lexical compares strings by their sorted word tokens, so "data engineer" and
// "Engineer, Data" are identical. Scores are integers in 0-100.
type Lexical struct{}

var _ Comparator = (*Lexical)(nil)

// NewLexical returns the token-sort comparator.
func NewLexical() *Lexical {
	return &Lexical{}
}

func (*Lexical) Kind() Kind { return KindLexical }

// Similarity returns the rounded Ratcliff/Obershelp ratio of the token-sorted inputs.
func (*Lexical) Similarity(a, b string) float64 {
	return TokenSortRatio(a, b)
}

// TokenSortRatio normalizes both strings, sorts their tokens and scores the results.
// Equal normalized strings score 100 even when both are empty; otherwise an empty side scores 0.
func TokenSortRatio(a, b string) float64 {
	sa := sortTokens(a)
	sb := sortTokens(b)

	if sa == sb {
		return 100
	}
	if sa == "" || sb == "" {
		return 0
	}

	return math.RoundToEven(100 * matchRatio([]rune(sa), []rune(sb)))
}

func sortTokens(s string) string {
	tokens := strings.Fields(process(s))
	sort.Strings(tokens)
	return strings.TrimSpace(strings.Join(tokens, " "))
}

// process drops Latin-1 supplement code points, turns every non-word rune into a space,
// lowercases and trims.
func process(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 128 && r < 256:
			continue
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(strings.ToLower(b.String()))
}

// matchRatio returns 2*M/T where M is the total size of the matching blocks found by
// recursively taking the longest common substring.
func matchRatio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}

	type span struct{ alo, ahi, blo, bhi int }

	matched := 0
	stack := []span{{0, len(a), 0, len(b)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, k := longestMatch(a, b, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			stack = append(stack, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			stack = append(stack, span{i + k, s.ahi, j + k, s.bhi})
		}
	}

	return 2 * float64(matched) / float64(total)
}

// longestMatch finds the longest block a[i:i+k] == b[j:j+k] within the given bounds,
// preferring the earliest start in a and then in b.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (int, int, int) {
	besti, bestj, bestk := alo, blo, 0

	prev := make([]int, bhi-blo+1)
	curr := make([]int, bhi-blo+1)
	for i := alo; i < ahi; i++ {
		for j := blo; j < bhi; j++ {
			idx := j - blo + 1
			if a[i] != b[j] {
				curr[idx] = 0
				continue
			}
			k := prev[idx-1] + 1
			curr[idx] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		prev, curr = curr, prev
	}

	return besti, bestj, bestk
}
