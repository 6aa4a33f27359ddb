package aggregate

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
)

// DefaultTopWords caps the word frequency table.
const DefaultTopWords = 30

const (
	minTokenRunes = 4
	minTokenCount = 2
	punctuation   = ".,/#!$%^&*;:{}=-_`~()"
)

var stopWords = map[string]struct{}{ //nolint:gochecknoglobals // fixed list
	"and": {}, "the": {}, "to": {}, "a": {}, "of": {}, "in": {}, "is": {}, "it": {},
	"you": {}, "that": {}, "was": {}, "for": {}, "on": {}, "are": {}, "with": {}, "as": {},
	"i": {}, "his": {}, "they": {}, "be": {}, "at": {}, "have": {}, "this": {}, "or": {},
	"had": {}, "by": {}, "but": {}, "not": {}, "what": {}, "all": {}, "were": {}, "we": {},
	"when": {}, "your": {}, "can": {}, "said": {}, "there": {}, "use": {}, "an": {},
	"each": {}, "which": {},
}

// IsStopWord reports whether token is excluded from the word table.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Tokenize lower-cases headings and bodies, strips the fixed punctuation set and
// splits on whitespace. Short tokens and stop words are dropped.
func Tokenize(reviews []review.Review) []string {
	var sb strings.Builder
	for i, r := range reviews {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(r.Heading)
		sb.WriteByte(' ')
		sb.WriteString(r.Body)
	}

	blob := strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, strings.ToLower(sb.String()))

	fields := strings.Fields(blob)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenRunes || IsStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// WordFrequency returns the most frequent tokens that appear at least twice,
// highest count first, ties in first-seen order. Weight is count relative to
// the top entry.
func WordFrequency(reviews []review.Review, limit int) []types.WordCount {
	if limit < 1 {
		limit = DefaultTopWords
	}

	index := make(map[string]int)
	counts := make([]types.WordCount, 0)
	for _, tok := range Tokenize(reviews) {
		i, ok := index[tok]
		if !ok {
			i = len(counts)
			index[tok] = i
			counts = append(counts, types.WordCount{Token: tok})
		}
		counts[i].Count++
	}

	out := slices.DeleteFunc(counts, func(w types.WordCount) bool {
		return w.Count < minTokenCount
	})
	slices.SortStableFunc(out, func(a, b types.WordCount) int {
		return b.Count - a.Count
	})
	if len(out) > limit {
		out = out[:limit]
	}

	if len(out) > 0 {
		top := float64(out[0].Count)
		for i := range out {
			out[i].Weight = float64(out[i].Count) / top
		}
	}
	return out
}
