// Package intent wraps the statistical intent classifier and its canned
// response catalog. The dialogue state machine consults it only when no
// rule matches a message.
package intent

import (
	"context"
	"strings"
	"unicode"
)

// DefaultThreshold is the minimum confidence at which a predicted label
// is trusted. The boundary is inclusive: exactly 0.4 is accepted.
const DefaultThreshold = 0.4

// Result is one classification outcome. It is not persisted.
type Result struct {
	Label      string
	Confidence float64
}

// Classifier maps a normalized message to an intent label with a
// confidence in [0,1]. Implementations may block on I/O; callers impose
// timeouts through ctx.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// Normalize lowercases, tokenizes, and lightly stems a raw message the
// way the training pipeline does before vectorization. It stands in for
// the external lemmatization collaborator at this boundary.
func Normalize(text string) string {
	tokens := Tokenize(text)
	for i, tok := range tokens {
		tokens[i] = stem(tok)
	}
	return strings.Join(tokens, " ")
}

// Tokenize splits text into lowercase word tokens, dropping punctuation.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// stem strips common plural suffixes. The training vocabulary is
// lemmatized nouns, so plural folding is the only reduction that matters
// here.
func stem(tok string) string {
	switch {
	case strings.HasSuffix(tok, "ies") && len(tok) > 4:
		return tok[:len(tok)-3] + "y"
	case strings.HasSuffix(tok, "sses"):
		return tok[:len(tok)-2]
	case strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") && len(tok) > 3:
		return tok[:len(tok)-1]
	}
	return tok
}
