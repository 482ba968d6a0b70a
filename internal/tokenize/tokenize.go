// Package tokenize splits response text into ordered word tokens. Every other
// evaluation component works over its output, so tokenization happens exactly
// once per response and the result is never mutated.
package tokenize

import "strings"

// punctuation is the fixed set stripped during normalization. Internal
// apostrophes in contractions survive (only the quote characters listed
// here are removed).
const punctuation = ".,!?;:-()[]{}\"“”'‘’"

// Token is a whitespace-delimited word unit with a stable index into the
// original response text.
type Token struct {
	// Index is the 0-based position in whitespace-delimited order.
	Index int
	// Raw is the word as typed, retained for display.
	Raw string
	// Normalized is the punctuation-stripped, lower-cased form used for
	// all matching.
	Normalized string
}

// Span is a half-open token-index range [Start, End). A resolved span always
// refers to indices that exist in the token slice it was resolved against.
type Span struct {
	Start int
	End   int
}

// Len returns the number of tokens covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Tokenize splits text on runs of whitespace and returns the ordered token
// list. Empty fragments are discarded. Pure and deterministic: the same input
// always yields the identical token list. Empty text yields an empty list.
func Tokenize(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, 0, len(fields))
	for i, f := range fields {
		tokens = append(tokens, Token{
			Index:      i,
			Raw:        f,
			Normalized: Normalize(f),
		})
	}
	return tokens
}

// Normalize strips the fixed punctuation set and lower-cases the word.
func Normalize(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		if strings.ContainsRune(punctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Words returns the normalized forms of a token slice, in order.
func Words(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Normalized
	}
	return out
}
