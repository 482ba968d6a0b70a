// Package locate reconciles oracle error reports with the learner's actual
// tokenized text. The oracle reasons over meaning, not token offsets, so its
// position claims are frequently wrong or absent; Resolve recovers an exact,
// reproducible word-index span or reports that none exists.
package locate

import (
	"github.com/parlo-app/parlo/internal/tokenize"
)

// Category classifies an oracle-reported error.
type Category string

const (
	CategoryGrammar       Category = "grammar"
	CategorySpelling      Category = "spelling"
	CategoryVocabulary    Category = "vocabulary"
	CategoryPronunciation Category = "pronunciation"
	CategoryFluency       Category = "fluency"
	CategoryContent       Category = "content"
)

// Context holds the neighboring words the oracle claims surround the error.
// Either side may be empty.
type Context struct {
	Before string
	After  string
}

// ErrorReport is a single error as reported by the oracle. Untrusted input:
// ApproxPosition may be absent or wrong, and Text may not occur in the
// response at all. Resolve never mutates a report.
type ErrorReport struct {
	Text           string
	Category       Category
	ApproxPosition *tokenize.Span
	Context        *Context
}

// Context scoring: each matching neighbor is worth half the total.
const neighborScore = 50

// approxSlack is how many tokens closer an occurrence must be to the claimed
// approximate position before it displaces the default choice. Small
// improvements and ties never override.
const approxSlack = 5

// Resolve finds the best-matching token-index span for the report's text in
// tokens. Returns false when the text does not occur at all; the caller must
// drop the report rather than fabricate a position.
//
// Disambiguation, in order: a single occurrence wins outright; otherwise the
// highest context score wins (first occurrence on ties); otherwise an
// occurrence more than approxSlack tokens closer to the claimed approximate
// position wins; otherwise the last occurrence, since errors bias toward the
// end of longer responses.
func Resolve(report ErrorReport, tokens []tokenize.Token) (tokenize.Span, bool) {
	phrase := tokenize.Words(tokenize.Tokenize(report.Text))
	if len(phrase) == 0 || len(tokens) == 0 {
		return tokenize.Span{}, false
	}

	occurrences := findOccurrences(phrase, tokens)
	if len(occurrences) == 0 {
		return tokenize.Span{}, false
	}
	if len(occurrences) == 1 {
		return occurrences[0], true
	}

	if report.Context != nil {
		if span, ok := bestByContext(occurrences, report.Context, tokens); ok {
			return span, true
		}
	}

	best := occurrences[len(occurrences)-1]
	if report.ApproxPosition != nil {
		for _, occ := range occurrences {
			if absInt(occ.Start-report.ApproxPosition.Start)+approxSlack < absInt(best.Start-report.ApproxPosition.Start) {
				best = occ
			}
		}
	}
	return best, true
}

// findOccurrences returns every span in tokens whose normalized word sequence
// equals phrase, in ascending start order.
func findOccurrences(phrase []string, tokens []tokenize.Token) []tokenize.Span {
	var spans []tokenize.Span
	for start := 0; start+len(phrase) <= len(tokens); start++ {
		match := true
		for i, w := range phrase {
			if tokens[start+i].Normalized != w {
				match = false
				break
			}
		}
		if match {
			spans = append(spans, tokenize.Span{Start: start, End: start + len(phrase)})
		}
	}
	return spans
}

// bestByContext scores each occurrence against the claimed neighbors and
// returns the highest scorer, provided at least one occurrence scored above
// zero. Ties go to the first (leftmost) occurrence.
func bestByContext(occurrences []tokenize.Span, ctx *Context, tokens []tokenize.Token) (tokenize.Span, bool) {
	before := tokenize.Normalize(ctx.Before)
	after := tokenize.Normalize(ctx.After)

	bestScore := 0
	var best tokenize.Span
	for _, occ := range occurrences {
		score := 0
		if before != "" && occ.Start > 0 && tokens[occ.Start-1].Normalized == before {
			score += neighborScore
		}
		if after != "" && occ.End < len(tokens) && tokens[occ.End].Normalized == after {
			score += neighborScore
		}
		if score > bestScore {
			bestScore = score
			best = occ
		}
	}
	if bestScore == 0 {
		return tokenize.Span{}, false
	}
	return best, true
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
