// Package dictation scores transcription exercises by fuzzy-aligning the
// learner's words against the canonical transcript. Matching is over word
// multisets, not sequences: saying the right words in the wrong order still
// counts, which suits transcripts of spoken audio where segmentation drifts.
package dictation

import "github.com/parlo-app/parlo/internal/tokenize"

// MatchedPair records a canonical word hit exactly by a user word.
type MatchedPair struct {
	Canonical string
	User      string
}

// MisspelledPair records a user word close enough to a canonical word to be
// treated as a misspelling rather than a miss.
type MisspelledPair struct {
	User      string
	Canonical string
}

// Outcome partitions both word lists. Every canonical word lands in exactly
// one of Matched/Misspelled/Missing; every user word lands in exactly one of
// Matched/Misspelled/Extra.
type Outcome struct {
	Matched    []MatchedPair
	Misspelled []MisspelledPair
	Missing    []string
	Extra      []string
}

// IsCorrect reports strict correctness: every canonical word hit exactly and
// no surplus input.
func (o Outcome) IsCorrect() bool {
	return len(o.Missing) == 0 && len(o.Extra) == 0 && len(o.Misspelled) == 0
}

// Match aligns the user's tokens against the canonical transcript tokens in
// two passes over normalized words. Pass 1 consumes exact matches; pass 2
// pairs leftover canonical words with the first unconsumed user word within
// the fuzzy edit-distance threshold. Whatever the user typed beyond that is
// extra.
func Match(userTokens, canonicalTokens []tokenize.Token) Outcome {
	user := tokenize.Words(userTokens)
	canonical := tokenize.Words(canonicalTokens)

	consumed := make([]bool, len(user))
	matchedCanonical := make([]bool, len(canonical))

	var out Outcome

	for ci, cw := range canonical {
		for ui, uw := range user {
			if consumed[ui] || uw != cw {
				continue
			}
			consumed[ui] = true
			matchedCanonical[ci] = true
			out.Matched = append(out.Matched, MatchedPair{Canonical: cw, User: uw})
			break
		}
	}

	for ci, cw := range canonical {
		if matchedCanonical[ci] {
			continue
		}
		found := false
		for ui, uw := range user {
			if consumed[ui] {
				continue
			}
			if Levenshtein(uw, cw) <= fuzzyThreshold(uw, cw) {
				consumed[ui] = true
				out.Misspelled = append(out.Misspelled, MisspelledPair{User: uw, Canonical: cw})
				found = true
				break
			}
		}
		if !found {
			out.Missing = append(out.Missing, cw)
		}
	}

	for ui, uw := range user {
		if !consumed[ui] {
			out.Extra = append(out.Extra, uw)
		}
	}

	return out
}

// fuzzyThreshold is the maximum edit distance at which two words are still
// considered the same word misspelled: at least 2, scaling to a quarter of
// the longer word.
func fuzzyThreshold(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	longer := la
	if lb > la {
		longer = lb
	}
	t := (longer + 3) / 4 // ceil(0.25 * longer)
	if t < 2 {
		t = 2
	}
	return t
}

// Levenshtein computes the character-level edit distance between a and b
// with unit insert/delete/substitute costs and no transposition discount.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
