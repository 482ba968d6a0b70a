// Package options scores single- and multi-select tasks by set difference.
// Single-answer variants are the one-element special case of the same
// contract.
package options

// Outcome is the set-difference score for one selection.
type Outcome struct {
	// Hits is the number of selected ids that are correct.
	Hits int
	// Wrong is the number of selected ids that are not correct.
	Wrong int
	// Missed is the number of correct ids left unselected.
	Missed int
	// TotalCorrect is the size of the correct set.
	TotalCorrect int
	// IsCorrect reports a strict full match: nothing wrong, nothing missed.
	IsCorrect bool
}

// Score compares the selected ids against the correct ids. Duplicates in
// either input are collapsed; selection is a set.
func Score(selected, correct []string) Outcome {
	correctSet := toSet(correct)
	selectedSet := toSet(selected)

	var out Outcome
	out.TotalCorrect = len(correctSet)

	for id := range selectedSet {
		if _, ok := correctSet[id]; ok {
			out.Hits++
		} else {
			out.Wrong++
		}
	}
	out.Missed = out.TotalCorrect - out.Hits
	out.IsCorrect = out.Wrong == 0 && out.Missed == 0
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
