// Package ordering scores reordering tasks by adjacency pairs: a submitted
// order earns credit for each consecutive pair that is also consecutive (and
// forward) in the canonical order. A response shifted by one position but
// internally coherent still earns partial credit.
package ordering

// Outcome is the adjacency-pair score for one submission.
type Outcome struct {
	CorrectPairs int
	MaxPairs     int
}

// IsCorrect reports whether every possible adjacent pair was correct.
func (o Outcome) IsCorrect() bool {
	return o.MaxPairs > 0 && o.CorrectPairs == o.MaxPairs
}

// Score counts the adjacent pairs in userOrder that occupy adjacent,
// forward-ordered positions in canonicalOrder. Ids absent from the canonical
// order never form a correct pair. MaxPairs is len(canonicalOrder)-1,
// clamped to zero.
func Score(userOrder, canonicalOrder []string) Outcome {
	position := make(map[string]int, len(canonicalOrder))
	for i, id := range canonicalOrder {
		position[id] = i
	}

	out := Outcome{MaxPairs: len(canonicalOrder) - 1}
	if out.MaxPairs < 0 {
		out.MaxPairs = 0
	}

	for i := 0; i+1 < len(userOrder); i++ {
		a, okA := position[userOrder[i]]
		b, okB := position[userOrder[i+1]]
		if okA && okB && b == a+1 {
			out.CorrectPairs++
		}
	}
	return out
}
