package ordering

import "testing"

func TestScore_OneLocalSwap(t *testing.T) {
	out := Score([]string{"B", "A", "C", "D"}, []string{"A", "B", "C", "D"})
	if out.CorrectPairs != 1 {
		t.Errorf("got %d correct pairs, want 1 (only C,D)", out.CorrectPairs)
	}
	if out.MaxPairs != 3 {
		t.Errorf("got %d max pairs, want 3", out.MaxPairs)
	}
	if out.IsCorrect() {
		t.Error("partial credit must not be correct")
	}
}

func TestScore_Perfect(t *testing.T) {
	out := Score([]string{"A", "B", "C"}, []string{"A", "B", "C"})
	if out.CorrectPairs != 2 || out.MaxPairs != 2 {
		t.Fatalf("got %+v, want 2/2", out)
	}
	if !out.IsCorrect() {
		t.Error("full adjacency credit must be correct")
	}
}

func TestScore_ShiftedButCoherent(t *testing.T) {
	// Globally offset, locally coherent: B,C and C,D are still adjacent.
	out := Score([]string{"D", "A", "B", "C"}, []string{"A", "B", "C", "D"})
	if out.CorrectPairs != 2 {
		t.Errorf("got %d correct pairs, want 2", out.CorrectPairs)
	}
}

func TestScore_ReversePairNotCredited(t *testing.T) {
	out := Score([]string{"B", "A"}, []string{"A", "B"})
	if out.CorrectPairs != 0 {
		t.Errorf("got %d correct pairs, want 0 (backward pair)", out.CorrectPairs)
	}
}

func TestScore_UnknownIds(t *testing.T) {
	out := Score([]string{"A", "X", "B"}, []string{"A", "B"})
	if out.CorrectPairs != 0 {
		t.Errorf("got %d correct pairs, want 0 (X breaks both pairs)", out.CorrectPairs)
	}
}

func TestScore_Degenerate(t *testing.T) {
	if out := Score(nil, nil); out.MaxPairs != 0 || out.CorrectPairs != 0 {
		t.Errorf("empty canonical: got %+v", out)
	}
	if out := Score([]string{"A"}, []string{"A"}); out.MaxPairs != 0 {
		t.Errorf("single item: got max pairs %d, want 0", out.MaxPairs)
	}
	if Score([]string{"A"}, []string{"A"}).IsCorrect() {
		t.Error("zero max pairs must not report correct")
	}
}
