package rubric

import "testing"

func TestAggregate_FullMarks(t *testing.T) {
	components := []Component{
		{Name: "grammar", Score: 25, MaxScore: 25, Weight: 1},
		{Name: "vocabulary", Score: 25, MaxScore: 25, Weight: 1},
		{Name: "coherence", Score: 50, MaxScore: 50, Weight: 2},
	}
	for _, threshold := range []int{0, 60, 65, 100} {
		r := Aggregate(components, threshold)
		if r.Percentage != 100 {
			t.Fatalf("threshold %d: got percentage %d, want 100", threshold, r.Percentage)
		}
		if !r.Passed {
			t.Fatalf("threshold %d: full marks must pass", threshold)
		}
	}
}

func TestAggregate_ZeroMaxGuard(t *testing.T) {
	r := Aggregate(nil, 65)
	if r.Percentage != 0 {
		t.Fatalf("got percentage %d, want 0", r.Percentage)
	}
	if r.Passed {
		t.Fatal("empty rubric must not pass a 65 threshold")
	}

	r = Aggregate([]Component{{Name: "noop", Score: 0, MaxScore: 0}}, 0)
	if r.Percentage != 0 {
		t.Fatalf("zero-max component: got percentage %d, want 0", r.Percentage)
	}
	if !r.Passed {
		t.Fatal("threshold 0 passes even at zero percentage")
	}
}

func TestAggregate_UnweightedSums(t *testing.T) {
	// Weight is reporting metadata; it must not rescale the totals.
	components := []Component{
		{Name: "a", Score: 10, MaxScore: 20, Weight: 100},
		{Name: "b", Score: 10, MaxScore: 20, Weight: 0.001},
	}
	r := Aggregate(components, 50)
	if r.Achieved != 20 || r.Max != 40 {
		t.Fatalf("got achieved=%v max=%v, want 20/40", r.Achieved, r.Max)
	}
	if r.Percentage != 50 || !r.Passed {
		t.Fatalf("got %+v, want 50%% pass at threshold 50", r)
	}
}

func TestAggregate_Rounding(t *testing.T) {
	r := Aggregate([]Component{{Name: "a", Score: 2, MaxScore: 3}}, 67)
	if r.Percentage != 67 {
		t.Fatalf("got percentage %d, want 67 (2/3 rounds up)", r.Percentage)
	}
	if !r.Passed {
		t.Fatal("67 >= 67 must pass")
	}

	r = Aggregate([]Component{{Name: "a", Score: 1, MaxScore: 3}}, 34)
	if r.Percentage != 33 {
		t.Fatalf("got percentage %d, want 33 (1/3 rounds down)", r.Percentage)
	}
	if r.Passed {
		t.Fatal("33 < 34 must not pass")
	}
}
