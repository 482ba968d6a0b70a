package locate

import (
	"testing"

	"github.com/parlo-app/parlo/internal/tokenize"
)

func toks(text string) []tokenize.Token {
	return tokenize.Tokenize(text)
}

func TestResolve_SingleOccurrence(t *testing.T) {
	span, ok := Resolve(ErrorReport{Text: "quick"}, toks("the quick brown fox"))
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 1 || span.End != 2 {
		t.Fatalf("got span [%d,%d), want [1,2)", span.Start, span.End)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	if _, ok := Resolve(ErrorReport{Text: "zebra"}, toks("the quick brown fox")); ok {
		t.Fatal("expected no span for absent text")
	}
}

func TestResolve_EmptyInputs(t *testing.T) {
	if _, ok := Resolve(ErrorReport{Text: ""}, toks("a b c")); ok {
		t.Fatal("expected no span for empty error text")
	}
	if _, ok := Resolve(ErrorReport{Text: "a"}, nil); ok {
		t.Fatal("expected no span for empty token list")
	}
}

func TestResolve_MultiWordPhrase(t *testing.T) {
	span, ok := Resolve(ErrorReport{Text: "brown fox"}, toks("the quick brown fox jumps"))
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 2 || span.End != 4 {
		t.Fatalf("got span [%d,%d), want [2,4)", span.Start, span.End)
	}
}

func TestResolve_NormalizesErrorText(t *testing.T) {
	span, ok := Resolve(ErrorReport{Text: "Brown, Fox!"}, toks("the quick brown fox jumps"))
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 2 {
		t.Fatalf("got start %d, want 2", span.Start)
	}
}

// Context disambiguates repeated occurrences: "cat" at index 5 has
// before="the" and after="ran", so it must win over index 1.
func TestResolve_ContextPriority(t *testing.T) {
	tokens := toks("the cat sat and the cat ran")
	report := ErrorReport{
		Text:    "cat",
		Context: &Context{Before: "the", After: "ran"},
	}
	span, ok := Resolve(report, tokens)
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 5 {
		t.Fatalf("got start %d, want 5", span.Start)
	}
}

// Both occurrences have before="the" and neither is followed by "ran" except
// the second; a tie on context score goes to the leftmost occurrence.
func TestResolve_ContextTieLeftmost(t *testing.T) {
	tokens := toks("the cat sat and the cat sat")
	report := ErrorReport{
		Text:    "cat",
		Context: &Context{Before: "the"},
	}
	span, ok := Resolve(report, tokens)
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 1 {
		t.Fatalf("got start %d, want 1 (leftmost wins context ties)", span.Start)
	}
}

// With no context and no approximate position, the last occurrence wins.
func TestResolve_DefaultsToLastOccurrence(t *testing.T) {
	tokens := toks("cat a cat b cat")
	span, ok := Resolve(ErrorReport{Text: "cat"}, tokens)
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 4 {
		t.Fatalf("got start %d, want 4 (rightmost default)", span.Start)
	}
}

// The approximate position only displaces the rightmost default when an
// occurrence is strictly more than 5 tokens closer to it.
func TestResolve_ApproxPosition(t *testing.T) {
	// Occurrences at 0, 10 and 20.
	text := "cat a b c d e f g h i cat k l m n o p q r s cat"
	tokens := toks(text)

	// Approx near the start: index 0 is 20 tokens closer than index 20.
	span, ok := Resolve(ErrorReport{
		Text:           "cat",
		ApproxPosition: &tokenize.Span{Start: 0, End: 1},
	}, tokens)
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 0 {
		t.Fatalf("got start %d, want 0", span.Start)
	}

	// Approx at 18: index 20 (distance 2) is only 6 closer than... the
	// default is index 20 itself, so nothing displaces it.
	span, ok = Resolve(ErrorReport{
		Text:           "cat",
		ApproxPosition: &tokenize.Span{Start: 18, End: 19},
	}, tokens)
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 20 {
		t.Fatalf("got start %d, want 20", span.Start)
	}
}

// An improvement of exactly 5 tokens does not override the default.
func TestResolve_ApproxSmallImprovementIgnored(t *testing.T) {
	// Occurrences at 0 and 7. Approx at 1: distances 1 and 6. The
	// improvement is exactly 5, so the rightmost default stands.
	tokens := toks("cat a b c d e f cat")
	span, ok := Resolve(ErrorReport{
		Text:           "cat",
		ApproxPosition: &tokenize.Span{Start: 1, End: 2},
	}, tokens)
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 7 {
		t.Fatalf("got start %d, want 7 (improvement of 5 is not enough)", span.Start)
	}
}

// Context beats the approximate position when both are present.
func TestResolve_ContextBeatsApprox(t *testing.T) {
	tokens := toks("the cat sat and the cat ran")
	report := ErrorReport{
		Text:           "cat",
		Context:        &Context{After: "sat"},
		ApproxPosition: &tokenize.Span{Start: 5, End: 6},
	}
	span, ok := Resolve(report, tokens)
	if !ok {
		t.Fatal("expected a resolved span")
	}
	if span.Start != 1 {
		t.Fatalf("got start %d, want 1 (context wins)", span.Start)
	}
}

// Repeated calls with identical inputs return identical results.
func TestResolve_Deterministic(t *testing.T) {
	tokens := toks("a b a b a b")
	report := ErrorReport{Text: "a b", Context: &Context{Before: "b"}}
	first, ok1 := Resolve(report, tokens)
	for i := 0; i < 10; i++ {
		got, ok := Resolve(report, tokens)
		if ok != ok1 || got != first {
			t.Fatalf("call %d: got (%+v,%v), want (%+v,%v)", i, got, ok, first, ok1)
		}
	}
}
