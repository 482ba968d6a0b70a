// Package evaluate is the dispatcher tying the scoring components together.
// It maps a question-type tag to the scorer combination for that tag, runs
// the span resolver over every oracle error report, aggregates rubric
// components, and emits one normalized evaluation record per response.
//
// Evaluation is pure and synchronous: each call owns its tokenized copy of
// the response and its own collections, so independent responses may be
// evaluated concurrently with no coordination.
package evaluate

import (
	"errors"
	"fmt"

	"github.com/parlo-app/parlo/internal/dictation"
	"github.com/parlo-app/parlo/internal/locate"
	"github.com/parlo-app/parlo/internal/options"
	"github.com/parlo-app/parlo/internal/ordering"
	"github.com/parlo-app/parlo/internal/rubric"
	"github.com/parlo-app/parlo/internal/tokenize"
)

// ErrUnsupportedType is returned when the dispatch table has no entry for a
// question type. This is the one hard failure: it indicates a configuration
// or schema mismatch, not bad learner input.
var ErrUnsupportedType = errors.New("unsupported question type")

// Evaluate scores one learner response and returns the normalized record.
// Every recoverable problem (malformed oracle payload, unresolvable error
// span) degrades to a valid, if pessimistic, record; only an unknown
// question type returns an error.
func Evaluate(req Request) (*Evaluation, error) {
	spec, ok := questionTable[req.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, req.Type)
	}

	ev := &Evaluation{Type: req.Type, Stage: StageIdle}

	switch spec.kind {
	case kindOracle:
		evaluateOracle(req, spec, ev)
	case kindDictation:
		evaluateDictation(req, spec, ev)
	case kindOrder:
		evaluateOrder(req, spec, ev)
	case kindOptions:
		evaluateOptions(req, spec, ev)
	}
	return ev, nil
}

// evaluateOracle handles the oracle-graded families: tokenize once, resolve
// every error report, aggregate the rubric.
func evaluateOracle(req Request, spec questionSpec, ev *Evaluation) {
	ev.Stage = StageTokenizing
	tokens := tokenize.Tokenize(req.ResponseText)

	result, err := parsePayload(spec.family, req.OraclePayload)
	if err != nil {
		// Malformed payload: substitute zero-valued components and an
		// empty error list so downstream persistence still gets a full
		// record.
		failWithZeroRubric(ev, spec)
		return
	}

	ev.Stage = StageResolving
	ev.ResolvedErrors = resolveReports(result.reports, tokens)

	ev.Stage = StageAggregating
	ev.Components = result.components
	ev.Feedback = result.feedback
	finishFromRubric(ev, spec.passPct)
	ev.IsCorrect = ev.Passed
	ev.Stage = StageDone
}

func evaluateDictation(req Request, spec questionSpec, ev *Evaluation) {
	ev.Stage = StageTokenizing
	userTokens := tokenize.Tokenize(req.ResponseText)
	canonicalTokens := tokenize.Tokenize(req.Reference.Transcript)

	ev.Stage = StageAggregating
	out := dictation.Match(userTokens, canonicalTokens)
	ev.Dictation = &out

	// Exact hits earn full credit, misspellings half.
	score := float64(len(out.Matched)) + 0.5*float64(len(out.Misspelled))
	ev.Components = []rubric.Component{{
		Name:     "transcription",
		Score:    score,
		MaxScore: float64(len(canonicalTokens)),
		Weight:   1,
	}}
	finishFromRubric(ev, spec.passPct)
	ev.IsCorrect = out.IsCorrect()
	ev.Stage = StageDone
}

func evaluateOrder(req Request, spec questionSpec, ev *Evaluation) {
	ev.Stage = StageAggregating
	out := ordering.Score(req.SubmittedOrder, req.Reference.Order)
	ev.Order = &out

	ev.Components = []rubric.Component{{
		Name:     "ordering",
		Score:    float64(out.CorrectPairs),
		MaxScore: float64(out.MaxPairs),
		Weight:   1,
	}}
	finishFromRubric(ev, spec.passPct)
	ev.IsCorrect = out.IsCorrect()
	ev.Stage = StageDone
}

func evaluateOptions(req Request, spec questionSpec, ev *Evaluation) {
	ev.Stage = StageAggregating
	out := options.Score(req.SelectedOptions, req.Reference.Options)
	ev.Options = &out

	ev.Components = []rubric.Component{{
		Name:     "selection",
		Score:    float64(out.Hits),
		MaxScore: float64(out.TotalCorrect),
		Weight:   1,
	}}
	finishFromRubric(ev, spec.passPct)
	ev.IsCorrect = out.IsCorrect
	ev.Stage = StageDone
}

// resolveReports runs the span resolver over every report. Reports that
// resolve to no occurrence are dropped; they never affect sibling reports or
// the overall score.
func resolveReports(reports []locate.ErrorReport, tokens []tokenize.Token) []ResolvedError {
	var resolved []ResolvedError
	for _, r := range reports {
		span, ok := locate.Resolve(r, tokens)
		if !ok {
			continue
		}
		resolved = append(resolved, ResolvedError{Text: r.Text, Category: r.Category, Span: span})
	}
	return resolved
}

// finishFromRubric aggregates ev.Components and fills the score fields.
func finishFromRubric(ev *Evaluation, passPct int) {
	r := rubric.Aggregate(ev.Components, passPct)
	ev.Score = r.Achieved
	ev.MaxScore = r.Max
	ev.Percentage = r.Percentage
	ev.Passed = r.Passed
}

// failWithZeroRubric marks the record failed and substitutes a zero-valued
// rubric so the caller always receives a well-formed record.
func failWithZeroRubric(ev *Evaluation, spec questionSpec) {
	ev.Components = zeroComponents(spec.family)
	finishFromRubric(ev, spec.passPct)
	ev.IsCorrect = false
	ev.ResolvedErrors = nil
	ev.Stage = StageFailed
}
