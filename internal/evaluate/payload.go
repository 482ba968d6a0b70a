package evaluate

import (
	"encoding/json"
	"fmt"

	"github.com/parlo-app/parlo/internal/locate"
	"github.com/parlo-app/parlo/internal/rubric"
	"github.com/parlo-app/parlo/internal/tokenize"
)

// The oracle's JSON shape varies per question-type family. Rather than one
// generic parser, each family gets its own variant with an explicit mapping
// into rubric components and error reports, isolating oracle schema drift
// from the algorithmic core.

// payloadError is a single error entry as the oracle emits it. Position is
// approximate at best and often absent or wrong.
type payloadError struct {
	Text     string           `json:"text"`
	Position *payloadPosition `json:"position"`
	Before   string           `json:"before"`
	After    string           `json:"after"`
}

type payloadPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Score fields are pointers so a missing or null score is distinguishable
// from a zero; a missing score makes the whole payload malformed.
type speakingPayload struct {
	Scores struct {
		Pronunciation *float64 `json:"pronunciation"`
		Fluency       *float64 `json:"fluency"`
		Vocabulary    *float64 `json:"vocabulary"`
		Grammar       *float64 `json:"grammar"`
		Content       *float64 `json:"content"`
	} `json:"scores"`
	Feedback      string `json:"feedback"`
	ErrorAnalysis struct {
		PronunciationErrors []payloadError `json:"pronunciationErrors"`
		GrammarErrors       []payloadError `json:"grammarErrors"`
		VocabularyErrors    []payloadError `json:"vocabularyErrors"`
	} `json:"errorAnalysis"`
}

type writingPayload struct {
	Scores struct {
		Grammar         *float64 `json:"grammar"`
		Vocabulary      *float64 `json:"vocabulary"`
		Coherence       *float64 `json:"coherence"`
		TaskAchievement *float64 `json:"taskAchievement"`
	} `json:"scores"`
	Feedback      string `json:"feedback"`
	ErrorAnalysis struct {
		GrammarErrors    []payloadError `json:"grammarErrors"`
		SpellingErrors   []payloadError `json:"spellingErrors"`
		VocabularyErrors []payloadError `json:"vocabularyErrors"`
	} `json:"errorAnalysis"`
}

type listeningPayload struct {
	Scores struct {
		Accuracy     *float64 `json:"accuracy"`
		Completeness *float64 `json:"completeness"`
	} `json:"scores"`
	Feedback      string `json:"feedback"`
	ErrorAnalysis struct {
		ContentErrors []payloadError `json:"contentErrors"`
	} `json:"errorAnalysis"`
}

// oracleResult is the family-independent reduction every payload maps into
// before reaching the scoring core.
type oracleResult struct {
	components []rubric.Component
	reports    []locate.ErrorReport
	feedback   string
}

// parsePayload reduces a raw oracle payload to the canonical shapes for its
// family. Malformed payloads (unparseable JSON, missing score fields) return
// an error; the dispatcher recovers by substituting a zero-score record.
func parsePayload(family Family, raw json.RawMessage) (oracleResult, error) {
	switch family {
	case FamilySpeaking:
		return parseSpeaking(raw)
	case FamilyWriting:
		return parseWriting(raw)
	case FamilyListening:
		return parseListening(raw)
	default:
		return oracleResult{}, fmt.Errorf("unknown payload family %q", family)
	}
}

func parseSpeaking(raw json.RawMessage) (oracleResult, error) {
	var p speakingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return oracleResult{}, fmt.Errorf("parse speaking payload: %w", err)
	}
	components, err := buildComponents([]scoreField{
		{"pronunciation", p.Scores.Pronunciation, 20, 1},
		{"fluency", p.Scores.Fluency, 20, 1},
		{"vocabulary", p.Scores.Vocabulary, 20, 1},
		{"grammar", p.Scores.Grammar, 20, 1},
		{"content", p.Scores.Content, 20, 1.5},
	})
	if err != nil {
		return oracleResult{}, err
	}
	var reports []locate.ErrorReport
	reports = appendReports(reports, p.ErrorAnalysis.PronunciationErrors, locate.CategoryPronunciation)
	reports = appendReports(reports, p.ErrorAnalysis.GrammarErrors, locate.CategoryGrammar)
	reports = appendReports(reports, p.ErrorAnalysis.VocabularyErrors, locate.CategoryVocabulary)
	return oracleResult{components: components, reports: reports, feedback: p.Feedback}, nil
}

func parseWriting(raw json.RawMessage) (oracleResult, error) {
	var p writingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return oracleResult{}, fmt.Errorf("parse writing payload: %w", err)
	}
	components, err := buildComponents([]scoreField{
		{"grammar", p.Scores.Grammar, 25, 1},
		{"vocabulary", p.Scores.Vocabulary, 25, 1},
		{"coherence", p.Scores.Coherence, 25, 1},
		{"task_achievement", p.Scores.TaskAchievement, 25, 1},
	})
	if err != nil {
		return oracleResult{}, err
	}
	var reports []locate.ErrorReport
	reports = appendReports(reports, p.ErrorAnalysis.GrammarErrors, locate.CategoryGrammar)
	reports = appendReports(reports, p.ErrorAnalysis.SpellingErrors, locate.CategorySpelling)
	reports = appendReports(reports, p.ErrorAnalysis.VocabularyErrors, locate.CategoryVocabulary)
	return oracleResult{components: components, reports: reports, feedback: p.Feedback}, nil
}

func parseListening(raw json.RawMessage) (oracleResult, error) {
	var p listeningPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return oracleResult{}, fmt.Errorf("parse listening payload: %w", err)
	}
	components, err := buildComponents([]scoreField{
		{"accuracy", p.Scores.Accuracy, 50, 1},
		{"completeness", p.Scores.Completeness, 50, 1},
	})
	if err != nil {
		return oracleResult{}, err
	}
	reports := appendReports(nil, p.ErrorAnalysis.ContentErrors, locate.CategoryContent)
	return oracleResult{components: components, reports: reports, feedback: p.Feedback}, nil
}

type scoreField struct {
	name   string
	value  *float64
	max    float64
	weight float64
}

func buildComponents(fields []scoreField) ([]rubric.Component, error) {
	components := make([]rubric.Component, 0, len(fields))
	for _, f := range fields {
		if f.value == nil {
			return nil, fmt.Errorf("missing score field %q", f.name)
		}
		score := *f.value
		// Scores the oracle pushed out of range are clamped, not rejected;
		// the rubric invariant is 0 <= score <= max.
		if score < 0 {
			score = 0
		}
		if score > f.max {
			score = f.max
		}
		components = append(components, rubric.Component{
			Name:     f.name,
			Score:    score,
			MaxScore: f.max,
			Weight:   f.weight,
		})
	}
	return components, nil
}

func appendReports(reports []locate.ErrorReport, entries []payloadError, category locate.Category) []locate.ErrorReport {
	for _, e := range entries {
		if e.Text == "" {
			continue
		}
		r := locate.ErrorReport{Text: e.Text, Category: category}
		if e.Position != nil {
			r.ApproxPosition = &tokenize.Span{Start: e.Position.Start, End: e.Position.End}
		}
		if e.Before != "" || e.After != "" {
			r.Context = &locate.Context{Before: e.Before, After: e.After}
		}
		reports = append(reports, r)
	}
	return reports
}

// zeroComponents returns a zero-valued rubric for a family, used when the
// oracle payload is malformed and the caller still needs a well-formed
// record.
func zeroComponents(family Family) []rubric.Component {
	switch family {
	case FamilySpeaking:
		return []rubric.Component{
			{Name: "pronunciation", MaxScore: 20, Weight: 1},
			{Name: "fluency", MaxScore: 20, Weight: 1},
			{Name: "vocabulary", MaxScore: 20, Weight: 1},
			{Name: "grammar", MaxScore: 20, Weight: 1},
			{Name: "content", MaxScore: 20, Weight: 1.5},
		}
	case FamilyWriting:
		return []rubric.Component{
			{Name: "grammar", MaxScore: 25, Weight: 1},
			{Name: "vocabulary", MaxScore: 25, Weight: 1},
			{Name: "coherence", MaxScore: 25, Weight: 1},
			{Name: "task_achievement", MaxScore: 25, Weight: 1},
		}
	case FamilyListening:
		return []rubric.Component{
			{Name: "accuracy", MaxScore: 50, Weight: 1},
			{Name: "completeness", MaxScore: 50, Weight: 1},
		}
	default:
		return nil
	}
}
