package evaluate

import (
	"encoding/json"

	"github.com/parlo-app/parlo/internal/dictation"
	"github.com/parlo-app/parlo/internal/locate"
	"github.com/parlo-app/parlo/internal/options"
	"github.com/parlo-app/parlo/internal/ordering"
	"github.com/parlo-app/parlo/internal/rubric"
	"github.com/parlo-app/parlo/internal/tokenize"
)

// QuestionType identifies how a response is graded.
type QuestionType string

const (
	SpeakingTopic         QuestionType = "speaking_topic"
	SpeakingDescribePhoto QuestionType = "speaking_describe_photo"
	WritingEssay          QuestionType = "writing_essay"
	WritingEmail          QuestionType = "writing_email"
	ListeningSummary      QuestionType = "listening_summary"
	ListeningDictation    QuestionType = "listening_dictation"
	SentenceOrder         QuestionType = "sentence_order"
	MultipleChoice        QuestionType = "multiple_choice"
	MultiSelect           QuestionType = "multi_select"
)

// Family groups the oracle-graded question types that share a payload shape.
type Family string

const (
	FamilySpeaking  Family = "speaking"
	FamilyWriting   Family = "writing"
	FamilyListening Family = "listening"
)

// Stage tracks the dispatcher's linear progression through one evaluation.
// Failure at any stage transitions directly to StageFailed; the caller still
// receives a well-formed zero-score record.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageTokenizing  Stage = "tokenizing"
	StageResolving   Stage = "resolving"
	StageAggregating Stage = "aggregating"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Reference is the canonical answer data for one question, supplied by the
// persistence layer. Only the field matching the question type is consulted.
type Reference struct {
	// Transcript is the canonical dictation transcript.
	Transcript string
	// Order is the canonical fragment id order.
	Order []string
	// Options is the set of correct option ids.
	Options []string
}

// Request carries one learner response into the engine.
type Request struct {
	Type QuestionType
	// ResponseText is the typed text or spoken-audio transcript.
	ResponseText string
	// SelectedOptions holds the picked option ids for option questions.
	SelectedOptions []string
	// SubmittedOrder holds the fragment ids in the learner's order.
	SubmittedOrder []string
	Reference      Reference
	// OraclePayload is the raw rubric JSON returned by the grading oracle.
	// Required for oracle-graded types, ignored otherwise.
	OraclePayload json.RawMessage
}

// ResolvedError pairs an oracle error report with its exact token span.
// Reports the resolver could not place are dropped before this point, so a
// ResolvedError always carries a valid span. The resolved span is the only
// position information surfaced; the oracle's approximate position never
// leaves the resolver.
type ResolvedError struct {
	Text     string          `json:"text"`
	Category locate.Category `json:"category"`
	Span     tokenize.Span   `json:"span"`
}

// Evaluation is the normalized record emitted for every response. It is a
// plain value: handed to persistence and response formatting as-is.
type Evaluation struct {
	Type       QuestionType `json:"type"`
	Stage      Stage        `json:"stage"`
	Score      float64      `json:"score"`
	MaxScore   float64      `json:"max_score"`
	Percentage int          `json:"percentage"`
	Passed     bool         `json:"passed"`
	// IsCorrect is strict correctness for algorithmic types; for
	// oracle-graded types it mirrors Passed.
	IsCorrect  bool               `json:"is_correct"`
	Components []rubric.Component `json:"components,omitempty"`

	Dictation *dictation.Outcome `json:"dictation,omitempty"`
	Order     *ordering.Outcome  `json:"order,omitempty"`
	Options   *options.Outcome   `json:"options,omitempty"`

	ResolvedErrors []ResolvedError `json:"resolved_errors,omitempty"`
	Feedback       string          `json:"feedback,omitempty"`
}

// kind selects which scorer combination a question type uses.
type kind int

const (
	kindOracle kind = iota
	kindDictation
	kindOrder
	kindOptions
)

// questionSpec is one row of the static dispatch table.
type questionSpec struct {
	kind    kind
	family  Family
	passPct int
}

// questionTable maps every supported question type to its scorer combination
// and pass threshold.
var questionTable = map[QuestionType]questionSpec{
	SpeakingTopic:         {kind: kindOracle, family: FamilySpeaking, passPct: 65},
	SpeakingDescribePhoto: {kind: kindOracle, family: FamilySpeaking, passPct: 65},
	WritingEssay:          {kind: kindOracle, family: FamilyWriting, passPct: 60},
	WritingEmail:          {kind: kindOracle, family: FamilyWriting, passPct: 60},
	ListeningSummary:      {kind: kindOracle, family: FamilyListening, passPct: 65},
	ListeningDictation:    {kind: kindDictation, passPct: 65},
	SentenceOrder:         {kind: kindOrder, passPct: 65},
	MultipleChoice:        {kind: kindOptions, passPct: 65},
	MultiSelect:           {kind: kindOptions, passPct: 65},
}

// FamilyFor returns the oracle payload family for a question type. The
// second result is false for algorithmic types, which need no oracle.
func FamilyFor(qt QuestionType) (Family, bool) {
	spec, ok := questionTable[qt]
	if !ok || spec.kind != kindOracle {
		return "", false
	}
	return spec.family, true
}

// SupportedTypes returns every question type the dispatcher knows, for CLI
// help and input validation.
func SupportedTypes() []QuestionType {
	return []QuestionType{
		SpeakingTopic, SpeakingDescribePhoto,
		WritingEssay, WritingEmail,
		ListeningSummary, ListeningDictation,
		SentenceOrder, MultipleChoice, MultiSelect,
	}
}
