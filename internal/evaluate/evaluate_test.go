package evaluate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlo-app/parlo/internal/locate"
)

const speakingPayloadJSON = `{
	"scores": {"pronunciation": 16, "fluency": 14, "vocabulary": 15, "grammar": 13, "content": 18},
	"feedback": "Good range of vocabulary, watch your verb tenses.",
	"errorAnalysis": {
		"grammarErrors": [
			{"text": "cat", "before": "the", "after": "ran", "position": {"start": 1, "end": 2}}
		],
		"vocabularyErrors": [
			{"text": "zebra"}
		]
	}
}`

func TestEvaluate_SpeakingTopic(t *testing.T) {
	ev, err := Evaluate(Request{
		Type:          SpeakingTopic,
		ResponseText:  "the cat sat and the cat ran",
		OraclePayload: json.RawMessage(speakingPayloadJSON),
	})
	require.NoError(t, err)

	assert.Equal(t, StageDone, ev.Stage)
	assert.Equal(t, 76.0, ev.Score)
	assert.Equal(t, 100.0, ev.MaxScore)
	assert.Equal(t, 76, ev.Percentage)
	assert.True(t, ev.Passed)
	assert.True(t, ev.IsCorrect)
	assert.Len(t, ev.Components, 5)
	assert.Equal(t, "Good range of vocabulary, watch your verb tenses.", ev.Feedback)

	// The grammar error resolves by context to the second "cat"; the
	// vocabulary error ("zebra") does not occur and is dropped.
	require.Len(t, ev.ResolvedErrors, 1)
	re := ev.ResolvedErrors[0]
	assert.Equal(t, locate.CategoryGrammar, re.Category)
	assert.Equal(t, "cat", re.Text)
	assert.Equal(t, 5, re.Span.Start)
	assert.Equal(t, 6, re.Span.End)
}

func TestEvaluate_WritingThreshold(t *testing.T) {
	// 60/100 exactly meets the writing threshold of 60.
	payload := `{"scores": {"grammar": 15, "vocabulary": 15, "coherence": 15, "taskAchievement": 15},
		"feedback": "", "errorAnalysis": {}}`
	ev, err := Evaluate(Request{
		Type:          WritingEssay,
		ResponseText:  "some essay text",
		OraclePayload: json.RawMessage(payload),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, ev.Percentage)
	assert.True(t, ev.Passed)

	// The same score fails the speaking threshold of 65.
	speakPayload := `{"scores": {"pronunciation": 12, "fluency": 12, "vocabulary": 12, "grammar": 12, "content": 12},
		"feedback": "", "errorAnalysis": {}}`
	ev, err = Evaluate(Request{
		Type:          SpeakingTopic,
		ResponseText:  "some spoken text",
		OraclePayload: json.RawMessage(speakPayload),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, ev.Percentage)
	assert.False(t, ev.Passed)
}

func TestEvaluate_ListeningSummary(t *testing.T) {
	payload := `{"scores": {"accuracy": 40, "completeness": 35}, "feedback": "ok",
		"errorAnalysis": {"contentErrors": [{"text": "tuesday"}]}}`
	ev, err := Evaluate(Request{
		Type:          ListeningSummary,
		ResponseText:  "the meeting was on tuesday morning",
		OraclePayload: json.RawMessage(payload),
	})
	require.NoError(t, err)
	assert.Equal(t, 75, ev.Percentage)
	require.Len(t, ev.ResolvedErrors, 1)
	assert.Equal(t, locate.CategoryContent, ev.ResolvedErrors[0].Category)
	assert.Equal(t, 4, ev.ResolvedErrors[0].Span.Start)
}

func TestEvaluate_MalformedPayload(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"unparseable", `{not json`},
		{"missing score", `{"scores": {"pronunciation": 10}, "errorAnalysis": {}}`},
		{"null score", `{"scores": {"pronunciation": null, "fluency": 1, "vocabulary": 1, "grammar": 1, "content": 1}}`},
		{"empty", ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := Evaluate(Request{
				Type:          SpeakingTopic,
				ResponseText:  "anything at all",
				OraclePayload: json.RawMessage(tc.payload),
			})
			require.NoError(t, err, "malformed payloads must not be hard failures")

			assert.Equal(t, StageFailed, ev.Stage)
			assert.Equal(t, 0.0, ev.Score)
			assert.Equal(t, 100.0, ev.MaxScore)
			assert.Equal(t, 0, ev.Percentage)
			assert.False(t, ev.Passed)
			assert.Empty(t, ev.ResolvedErrors)
			assert.Len(t, ev.Components, 5, "zero-valued components still present")
		})
	}
}

func TestEvaluate_OutOfRangeScoresClamped(t *testing.T) {
	payload := `{"scores": {"pronunciation": 35, "fluency": -4, "vocabulary": 20, "grammar": 20, "content": 20},
		"errorAnalysis": {}}`
	ev, err := Evaluate(Request{
		Type:          SpeakingTopic,
		ResponseText:  "x",
		OraclePayload: json.RawMessage(payload),
	})
	require.NoError(t, err)
	assert.Equal(t, StageDone, ev.Stage)
	assert.Equal(t, 80.0, ev.Score) // 20 + 0 + 20 + 20 + 20
}

func TestEvaluate_Dictation(t *testing.T) {
	ev, err := Evaluate(Request{
		Type:         ListeningDictation,
		ResponseText: "the quikc fox extra",
		Reference:    Reference{Transcript: "the quick fox"},
	})
	require.NoError(t, err)

	require.NotNil(t, ev.Dictation)
	assert.False(t, ev.IsCorrect)
	assert.Equal(t, 2.5, ev.Score) // 2 exact + 0.5 misspelled
	assert.Equal(t, 3.0, ev.MaxScore)
	assert.Equal(t, 83, ev.Percentage)
	assert.True(t, ev.Passed)
	assert.Equal(t, StageDone, ev.Stage)
}

func TestEvaluate_DictationPerfect(t *testing.T) {
	ev, err := Evaluate(Request{
		Type:         ListeningDictation,
		ResponseText: "Fox quick the.",
		Reference:    Reference{Transcript: "the quick fox"},
	})
	require.NoError(t, err)
	assert.True(t, ev.IsCorrect)
	assert.Equal(t, 100, ev.Percentage)
}

func TestEvaluate_SentenceOrder(t *testing.T) {
	ev, err := Evaluate(Request{
		Type:           SentenceOrder,
		SubmittedOrder: []string{"B", "A", "C", "D"},
		Reference:      Reference{Order: []string{"A", "B", "C", "D"}},
	})
	require.NoError(t, err)

	require.NotNil(t, ev.Order)
	assert.Equal(t, 1, ev.Order.CorrectPairs)
	assert.Equal(t, 3, ev.Order.MaxPairs)
	assert.Equal(t, 33, ev.Percentage)
	assert.False(t, ev.Passed)
	assert.False(t, ev.IsCorrect)
}

func TestEvaluate_MultiSelect(t *testing.T) {
	ev, err := Evaluate(Request{
		Type:            MultiSelect,
		SelectedOptions: []string{"X", "Z"},
		Reference:       Reference{Options: []string{"X", "Y"}},
	})
	require.NoError(t, err)

	require.NotNil(t, ev.Options)
	assert.Equal(t, 1, ev.Options.Hits)
	assert.Equal(t, 1, ev.Options.Wrong)
	assert.Equal(t, 1, ev.Options.Missed)
	assert.False(t, ev.IsCorrect)
}

func TestEvaluate_MultipleChoice(t *testing.T) {
	ev, err := Evaluate(Request{
		Type:            MultipleChoice,
		SelectedOptions: []string{"B"},
		Reference:       Reference{Options: []string{"B"}},
	})
	require.NoError(t, err)
	assert.True(t, ev.IsCorrect)
	assert.Equal(t, 100, ev.Percentage)
}

func TestEvaluate_UnsupportedType(t *testing.T) {
	_, err := Evaluate(Request{Type: "interpretive_dance"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestSupportedTypes_CoversTable(t *testing.T) {
	require.Len(t, SupportedTypes(), len(questionTable))
	for _, qt := range SupportedTypes() {
		_, ok := questionTable[qt]
		assert.True(t, ok, "type %q missing from dispatch table", qt)
	}
}
