package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"
)

// GraderConfig holds configuration for grading calls.
type GraderConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGraderConfig returns sensible defaults. Grading wants near-zero
// temperature so repeated runs of the same response score alike.
func DefaultGraderConfig() GraderConfig {
	return GraderConfig{
		MaxTokens:   1024,
		Temperature: 0.1,
	}
}

// Grader asks the oracle to score a response against the rubric for its
// question-type family and returns the raw payload. The payload is schema
// validated by the provider; semantic reconciliation (span resolution,
// aggregation) belongs to the evaluation engine, not here.
type Grader struct {
	provider Provider
	cfg      GraderConfig
}

// NewGrader creates a Grader on top of a provider.
func NewGrader(provider Provider, cfg GraderConfig) *Grader {
	return &Grader{provider: provider, cfg: cfg}
}

// GradeRequest is the input for one grading call.
type GradeRequest struct {
	// Family selects the rubric: "speaking", "writing" or "listening".
	Family string
	// TaskPrompt is the question shown to the learner.
	TaskPrompt string
	// Reference is the canonical answer or source material, when the task
	// has one (e.g. the audio transcript for listening comprehension).
	Reference string
	// Response is the learner's typed text or spoken-audio transcript.
	Response string
	// Language is the language under test, e.g. "Spanish".
	Language string
}

// Grade sends the grading request and returns the raw rubric payload.
func (g *Grader) Grade(ctx context.Context, req *GradeRequest) (json.RawMessage, error) {
	schema, system, err := familyRubric(req.Family)
	if err != nil {
		return nil, err
	}

	ctx = WithPurpose(ctx, "grade-"+req.Family)

	userMsg, err := buildGradeMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build grading prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, Request{
		System: system,
		Messages: []Message{
			{Role: RoleUser, Content: userMsg},
		},
		Schema:      schema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("oracle grading failed: %w", err)
	}
	if resp.StopReason == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}

	return resp.Content, nil
}

func familyRubric(family string) (*Schema, string, error) {
	switch family {
	case "speaking":
		return SpeakingRubricSchema, speakingSystemPrompt, nil
	case "writing":
		return WritingRubricSchema, writingSystemPrompt, nil
	case "listening":
		return ListeningRubricSchema, listeningSystemPrompt, nil
	default:
		return nil, "", fmt.Errorf("unknown grading family: %q", family)
	}
}

const gradingGroundRules = `
Rules for error analysis:
- "text" must quote the learner's words exactly as they appear in the response.
- Fill "before" and "after" with the single neighboring words whenever you can; they are used to locate the error.
- Positions are approximate word indexes; give your best estimate or omit the position.
- Do not invent errors to justify a low score, and do not omit errors to justify a high one.`

const speakingSystemPrompt = `You are an experienced oral language examiner. You receive the transcript of a learner's spoken response and score it against a five-part rubric: pronunciation, fluency, vocabulary, grammar and content, each out of 20.

Score what the learner actually produced, not what they attempted. Judge pronunciation only from patterns visible in the transcript (confusable words, phonetic misspellings by the transcriber).` + gradingGroundRules

const writingSystemPrompt = `You are an experienced writing examiner. You receive a learner's written response and score it against a four-part rubric: grammar, vocabulary, coherence and task achievement, each out of 25.

Score the text as written. Spelling mistakes belong in spellingErrors, not grammarErrors.` + gradingGroundRules

const listeningSystemPrompt = `You are an experienced listening comprehension examiner. You receive the transcript the learner listened to and the summary they wrote, and score the summary against a two-part rubric: accuracy and completeness, each out of 50.

Accuracy penalizes statements that contradict the source; completeness penalizes key points left out. Report contradicted or invented details as content errors.` + gradingGroundRules

var gradeUserTemplate = template.Must(template.New("grade").Parse(`Language: {{.Language}}
Task: {{.TaskPrompt}}
{{if .Reference}}Source material:
{{.Reference}}

{{end}}Learner's response:
{{.Response}}`))

func buildGradeMessage(req *GradeRequest) (string, error) {
	var buf bytes.Buffer
	if err := gradeUserTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
