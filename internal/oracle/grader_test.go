package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestGrader_Speaking(t *testing.T) {
	payload := json.RawMessage(`{"scores":{"pronunciation":15,"fluency":15,"vocabulary":15,"grammar":15,"content":15},"feedback":"ok","errorAnalysis":{}}`)
	mock := NewMockProvider(MockResponse{Content: payload})
	g := NewGrader(mock, DefaultGraderConfig())

	got, err := g.Grade(context.Background(), &GradeRequest{
		Family:     "speaking",
		TaskPrompt: "Describe your last holiday.",
		Response:   "I goed to the beach with my family.",
		Language:   "English",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload passed through unchanged, got %s", got)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if req.Schema == nil || req.Schema.Name != "speaking-rubric" {
		t.Fatalf("expected speaking-rubric schema, got %+v", req.Schema)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected single user message, got %d", len(req.Messages))
	}
	if !strings.Contains(req.Messages[0].Content, "I goed to the beach") {
		t.Errorf("user message missing learner response: %q", req.Messages[0].Content)
	}
	if !strings.Contains(req.Messages[0].Content, "Language: English") {
		t.Errorf("user message missing language: %q", req.Messages[0].Content)
	}
	if strings.Contains(req.Messages[0].Content, "Source material") {
		t.Errorf("no reference given, user message must not have a source section")
	}
}

func TestGrader_ListeningIncludesReference(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	g := NewGrader(mock, DefaultGraderConfig())

	_, err := g.Grade(context.Background(), &GradeRequest{
		Family:    "listening",
		Reference: "The train leaves at nine.",
		Response:  "The train leaves at ten.",
		Language:  "English",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.Calls[0]
	if req.Schema.Name != "listening-rubric" {
		t.Fatalf("expected listening-rubric schema, got %q", req.Schema.Name)
	}
	if !strings.Contains(req.Messages[0].Content, "The train leaves at nine.") {
		t.Errorf("user message missing source material: %q", req.Messages[0].Content)
	}
}

func TestGrader_TruncatedResponse(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content:    json.RawMessage(`{"scores":{"accuracy":40,`),
		StopReason: "max_tokens",
	})
	g := NewGrader(mock, DefaultGraderConfig())

	_, err := g.Grade(context.Background(), &GradeRequest{Family: "listening"})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
}

func TestGrader_UnknownFamily(t *testing.T) {
	g := NewGrader(NewMockProvider(), DefaultGraderConfig())
	_, err := g.Grade(context.Background(), &GradeRequest{Family: "telepathy"})
	if err == nil {
		t.Fatal("expected error for unknown family")
	}
}

func TestValidateResponse_SpeakingSchema(t *testing.T) {
	good := json.RawMessage(`{
		"scores": {"pronunciation": 15, "fluency": 12, "vocabulary": 16, "grammar": 14, "content": 18},
		"feedback": "Nice work.",
		"errorAnalysis": {"grammarErrors": [{"text": "goed", "before": "I", "after": "to"}]}
	}`)
	if err := validateResponse(SpeakingRubricSchema, good); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	missingScore := json.RawMessage(`{
		"scores": {"pronunciation": 15},
		"feedback": "x",
		"errorAnalysis": {}
	}`)
	if err := validateResponse(SpeakingRubricSchema, missingScore); err == nil {
		t.Fatal("payload missing score fields must fail validation")
	}

	notJSON := json.RawMessage(`the dog ate my rubric`)
	if err := validateResponse(SpeakingRubricSchema, notJSON); err == nil {
		t.Fatal("non-JSON payload must fail validation")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("nil schema must accept any content: %v", err)
	}
}
