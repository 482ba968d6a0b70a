// Package oracle is the client for the external grading oracle: an LLM asked
// to score a free-form response against a rubric and report the errors it
// found. Everything the oracle returns is untrusted; payloads are validated
// against a per-family JSON schema here, and position claims are reconciled
// by the evaluation engine, never taken at face value.
package oracle

import (
	"context"
	"encoding/json"
)

// Provider is the transport abstraction for one oracle backend.
type Provider interface {
	// Generate sends a grading request and returns structured JSON. When
	// the request carries a Schema, the backend's native structured-output
	// mechanism is used and the response Content is the validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured for.
	ModelID() string
}

// Request describes what to send to the oracle.
type Request struct {
	// System sets the oracle's grading role and constraints.
	System string

	// Messages is the conversation. Grading is single-turn: one user
	// message carrying the task description and the learner's response.
	Messages []Message

	// Schema is the JSON Schema the payload must conform to. When nil the
	// response Content is raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0-1.0. Grading wants it low.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the oracle.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "speaking-rubric".
	Name string

	// Description is sent to the oracle to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the oracle's output.
type Response struct {
	// Content is the generated payload. Validated against the request
	// Schema when one was provided.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
