package store

import (
	"context"
	"time"
)

// QueryOpts configures event and record queries.
type QueryOpts struct {
	// Limit is the maximum number of results (0 = unlimited).
	Limit int
	// QuestionType filters evaluation records by type when non-empty.
	QuestionType string
	// Purpose filters oracle request events by purpose when non-empty.
	Purpose string
}

// EvaluationRecord is one persisted evaluation. DetailsJSON carries the full
// normalized evaluation as emitted by the engine; the scalar columns are
// denormalized for querying.
type EvaluationRecord struct {
	ID           string
	QuestionType string
	Stage        string
	Score        float64
	MaxScore     float64
	Percentage   int
	Passed       bool
	IsCorrect    bool
	DetailsJSON  string
	CreatedAt    time.Time
}

// TypeStats summarizes performance for one question type.
type TypeStats struct {
	QuestionType  string
	Count         int
	AvgPercentage float64
	PassRate      float64
}

// EvaluationRepo manages persisted evaluation records.
type EvaluationRepo interface {
	// Append stores a finished evaluation record.
	Append(ctx context.Context, rec *EvaluationRecord) error

	// List returns recent records, newest first.
	List(ctx context.Context, opts QueryOpts) ([]EvaluationRecord, error)

	// Stats aggregates per-question-type performance.
	Stats(ctx context.Context) ([]TypeStats, error)
}

// OracleRequestEventData captures the data for a single oracle call event.
type OracleRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// OracleRequestEvent is a stored oracle call event.
type OracleRequestEvent struct {
	ID        int64
	Timestamp time.Time
	OracleRequestEventData
}

// EventRepo provides append and query access to oracle request events.
type EventRepo interface {
	// AppendOracleRequest records an oracle API call event.
	AppendOracleRequest(ctx context.Context, data OracleRequestEventData) error

	// GetOracleRequest returns one event by id, or nil when not found.
	GetOracleRequest(ctx context.Context, id int64) (*OracleRequestEvent, error)

	// QueryOracleRequests returns recent events, newest first.
	QueryOracleRequests(ctx context.Context, opts QueryOpts) ([]OracleRequestEvent, error)
}
