package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// eventRepo implements EventRepo over raw SQL.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendOracleRequest(ctx context.Context, data OracleRequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO oracle_requests
			(provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, boolToInt(data.Success), data.ErrorMessage,
		data.RequestBody, data.ResponseBody, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("insert oracle request event: %w", err)
	}
	return nil
}

func (r *eventRepo) GetOracleRequest(ctx context.Context, id int64) (*OracleRequestEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body, created_at
		FROM oracle_requests WHERE id = ?`, id)

	var e OracleRequestEvent
	var success int
	var createdAt int64
	err := row.Scan(&e.ID, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get oracle request event: %w", err)
	}
	e.Success = success != 0
	e.Timestamp = time.Unix(createdAt, 0)
	return &e, nil
}

func (r *eventRepo) QueryOracleRequests(ctx context.Context, opts QueryOpts) ([]OracleRequestEvent, error) {
	query := `SELECT id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, request_body, response_body, created_at
		FROM oracle_requests`
	var args []any
	if opts.Purpose != "" {
		query += ` WHERE purpose = ?`
		args = append(args, opts.Purpose)
	}
	query += ` ORDER BY id DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query oracle request events: %w", err)
	}
	defer rows.Close()

	var events []OracleRequestEvent
	for rows.Next() {
		var e OracleRequestEvent
		var success int
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
			&e.LatencyMs, &success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody, &createdAt); err != nil {
			return nil, fmt.Errorf("scan oracle request event: %w", err)
		}
		e.Success = success != 0
		e.Timestamp = time.Unix(createdAt, 0)
		events = append(events, e)
	}
	return events, rows.Err()
}
