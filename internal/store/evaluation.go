package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// evaluationRepo implements EvaluationRepo over raw SQL.
type evaluationRepo struct {
	db *sql.DB
}

func (r *evaluationRepo) Append(ctx context.Context, rec *EvaluationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO evaluations
			(id, question_type, stage, score, max_score, percentage, passed, is_correct, details_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.QuestionType, rec.Stage, rec.Score, rec.MaxScore,
		rec.Percentage, boolToInt(rec.Passed), boolToInt(rec.IsCorrect),
		rec.DetailsJSON, rec.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepo) List(ctx context.Context, opts QueryOpts) ([]EvaluationRecord, error) {
	query := `SELECT id, question_type, stage, score, max_score, percentage, passed, is_correct, details_json, created_at
		FROM evaluations`
	var args []any
	if opts.QuestionType != "" {
		query += ` WHERE question_type = ?`
		args = append(args, opts.QuestionType)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var records []EvaluationRecord
	for rows.Next() {
		var rec EvaluationRecord
		var passed, isCorrect int
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.QuestionType, &rec.Stage, &rec.Score, &rec.MaxScore,
			&rec.Percentage, &passed, &isCorrect, &rec.DetailsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		rec.Passed = passed != 0
		rec.IsCorrect = isCorrect != 0
		rec.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *evaluationRepo) Stats(ctx context.Context) ([]TypeStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT question_type, COUNT(*), AVG(percentage), AVG(passed)
		FROM evaluations
		GROUP BY question_type
		ORDER BY question_type`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []TypeStats
	for rows.Next() {
		var s TypeStats
		if err := rows.Scan(&s.QuestionType, &s.Count, &s.AvgPercentage, &s.PassRate); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
