package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no assessment has the requested ID
var ErrNotFound = errors.New("assessment not found")

// Repository handles assessment persistence
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveAssessment inserts a new assessment
func (r *Repository) SaveAssessment(ctx context.Context, a *Assessment) error {
	stmt, err := r.db.GetPreparedStatement(stmtInsertAssessment)
	if err != nil {
		return err
	}

	_, err = stmt.ExecContext(ctx,
		a.ID, a.Prediction, a.AddictionPercentage, a.Confidence, a.Accuracy, a.Lenient,
		string(a.Results), a.ClientIPHash, a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// GetAssessment loads one assessment by ID
func (r *Repository) GetAssessment(ctx context.Context, id string) (*Assessment, error) {
	stmt, err := r.db.GetPreparedStatement(stmtGetAssessment)
	if err != nil {
		return nil, err
	}

	var (
		a       Assessment
		results string
		ipHash  sql.NullString
	)
	err = stmt.QueryRowContext(ctx, id).Scan(
		&a.ID, &a.Prediction, &a.AddictionPercentage, &a.Confidence, &a.Accuracy, &a.Lenient,
		&results, &ipHash, &a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment: %w", err)
	}

	a.Results = []byte(results)
	a.ClientIPHash = ipHash.String
	return &a, nil
}

// DeleteAssessment removes one assessment, returning ErrNotFound when absent
func (r *Repository) DeleteAssessment(ctx context.Context, id string) error {
	stmt, err := r.db.GetPreparedStatement(stmtDeleteAssessment)
	if err != nil {
		return err
	}

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes assessments created before cutoff
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assessments WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old assessments: %w", err)
	}
	return res.RowsAffected()
}

// Stats aggregates every stored assessment
func (r *Repository) Stats(ctx context.Context) (*AssessmentStats, error) {
	return r.StatsSince(ctx, time.Time{})
}

// StatsSince aggregates assessments created at or after since; the zero time selects all
func (r *Repository) StatsSince(ctx context.Context, since time.Time) (*AssessmentStats, error) {
	since = since.UTC()
	rows, err := r.db.QueryContext(ctx, `
		SELECT prediction, COUNT(*), SUM(addiction_percentage)
		FROM assessments
		WHERE created_at >= ?
		GROUP BY prediction
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment stats: %w", err)
	}
	defer rows.Close()

	stats := &AssessmentStats{ByPrediction: make(map[string]int)}
	var percentageSum int64
	for rows.Next() {
		var (
			prediction string
			count      int
			sum        int64
		)
		if err := rows.Scan(&prediction, &count, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan assessment stats: %w", err)
		}
		stats.ByPrediction[prediction] = count
		stats.Total += count
		percentageSum += sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assessment stats: %w", err)
	}

	if stats.Total == 0 {
		return stats, nil
	}
	stats.AveragePercentage = float64(percentageSum) / float64(stats.Total)

	first, err := r.boundary(ctx, "ASC", since)
	if err != nil {
		return nil, err
	}
	last, err := r.boundary(ctx, "DESC", since)
	if err != nil {
		return nil, err
	}
	stats.First, stats.Last = &first, &last
	return stats, nil
}

func (r *Repository) boundary(ctx context.Context, order string, since time.Time) (time.Time, error) {
	var t time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM assessments WHERE created_at >= ? ORDER BY created_at `+order+` LIMIT 1`, since,
	).Scan(&t)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query assessment time range: %w", err)
	}
	return t, nil
}
