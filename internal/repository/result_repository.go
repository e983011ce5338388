package repository

import (
	"context"
	"fmt"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/repository/models"
	"trainhub/internal/util"
)

type ResultDatabaseAdapter struct {
	db DBTX
}

// NewResultDatabaseAdapter creates a new instance of ResultDatabaseAdapter
func NewResultDatabaseAdapter(db DBTX) domain.ResultRepository {
	return &ResultDatabaseAdapter{db: db}
}

// CreateResult appends a result. Results are never updated; inserting an id
// twice returns domain.ErrResultExists.
func (r *ResultDatabaseAdapter) CreateResult(ctx context.Context, result *domain.Result) error {
	m := models.Result{
		ID:           result.ID,
		AssignmentID: result.AssignmentID,
		Score:        result.Score,
		Passed:       result.Passed,
	}
	if m.ID == "" {
		m.ID = util.NewULID()
	}
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now

	db := GetExecutor(ctx, r.db)
	query := `INSERT INTO results (id, assignment_id, score, passed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, db.Rebind(query), m.ID, m.AssignmentID, m.Score, m.Passed, m.CreatedAt, m.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create result %s: %w", m.ID, domain.ErrResultExists)
		}
		return fmt.Errorf("failed to create result: %w", err)
	}
	result.ID = m.ID
	result.CreatedAt = m.CreatedAt
	result.UpdatedAt = m.UpdatedAt
	return nil
}

// ListResultsByAssignment returns the newest result first.
func (r *ResultDatabaseAdapter) ListResultsByAssignment(ctx context.Context, assignmentID string) ([]*domain.Result, error) {
	var rows []models.Result
	db := GetExecutor(ctx, r.db)
	query := `SELECT id, assignment_id, score, passed, created_at, updated_at FROM results WHERE assignment_id = ? ORDER BY created_at DESC`
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), assignmentID); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	results := make([]*domain.Result, len(rows))
	for i, m := range rows {
		results[i] = &domain.Result{
			ID:           m.ID,
			AssignmentID: m.AssignmentID,
			Score:        m.Score,
			Passed:       m.Passed,
			CreatedAt:    m.CreatedAt,
			UpdatedAt:    m.UpdatedAt,
		}
	}
	return results, nil
}
