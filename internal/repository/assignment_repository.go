package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/repository/models"
	"trainhub/internal/util"
)

const assignmentColumns = "id, employee_id, course_id, status, created_at, updated_at"

type AssignmentDatabaseAdapter struct {
	db DBTX
}

// NewAssignmentDatabaseAdapter creates a new instance of AssignmentDatabaseAdapter
func NewAssignmentDatabaseAdapter(db DBTX) domain.AssignmentRepository {
	return &AssignmentDatabaseAdapter{db: db}
}

func (r *AssignmentDatabaseAdapter) CreateAssignment(ctx context.Context, assignment *domain.Assignment) error {
	m := toModelAssignment(assignment)
	if m.ID == "" {
		m.ID = util.NewULID()
	}
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now

	db := GetExecutor(ctx, r.db)
	query := `INSERT INTO assignments (id, employee_id, course_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, db.Rebind(query), m.ID, m.EmployeeID, m.CourseID, m.Status, m.CreatedAt, m.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	assignment.ID = m.ID
	assignment.Status = domain.AssignmentStatus(m.Status)
	assignment.CreatedAt = m.CreatedAt
	assignment.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AssignmentDatabaseAdapter) GetAssignmentByID(ctx context.Context, id string) (*domain.Assignment, error) {
	var m models.Assignment
	db := GetExecutor(ctx, r.db)
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = ?`
	if err := db.GetContext(ctx, &m, db.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment by id: %w", err)
	}
	return toDomainAssignment(&m), nil
}

// ListAssignments applies the non-empty fields of filter as equality conditions.
func (r *AssignmentDatabaseAdapter) ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.Assignment, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.EmployeeID != "" {
		conds = append(conds, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.CourseID != "" {
		conds = append(conds, "course_id = ?")
		args = append(args, filter.CourseID)
	}

	query := `SELECT ` + assignmentColumns + ` FROM assignments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	var rows []models.Assignment
	db := GetExecutor(ctx, r.db)
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	assignments := make([]*domain.Assignment, len(rows))
	for i := range rows {
		assignments[i] = toDomainAssignment(&rows[i])
	}
	return assignments, nil
}

func (r *AssignmentDatabaseAdapter) UpdateAssignmentStatus(ctx context.Context, id string, status domain.AssignmentStatus) error {
	query := `UPDATE assignments SET status = ?, updated_at = ? WHERE id = ?`
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), query, string(status), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}
	if n == 0 {
		return domain.NewAssignmentNotFoundError(id)
	}
	return nil
}

func (r *AssignmentDatabaseAdapter) DeleteAssignment(ctx context.Context, id string) error {
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if n == 0 {
		return domain.NewAssignmentNotFoundError(id)
	}
	return nil
}

func (r *AssignmentDatabaseAdapter) DeleteAssignmentsByEmployee(ctx context.Context, employeeID string) (int64, error) {
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), `DELETE FROM assignments WHERE employee_id = ?`, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete assignments for employee: %w", err)
	}
	return n, nil
}

func toDomainAssignment(m *models.Assignment) *domain.Assignment {
	a := &domain.Assignment{
		ID:         m.ID,
		EmployeeID: m.EmployeeID,
		CourseID:   m.CourseID,
		Status:     domain.AssignmentStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	a.Status = a.EffectiveStatus()
	return a
}

func toModelAssignment(a *domain.Assignment) *models.Assignment {
	return &models.Assignment{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		CourseID:   a.CourseID,
		Status:     string(a.EffectiveStatus()),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
