package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/repository/models"
	"trainhub/internal/util"
)

const employeeColumns = "id, user_id, email, name, department, is_active, created_at, updated_at"

type EmployeeDatabaseAdapter struct {
	db DBTX
}

// NewEmployeeDatabaseAdapter creates a new instance of EmployeeDatabaseAdapter
func NewEmployeeDatabaseAdapter(db DBTX) domain.EmployeeRepository {
	return &EmployeeDatabaseAdapter{db: db}
}

// CreateEmployee keeps a caller-assigned ID (emp_<ULID>) and generates one otherwise.
func (r *EmployeeDatabaseAdapter) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	m := toModelEmployee(employee)
	if m.ID == "" {
		m.ID = util.NewPrefixedID("emp")
	}
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now

	db := GetExecutor(ctx, r.db)
	query := `INSERT INTO employees (id, user_id, email, name, department, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, db.Rebind(query), m.ID, m.UserID, m.Email, m.Name, m.Department, m.IsActive, m.CreatedAt, m.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create employee for %s: %w", m.UserID, domain.ErrEmployeeExists)
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	employee.ID = m.ID
	employee.CreatedAt = m.CreatedAt
	employee.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *EmployeeDatabaseAdapter) GetEmployeeByID(ctx context.Context, id string) (*domain.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
}

// GetEmployeeByUserID returns the record linked to the subject; user_id is unique.
func (r *EmployeeDatabaseAdapter) GetEmployeeByUserID(ctx context.Context, userID string) (*domain.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE user_id = ?`, userID)
}

func (r *EmployeeDatabaseAdapter) getOne(ctx context.Context, query string, arg string) (*domain.Employee, error) {
	var m models.Employee
	db := GetExecutor(ctx, r.db)
	if err := db.GetContext(ctx, &m, db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return toDomainEmployee(&m), nil
}

func (r *EmployeeDatabaseAdapter) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	var rows []models.Employee
	db := GetExecutor(ctx, r.db)
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY name`
	if err := db.SelectContext(ctx, &rows, db.Rebind(query)); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	employees := make([]*domain.Employee, len(rows))
	for i := range rows {
		employees[i] = toDomainEmployee(&rows[i])
	}
	return employees, nil
}

func (r *EmployeeDatabaseAdapter) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	m := toModelEmployee(employee)
	m.UpdatedAt = time.Now()

	query := `UPDATE employees SET email = ?, name = ?, department = ?, is_active = ?, updated_at = ? WHERE id = ?`
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), query, m.Email, m.Name, m.Department, m.IsActive, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("Employee not found with ID: %s", employee.ID))
	}
	employee.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *EmployeeDatabaseAdapter) DeleteEmployee(ctx context.Context, id string) error {
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("Employee not found with ID: %s", id))
	}
	return nil
}

func toDomainEmployee(m *models.Employee) *domain.Employee {
	return &domain.Employee{
		ID:         m.ID,
		UserID:     m.UserID,
		Email:      m.Email,
		Name:       m.Name,
		Department: m.Department.String,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toModelEmployee(e *domain.Employee) *models.Employee {
	return &models.Employee{
		ID:         e.ID,
		UserID:     e.UserID,
		Email:      e.Email,
		Name:       e.Name,
		Department: util.StringToNullString(e.Department),
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
