package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"trainhub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assignmentRowColumns = []string{"ID", "EMPLOYEE_ID", "COURSE_ID", "STATUS", "CREATED_AT", "UPDATED_AT"}

func TestAssignmentDatabaseAdapter_CreateAssignment(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAssignmentDatabaseAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignments")).
		WithArgs(sqlmock.AnyArg(), "emp_1", "c1", "assigned", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	a := domain.NewAssignment("emp_1", "c1")
	require.NoError(t, repo.CreateAssignment(context.Background(), a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, domain.AssignmentStatusAssigned, a.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentDatabaseAdapter_ListAssignments(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		filter domain.AssignmentFilter
		query  string
		args   []driver.Value
	}{
		{
			name:  "no filter",
			query: "FROM assignments ORDER BY created_at",
		},
		{
			name:   "by employee",
			filter: domain.AssignmentFilter{EmployeeID: "emp_1"},
			query:  "FROM assignments WHERE employee_id = ? ORDER BY created_at",
			args:   []driver.Value{"emp_1"},
		},
		{
			name:   "by course",
			filter: domain.AssignmentFilter{CourseID: "c1"},
			query:  "FROM assignments WHERE course_id = ? ORDER BY created_at",
			args:   []driver.Value{"c1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupTestDB(t)
			repo := NewAssignmentDatabaseAdapter(db)

			rows := sqlmock.NewRows(assignmentRowColumns).
				AddRow("a1", "emp_1", "c1", "completed", now, now).
				AddRow("a2", "emp_1", "c1", "", now, now)
			exp := mock.ExpectQuery(regexp.QuoteMeta(tt.query))
			if len(tt.args) > 0 {
				exp = exp.WithArgs(tt.args...)
			}
			exp.WillReturnRows(rows)

			list, err := repo.ListAssignments(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, domain.AssignmentStatusCompleted, list[0].Status)
			assert.Equal(t, domain.AssignmentStatusAssigned, list[1].Status)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAssignmentDatabaseAdapter_UpdateStatusAndDelete(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewAssignmentDatabaseAdapter(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE assignments SET status = ?, updated_at = ? WHERE id = ?")).
		WithArgs("completed", sqlmock.AnyArg(), "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateAssignmentStatus(ctx, "a1", domain.AssignmentStatusCompleted))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE id = ?")).WithArgs("a9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, domain.HasCode(repo.DeleteAssignment(ctx, "a9"), domain.CodeAssignmentNotFound))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM assignments WHERE employee_id = ?")).WithArgs("emp_1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	n, err := repo.DeleteAssignmentsByEmployee(ctx, "emp_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}
