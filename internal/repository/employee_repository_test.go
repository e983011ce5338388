package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"trainhub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeRowColumns = []string{"ID", "USER_ID", "EMAIL", "NAME", "DEPARTMENT", "IS_ACTIVE", "CREATED_AT", "UPDATED_AT"}

func TestEmployeeDatabaseAdapter_CreateEmployee(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewEmployeeDatabaseAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees")).
		WithArgs(sqlmock.AnyArg(), "sub-1", "a@example.com", "Ann", "Ops", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := domain.NewEmployee("sub-1", "a@example.com", "Ann", "Ops")
	require.NoError(t, repo.CreateEmployee(context.Background(), e))
	assert.True(t, strings.HasPrefix(e.ID, "emp_"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeDatabaseAdapter_CreateEmployee_DuplicateUserID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewEmployeeDatabaseAdapter(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees")).
		WithArgs(sqlmock.AnyArg(), "sub-1", "a@example.com", "Ann", "Ops", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("ORA-00001: unique constraint (TRAINHUB.UX_EMPLOYEES_USER_ID) violated"))

	err := repo.CreateEmployee(context.Background(), domain.NewEmployee("sub-1", "a@example.com", "Ann", "Ops"))
	assert.ErrorIs(t, err, domain.ErrEmployeeExists)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees")).WillReturnError(errors.New("ORA-03113: end-of-file on communication channel"))
	err = repo.CreateEmployee(context.Background(), domain.NewEmployee("sub-2", "b@example.com", "Bob", ""))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmployeeExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeDatabaseAdapter_GetEmployeeByUserID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewEmployeeDatabaseAdapter(db)
	now := time.Now()
	query := regexp.QuoteMeta("FROM employees WHERE user_id = ?") + "$"

	mock.ExpectQuery(query).WithArgs("sub-1").
		WillReturnRows(sqlmock.NewRows(employeeRowColumns).AddRow("emp_1", "sub-1", "a@example.com", "Ann", nil, true, now, now))
	e, err := repo.GetEmployeeByUserID(context.Background(), "sub-1")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "emp_1", e.ID)
	assert.Empty(t, e.Department)

	mock.ExpectQuery(query).WithArgs("sub-2").WillReturnRows(sqlmock.NewRows(employeeRowColumns))
	e, err = repo.GetEmployeeByUserID(context.Background(), "sub-2")
	assert.NoError(t, err)
	assert.Nil(t, e)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeDatabaseAdapter_ListUpdateDelete(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewEmployeeDatabaseAdapter(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees ORDER BY name")).
		WillReturnRows(sqlmock.NewRows(employeeRowColumns).
			AddRow("emp_1", "s1", "a@example.com", "Ann", "Ops", true, now, now).
			AddRow("emp_2", "s2", "b@example.com", "Bob", nil, false, now, now))
	list, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[1].IsActive)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE employees SET")).
		WithArgs("a@example.com", "Ann", "Ops", false, sqlmock.AnyArg(), "emp_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	list[0].IsActive = false
	require.NoError(t, repo.UpdateEmployee(ctx, list[0]))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = ?")).WithArgs("emp_9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, domain.HasCode(repo.DeleteEmployee(ctx, "emp_9"), domain.CodeNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
