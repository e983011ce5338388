package domain

import (
	"strings"
	"time"
)

// Employee links an identity-provider subject to a person in the organisation.
type Employee struct {
	ID         string
	UserID     string // identity-provider subject id
	Email      string
	Name       string
	Department string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewEmployee creates a new, active Employee instance
func NewEmployee(userID, email, name, department string) *Employee {
	now := time.Now()
	return &Employee{
		UserID:     userID,
		Email:      strings.TrimSpace(email),
		Name:       strings.TrimSpace(name),
		Department: strings.TrimSpace(department),
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AssignmentStatus is the lifecycle state of an Assignment.
type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "assigned"
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

// Valid reports whether s is a known status.
func (s AssignmentStatus) Valid() bool {
	return s == AssignmentStatusAssigned || s == AssignmentStatusCompleted
}

// Assignment records that an employee must complete (or has completed) a course.
// Several assignments may exist for the same employee/course pair.
type Assignment struct {
	ID         string
	EmployeeID string
	CourseID   string
	Status     AssignmentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewAssignment creates a new Assignment in the assigned state
func NewAssignment(employeeID, courseID string) *Assignment {
	now := time.Now()
	return &Assignment{
		EmployeeID: employeeID,
		CourseID:   courseID,
		Status:     AssignmentStatusAssigned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// EffectiveStatus treats an empty status as assigned.
func (a *Assignment) EffectiveStatus() AssignmentStatus {
	if a.Status == "" {
		return AssignmentStatusAssigned
	}
	return a.Status
}

// AssignmentFilter is an equality filter on a single foreign key.
// An empty filter matches every assignment.
type AssignmentFilter struct {
	EmployeeID string
	CourseID   string
}

// Result is one quiz submission. Results are append-only.
type Result struct {
	ID           string
	AssignmentID string
	Score        int
	Passed       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewResult creates a new Result instance
func NewResult(assignmentID string, score int, passed bool) *Result {
	now := time.Now()
	return &Result{
		AssignmentID: assignmentID,
		Score:        score,
		Passed:       passed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CourseAssignment is one row of an employee's course list.
type CourseAssignment struct {
	Course           *Course
	AssignmentID     string
	AssignmentStatus AssignmentStatus
}
