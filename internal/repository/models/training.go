package models

import (
	"database/sql"
	"time"
)

// Course represents a training course.
type Course struct {
	ID           string         `db:"ID"`
	Title        string         `db:"TITLE"`
	VideoKey     sql.NullString `db:"VIDEO_KEY"`     // object-store key
	PassingScore sql.NullInt64  `db:"PASSING_SCORE"` // NULL means the default applies
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
}

// QuizQuestion represents one multiple-choice question of a course.
type QuizQuestion struct {
	ID            string      `db:"ID"`
	CourseID      string      `db:"COURSE_ID"`
	Question      string      `db:"QUESTION"`
	Options       StringSlice `db:"OPTIONS"` // JSON array
	CorrectAnswer int         `db:"CORRECT_ANSWER"`
	CreatedAt     time.Time   `db:"CREATED_AT"`
	UpdatedAt     time.Time   `db:"UPDATED_AT"`
}

// Employee links an identity subject to an employee record.
type Employee struct {
	ID         string         `db:"ID"`
	UserID     string         `db:"USER_ID"`
	Email      string         `db:"EMAIL"`
	Name       string         `db:"NAME"`
	Department sql.NullString `db:"DEPARTMENT"`
	IsActive   bool           `db:"IS_ACTIVE"`
	CreatedAt  time.Time      `db:"CREATED_AT"`
	UpdatedAt  time.Time      `db:"UPDATED_AT"`
}

// Assignment represents a course assigned to an employee.
type Assignment struct {
	ID         string    `db:"ID"`
	EmployeeID string    `db:"EMPLOYEE_ID"`
	CourseID   string    `db:"COURSE_ID"`
	Status     string    `db:"STATUS"`
	CreatedAt  time.Time `db:"CREATED_AT"`
	UpdatedAt  time.Time `db:"UPDATED_AT"`
}

// Result is one quiz submission.
type Result struct {
	ID           string    `db:"ID"`
	AssignmentID string    `db:"ASSIGNMENT_ID"`
	Score        int       `db:"SCORE"`
	Passed       bool      `db:"PASSED"`
	CreatedAt    time.Time `db:"CREATED_AT"`
	UpdatedAt    time.Time `db:"UPDATED_AT"`
}
