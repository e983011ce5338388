package dto

import "time"

// MyCourseResponse is one row of the employee's dashboard.
type MyCourseResponse struct {
	AssignmentID     string         `json:"assignment_id"`
	AssignmentStatus string         `json:"assignment_status"`
	Course           CourseResponse `json:"course"`
}

// AssignCoursesRequest assigns several courses to one employee.
type AssignCoursesRequest struct {
	EmployeeID string   `json:"employee_id" validate:"required"`
	CourseIDs  []string `json:"course_ids" validate:"required,min=1,dive,required"`
}

// AssignmentResponse is the client view of an assignment.
type AssignmentResponse struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	CourseID   string    `json:"course_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// OverviewAssignment is an assignment joined with its course title.
type OverviewAssignment struct {
	AssignmentID string `json:"assignment_id"`
	CourseID     string `json:"course_id"`
	CourseTitle  string `json:"course_title"`
	Status       string `json:"status"`
}

// OverviewRow is one employee in the admin overview.
type OverviewRow struct {
	Employee    EmployeeResponse     `json:"employee"`
	Assignments []OverviewAssignment `json:"assignments"`
}

// OverviewResponse is returned by GET /api/admin/overview.
type OverviewResponse struct {
	Rows        []OverviewRow `json:"rows"`
	CourseCount int           `json:"course_count"`
}

// ResultResponse is one quiz submission.
type ResultResponse struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	Score        int       `json:"score"`
	Passed       bool      `json:"passed"`
	CreatedAt    time.Time `json:"created_at"`
}
