package dto

import "time"

// CreateEmployeeRequest is the provisioning function's body.
type CreateEmployeeRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Name              string `json:"name" validate:"required,max=255"`
	Department        string `json:"department,omitempty" validate:"max=255"`
	TemporaryPassword string `json:"temporaryPassword" validate:"required,min=8"`
	Role              string `json:"role" validate:"required,oneof=employee manager"`
}

// ProvisionedEmployee is the employee object in the provisioning function's response.
type ProvisionedEmployee struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role"`
	IsActive   bool   `json:"isActive"`
}

// CreateEmployeeResponse is the provisioning function's response body.
type CreateEmployeeResponse struct {
	Success  bool                 `json:"success"`
	Message  string               `json:"message,omitempty"`
	Employee *ProvisionedEmployee `json:"employee,omitempty"`
	Error    string               `json:"error,omitempty"`
	Code     string               `json:"code,omitempty"`
	UserID   string               `json:"userId,omitempty"`
}

// EmployeeResponse is the admin view of an employee.
type EmployeeResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Department string    `json:"department,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// SetActiveRequest toggles an employee's active flag.
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// QuizCompletionRequest is the notification function's body.
type QuizCompletionRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	CourseID   string `json:"courseId" validate:"required"`
	Score      int    `json:"score" validate:"gte=0,lte=100"`
	Passed     bool   `json:"passed"`
}

// QuizCompletionResponse is the notification function's response body.
type QuizCompletionResponse struct {
	Status    string `json:"status"`
	Published bool   `json:"published"`
}
