package domain

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by ObjectStore implementations for missing keys.
var ErrObjectNotFound = errors.New("object not found")

// ErrEmployeeExists is returned when an identity is already linked to an employee record.
var ErrEmployeeExists = errors.New("identity already has an employee record")

// ErrResultExists is returned when a result with the same id was already stored.
var ErrResultExists = errors.New("result already recorded")

// ErrInvalidObjectToken is returned when a signed object URL is invalid or expired.
var ErrInvalidObjectToken = errors.New("invalid or expired object token")

// CourseRepository defines the interface for course persistence
type CourseRepository interface {
	CreateCourse(ctx context.Context, course *Course) error
	// GetCourseByID returns (nil, nil) when the course does not exist.
	GetCourseByID(ctx context.Context, id string) (*Course, error)
	ListCourses(ctx context.Context) ([]*Course, error)
	UpdateCourse(ctx context.Context, course *Course) error
	DeleteCourse(ctx context.Context, id string) error
}

// QuestionRepository defines the interface for quiz question persistence
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, question *Question) error
	// GetQuestionByID returns (nil, nil) when the question does not exist.
	GetQuestionByID(ctx context.Context, id string) (*Question, error)
	ListQuestionsByCourse(ctx context.Context, courseID string) ([]*Question, error)
	UpdateQuestion(ctx context.Context, question *Question) error
	DeleteQuestion(ctx context.Context, id string) error
	DeleteQuestionsByCourse(ctx context.Context, courseID string) (int64, error)
}

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee *Employee) error
	// GetEmployeeByID returns (nil, nil) when the employee does not exist.
	GetEmployeeByID(ctx context.Context, id string) (*Employee, error)
	// GetEmployeeByUserID returns (nil, nil) when no record links the subject.
	GetEmployeeByUserID(ctx context.Context, userID string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, employee *Employee) error
	DeleteEmployee(ctx context.Context, id string) error
}

// AssignmentRepository defines the interface for assignment persistence
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment *Assignment) error
	// GetAssignmentByID returns (nil, nil) when the assignment does not exist.
	GetAssignmentByID(ctx context.Context, id string) (*Assignment, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]*Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, id string, status AssignmentStatus) error
	DeleteAssignment(ctx context.Context, id string) error
	DeleteAssignmentsByEmployee(ctx context.Context, employeeID string) (int64, error)
}

// ResultRepository defines the interface for the append-only result log
type ResultRepository interface {
	CreateResult(ctx context.Context, result *Result) error
	ListResultsByAssignment(ctx context.Context, assignmentID string) ([]*Result, error)
}

// IdentityRepository defines the interface for identity-provider persistence
type IdentityRepository interface {
	CreateIdentity(ctx context.Context, identity *Identity) error
	// GetIdentityBySubject returns (nil, nil) when the identity does not exist.
	GetIdentityBySubject(ctx context.Context, subjectID string) (*Identity, error)
	// GetIdentityByUsername returns (nil, nil) when the identity does not exist.
	GetIdentityByUsername(ctx context.Context, username string) (*Identity, error)
	UpdatePassword(ctx context.Context, subjectID, passwordHash string, status IdentityStatus) error
	DeleteIdentity(ctx context.Context, subjectID string) error
	AddGroup(ctx context.Context, subjectID, group string) error
	ListGroups(ctx context.Context, subjectID string) ([]string, error)
}

// TransactionManager runs fn inside a single data-store transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher publishes a message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, message string) error
}
