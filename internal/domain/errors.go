package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Access errors
	CodeAuthFailure ErrorCode = "AUTH_FAILURE"
	CodeForbidden   ErrorCode = "FORBIDDEN"

	// Training workflow errors
	CodeEmployeeNotFound    ErrorCode = "EMPLOYEE_NOT_FOUND"
	CodeCourseNotFound      ErrorCode = "COURSE_NOT_FOUND"
	CodeQuestionNotFound    ErrorCode = "QUESTION_NOT_FOUND"
	CodeAssignmentNotFound  ErrorCode = "ASSIGNMENT_NOT_FOUND"
	CodeQuizSessionNotFound ErrorCode = "QUIZ_SESSION_NOT_FOUND"
	CodeNoQuestions         ErrorCode = "NO_QUESTIONS"
	CodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	CodeFetchFailed         ErrorCode = "FETCH_FAILED"
	CodeWriteFailed         ErrorCode = "WRITE_FAILED"
	CodeStorageError        ErrorCode = "STORAGE_ERROR"
	CodeNotificationFailed  ErrorCode = "NOTIFICATION_FAILED"
	CodePartialProvisioning ErrorCode = "PARTIAL_PROVISIONING_FAILURE"
	CodePartialCompletion   ErrorCode = "PARTIAL_COMPLETION_FAILURE"
	CodeOrphanReference     ErrorCode = "ORPHAN_REFERENCE"
	CodeDuplicateIdentity   ErrorCode = "DUPLICATE_IDENTITY"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a key/value pair that is surfaced as response details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err is (or wraps) a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewAuthFailureError(message string, err error) *DomainError {
	return NewError(CodeAuthFailure, message, err)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewEmployeeNotFoundError(subjectID string) *DomainError {
	return NewError(CodeEmployeeNotFound, "No employee record is linked to this identity", nil).
		WithContext("subject_id", subjectID)
}

func NewCourseNotFoundError(courseID string) *DomainError {
	return NewError(CodeCourseNotFound, fmt.Sprintf("Course not found with ID: %s", courseID), nil)
}

func NewQuestionNotFoundError(questionID string) *DomainError {
	return NewError(CodeQuestionNotFound, fmt.Sprintf("Question not found with ID: %s", questionID), nil)
}

func NewAssignmentNotFoundError(assignmentID string) *DomainError {
	return NewError(CodeAssignmentNotFound, fmt.Sprintf("Assignment not found with ID: %s", assignmentID), nil)
}

func NewQuizSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeQuizSessionNotFound, fmt.Sprintf("Quiz session not found or expired: %s", sessionID), nil)
}

func NewNoQuestionsError(courseID string) *DomainError {
	return NewError(CodeNoQuestions, "No quiz questions available for this course", nil).
		WithContext("course_id", courseID)
}

func NewInvalidTransitionError(from QuizState, action string) *DomainError {
	return NewError(CodeInvalidTransition, fmt.Sprintf("cannot %s while quiz is %s", action, from), nil)
}

func NewFetchFailedError(what string, err error) *DomainError {
	return NewError(CodeFetchFailed, fmt.Sprintf("Failed to fetch %s", what), err)
}

func NewWriteFailedError(what string, err error) *DomainError {
	return NewError(CodeWriteFailed, fmt.Sprintf("Failed to write %s", what), err)
}

func NewStorageError(message string, err error) *DomainError {
	return NewError(CodeStorageError, message, err)
}

func NewNotificationFailedError(err error) *DomainError {
	return NewError(CodeNotificationFailed, "Failed to publish quiz completion notification", err)
}

func NewPartialProvisioningError(subjectID string, err error) *DomainError {
	return NewError(CodePartialProvisioning, "Identity was created but the employee record could not be saved", err).
		WithContext("subject_id", subjectID)
}

func NewDuplicateIdentityError(username string) *DomainError {
	return NewError(CodeDuplicateIdentity, fmt.Sprintf("An account already exists for %s", username), nil)
}

// ValidationError describes a single field-level validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a list of field-level failures returned together.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func NewValidationError(message string) ValidationError {
	return ValidationError{Code: CodeValidation, Message: message}
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: "field is required"}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: "field has an invalid format", Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("value must be between %d and %d", min, max),
		Value:   value,
	}
}
