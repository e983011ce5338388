package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPassingScore applies when a course has no passing score configured.
const DefaultPassingScore = 70

// MinQuestionOptions is the smallest number of choices a question may offer.
const MinQuestionOptions = 2

// Course is a unit of training authored by a manager.
type Course struct {
	ID           string
	Title        string
	VideoKey     string // object-store key, empty when the course has no video
	PassingScore *int   // nil when unset
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCourse creates a new Course instance
func NewCourse(title, videoKey string, passingScore *int) *Course {
	now := time.Now()
	return &Course{
		Title:        strings.TrimSpace(title),
		VideoKey:     videoKey,
		PassingScore: passingScore,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// EffectivePassingScore returns the configured passing score or DefaultPassingScore.
func (c *Course) EffectivePassingScore() int {
	if c == nil || c.PassingScore == nil {
		return DefaultPassingScore
	}
	return *c.PassingScore
}

// HasVideo reports whether the course references a video object.
func (c *Course) HasVideo() bool {
	return c.VideoKey != ""
}

// Validate validates the course
func (c *Course) Validate() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, NewMissingFieldError("title"))
	}
	if c.PassingScore != nil && (*c.PassingScore < 0 || *c.PassingScore > 100) {
		errs = append(errs, NewOutOfRangeError("passing_score", *c.PassingScore, 0, 100))
	}
	return errs
}

// Question is a multiple-choice quiz question belonging to exactly one course.
type Question struct {
	ID            string
	CourseID      string
	Question      string
	Options       []string
	CorrectAnswer int // zero-based index into Options
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuestion creates a new Question instance
func NewQuestion(courseID, question string, options []string, correctAnswer int) *Question {
	now := time.Now()
	trimmed := make([]string, len(options))
	for i, opt := range options {
		trimmed[i] = strings.TrimSpace(opt)
	}
	return &Question{
		CourseID:      courseID,
		Question:      strings.TrimSpace(question),
		Options:       trimmed,
		CorrectAnswer: correctAnswer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsCorrect reports whether the given option index is the correct answer.
func (q *Question) IsCorrect(option int) bool {
	return option == q.CorrectAnswer
}

// Validate enforces 0 <= CorrectAnswer < len(Options) and at least two non-empty options.
func (q *Question) Validate() ValidationErrors {
	var errs ValidationErrors
	if q.CourseID == "" {
		errs = append(errs, NewMissingFieldError("course_id"))
	}
	if strings.TrimSpace(q.Question) == "" {
		errs = append(errs, NewMissingFieldError("question"))
	}
	if len(q.Options) < MinQuestionOptions {
		errs = append(errs, ValidationError{
			Field:   "options",
			Code:    CodeOutOfRange,
			Message: fmt.Sprintf("at least %d options are required", MinQuestionOptions),
			Value:   len(q.Options),
		})
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			errs = append(errs, NewMissingFieldError(fmt.Sprintf("options[%d]", i)))
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		errs = append(errs, NewOutOfRangeError("correct_answer", q.CorrectAnswer, 0, max(len(q.Options)-1, 0)))
	}
	return errs
}
