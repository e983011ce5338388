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

const questionColumns = "id, course_id, question, options, correct_answer, created_at, updated_at"

type QuestionDatabaseAdapter struct {
	db DBTX
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db DBTX) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

func (r *QuestionDatabaseAdapter) CreateQuestion(ctx context.Context, question *domain.Question) error {
	m := toModelQuestion(question)
	if m.ID == "" {
		m.ID = util.NewULID()
	}
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now

	db := GetExecutor(ctx, r.db)
	query := `INSERT INTO quiz_questions (id, course_id, question, options, correct_answer, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, db.Rebind(query), m.ID, m.CourseID, m.Question, m.Options, m.CorrectAnswer, m.CreatedAt, m.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	question.ID = m.ID
	question.CreatedAt = m.CreatedAt
	question.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *QuestionDatabaseAdapter) GetQuestionByID(ctx context.Context, id string) (*domain.Question, error) {
	var m models.QuizQuestion
	db := GetExecutor(ctx, r.db)
	query := `SELECT ` + questionColumns + ` FROM quiz_questions WHERE id = ?`
	if err := db.GetContext(ctx, &m, db.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by id: %w", err)
	}
	return toDomainQuestion(&m), nil
}

// ListQuestionsByCourse returns questions in authoring order.
func (r *QuestionDatabaseAdapter) ListQuestionsByCourse(ctx context.Context, courseID string) ([]*domain.Question, error) {
	var rows []models.QuizQuestion
	db := GetExecutor(ctx, r.db)
	query := `SELECT ` + questionColumns + ` FROM quiz_questions WHERE course_id = ? ORDER BY created_at, id`
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), courseID); err != nil {
		return nil, fmt.Errorf("failed to list questions for course: %w", err)
	}
	questions := make([]*domain.Question, len(rows))
	for i := range rows {
		questions[i] = toDomainQuestion(&rows[i])
	}
	return questions, nil
}

func (r *QuestionDatabaseAdapter) UpdateQuestion(ctx context.Context, question *domain.Question) error {
	m := toModelQuestion(question)
	m.UpdatedAt = time.Now()

	query := `UPDATE quiz_questions SET question = ?, options = ?, correct_answer = ?, updated_at = ? WHERE id = ?`
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), query, m.Question, m.Options, m.CorrectAnswer, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if n == 0 {
		return domain.NewQuestionNotFoundError(question.ID)
	}
	question.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *QuestionDatabaseAdapter) DeleteQuestion(ctx context.Context, id string) error {
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), `DELETE FROM quiz_questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if n == 0 {
		return domain.NewQuestionNotFoundError(id)
	}
	return nil
}

func (r *QuestionDatabaseAdapter) DeleteQuestionsByCourse(ctx context.Context, courseID string) (int64, error) {
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), `DELETE FROM quiz_questions WHERE course_id = ?`, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete questions for course: %w", err)
	}
	return n, nil
}

func toDomainQuestion(m *models.QuizQuestion) *domain.Question {
	return &domain.Question{
		ID:            m.ID,
		CourseID:      m.CourseID,
		Question:      m.Question,
		Options:       []string(m.Options),
		CorrectAnswer: m.CorrectAnswer,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toModelQuestion(q *domain.Question) *models.QuizQuestion {
	return &models.QuizQuestion{
		ID:            q.ID,
		CourseID:      q.CourseID,
		Question:      q.Question,
		Options:       models.StringSlice(q.Options),
		CorrectAnswer: q.CorrectAnswer,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}
