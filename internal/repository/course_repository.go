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

const courseColumns = "id, title, video_key, passing_score, created_at, updated_at"

type CourseDatabaseAdapter struct {
	db DBTX
}

// NewCourseDatabaseAdapter creates a new instance of CourseDatabaseAdapter
func NewCourseDatabaseAdapter(db DBTX) domain.CourseRepository {
	return &CourseDatabaseAdapter{db: db}
}

func (r *CourseDatabaseAdapter) CreateCourse(ctx context.Context, course *domain.Course) error {
	m := toModelCourse(course)
	if m.ID == "" {
		m.ID = util.NewULID()
	}
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now

	db := GetExecutor(ctx, r.db)
	query := `INSERT INTO courses (id, title, video_key, passing_score, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, db.Rebind(query), m.ID, m.Title, m.VideoKey, m.PassingScore, m.CreatedAt, m.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	course.ID = m.ID
	course.CreatedAt = m.CreatedAt
	course.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CourseDatabaseAdapter) GetCourseByID(ctx context.Context, id string) (*domain.Course, error) {
	var m models.Course
	db := GetExecutor(ctx, r.db)
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ?`
	if err := db.GetContext(ctx, &m, db.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}
	return toDomainCourse(&m), nil
}

func (r *CourseDatabaseAdapter) ListCourses(ctx context.Context) ([]*domain.Course, error) {
	var rows []models.Course
	db := GetExecutor(ctx, r.db)
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC`
	if err := db.SelectContext(ctx, &rows, db.Rebind(query)); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	courses := make([]*domain.Course, len(rows))
	for i := range rows {
		courses[i] = toDomainCourse(&rows[i])
	}
	return courses, nil
}

func (r *CourseDatabaseAdapter) UpdateCourse(ctx context.Context, course *domain.Course) error {
	m := toModelCourse(course)
	m.UpdatedAt = time.Now()

	query := `UPDATE courses SET title = ?, video_key = ?, passing_score = ?, updated_at = ? WHERE id = ?`
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), query, m.Title, m.VideoKey, m.PassingScore, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if n == 0 {
		return domain.NewCourseNotFoundError(course.ID)
	}
	course.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *CourseDatabaseAdapter) DeleteCourse(ctx context.Context, id string) error {
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if n == 0 {
		return domain.NewCourseNotFoundError(id)
	}
	return nil
}

func toDomainCourse(m *models.Course) *domain.Course {
	return &domain.Course{
		ID:           m.ID,
		Title:        m.Title,
		VideoKey:     m.VideoKey.String,
		PassingScore: util.NullInt64ToIntPtr(m.PassingScore),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toModelCourse(c *domain.Course) *models.Course {
	return &models.Course{
		ID:           c.ID,
		Title:        c.Title,
		VideoKey:     util.StringToNullString(c.VideoKey),
		PassingScore: util.IntPtrToNullInt64(c.PassingScore),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
