package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"
	"trainhub/internal/util"

	"go.uber.org/zap"
)

// VideoKeyPrefix is where uploaded course videos are stored.
const VideoKeyPrefix = "courses/videos/"

// UploadProgressFunc receives upload progress as a percentage.
type UploadProgressFunc func(percent int)

// CatalogService manages courses and their quiz questions.
type CatalogService interface {
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseDetailResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseDetailResponse, error)
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, id string, req dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id string) error

	ListQuestions(ctx context.Context, courseID string) ([]dto.QuestionResponse, error)
	AddQuestion(ctx context.Context, courseID string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, courseID, questionID string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, courseID, questionID string) error

	// UploadVideo stores a video and, when courseID is set, attaches it to the course.
	UploadVideo(ctx context.Context, courseID, filename string, r io.Reader, size int64, onProgress UploadProgressFunc) (*dto.UploadVideoResponse, error)
}

type catalogServiceImpl struct {
	courses   domain.CourseRepository
	questions domain.QuestionRepository
	tx        domain.TransactionManager
	objects   domain.ObjectStore
	now       func() time.Time
}

func NewCatalogService(courses domain.CourseRepository, questions domain.QuestionRepository, tx domain.TransactionManager, objects domain.ObjectStore) CatalogService {
	return &catalogServiceImpl{
		courses:   courses,
		questions: questions,
		tx:        tx,
		objects:   objects,
		now:       time.Now,
	}
}

func questionFromRequest(courseID string, req dto.QuestionRequest) *domain.Question {
	correct := -1
	if req.CorrectAnswer != nil {
		correct = *req.CorrectAnswer
	}
	return domain.NewQuestion(courseID, req.Question, req.Options, correct)
}

func (s *catalogServiceImpl) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseDetailResponse, error) {
	course := domain.NewCourse(req.Title, strings.TrimSpace(req.VideoKey), req.PassingScore)
	errs := course.Validate()

	questions := make([]*domain.Question, len(req.Questions))
	for i, qr := range req.Questions {
		// course_id is assigned after insert, so validate against a placeholder
		q := questionFromRequest("pending", qr)
		for _, e := range q.Validate() {
			e.Field = fmt.Sprintf("questions[%d].%s", i, e.Field)
			errs = append(errs, e)
		}
		questions[i] = q
	}
	if len(errs) > 0 {
		return nil, errs
	}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.courses.CreateCourse(txCtx, course); err != nil {
			return err
		}
		for _, q := range questions {
			q.CourseID = course.ID
			if err := s.questions.CreateQuestion(txCtx, q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Get().Error("Failed to create course", zap.String("title", course.Title), zap.Error(err))
		return nil, domain.NewWriteFailedError("course", err)
	}

	logger.Get().Info("Course created", zap.String("courseID", course.ID), zap.Int("questions", len(questions)))
	resp := &dto.CourseDetailResponse{Course: toCourseResponse(course), Questions: make([]dto.QuestionResponse, len(questions))}
	for i, q := range questions {
		resp.Questions[i] = toQuestionResponse(q)
	}
	return resp, nil
}

func (s *catalogServiceImpl) getCourse(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.courses.GetCourseByID(ctx, id)
	if err != nil {
		logger.Get().Error("Failed to fetch course", zap.String("courseID", id), zap.Error(err))
		return nil, domain.NewFetchFailedError("course", err)
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(id)
	}
	return course, nil
}

func (s *catalogServiceImpl) GetCourse(ctx context.Context, id string) (*dto.CourseDetailResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.ListQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CourseDetailResponse{Course: toCourseResponse(course), Questions: questions}, nil
}

func (s *catalogServiceImpl) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		logger.Get().Error("Failed to list courses", zap.Error(err))
		return nil, domain.NewFetchFailedError("courses", err)
	}
	out := make([]dto.CourseResponse, len(courses))
	for i, c := range courses {
		out[i] = toCourseResponse(c)
	}
	return out, nil
}

func (s *catalogServiceImpl) UpdateCourse(ctx context.Context, id string, req dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Title = strings.TrimSpace(req.Title)
	course.PassingScore = req.PassingScore
	course.VideoKey = strings.TrimSpace(req.VideoKey)
	if errs := course.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if err := s.courses.UpdateCourse(ctx, course); err != nil {
		if domain.HasCode(err, domain.CodeCourseNotFound) {
			return nil, err
		}
		logger.Get().Error("Failed to update course", zap.String("courseID", id), zap.Error(err))
		return nil, domain.NewWriteFailedError("course", err)
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

// DeleteCourse removes questions and the course in one transaction, then
// removes the video object. Assignments referencing the course are kept.
func (s *catalogServiceImpl) DeleteCourse(ctx context.Context, id string) error {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return err
	}

	var removedQuestions int64
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.questions.DeleteQuestionsByCourse(txCtx, id)
		if err != nil {
			return err
		}
		removedQuestions = n
		return s.courses.DeleteCourse(txCtx, id)
	})
	if err != nil {
		if domain.HasCode(err, domain.CodeCourseNotFound) {
			return err
		}
		logger.Get().Error("Failed to delete course", zap.String("courseID", id), zap.Error(err))
		return domain.NewWriteFailedError("course", err)
	}

	if course.HasVideo() {
		if err := s.objects.Remove(ctx, course.VideoKey); err != nil {
			logger.Get().Warn("Failed to remove course video; object left behind",
				zap.String("courseID", id), zap.String("videoKey", course.VideoKey), zap.Error(err))
		}
	}
	logger.Get().Info("Course deleted", zap.String("courseID", id), zap.Int64("questions", removedQuestions))
	return nil
}

func (s *catalogServiceImpl) ListQuestions(ctx context.Context, courseID string) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.ListQuestionsByCourse(ctx, courseID)
	if err != nil {
		logger.Get().Error("Failed to list questions", zap.String("courseID", courseID), zap.Error(err))
		return nil, domain.NewFetchFailedError("questions", err)
	}
	out := make([]dto.QuestionResponse, len(questions))
	for i, q := range questions {
		out[i] = toQuestionResponse(q)
	}
	return out, nil
}

func (s *catalogServiceImpl) AddQuestion(ctx context.Context, courseID string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}
	q := questionFromRequest(courseID, req)
	if errs := q.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if err := s.questions.CreateQuestion(ctx, q); err != nil {
		logger.Get().Error("Failed to add question", zap.String("courseID", courseID), zap.Error(err))
		return nil, domain.NewWriteFailedError("question", err)
	}
	resp := toQuestionResponse(q)
	return &resp, nil
}

func (s *catalogServiceImpl) getQuestionInCourse(ctx context.Context, courseID, questionID string) (*domain.Question, error) {
	q, err := s.questions.GetQuestionByID(ctx, questionID)
	if err != nil {
		return nil, domain.NewFetchFailedError("question", err)
	}
	if q == nil || q.CourseID != courseID {
		return nil, domain.NewQuestionNotFoundError(questionID)
	}
	return q, nil
}

func (s *catalogServiceImpl) UpdateQuestion(ctx context.Context, courseID, questionID string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	existing, err := s.getQuestionInCourse(ctx, courseID, questionID)
	if err != nil {
		return nil, err
	}
	q := questionFromRequest(courseID, req)
	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt
	if errs := q.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if err := s.questions.UpdateQuestion(ctx, q); err != nil {
		if domain.HasCode(err, domain.CodeQuestionNotFound) {
			return nil, err
		}
		return nil, domain.NewWriteFailedError("question", err)
	}
	resp := toQuestionResponse(q)
	return &resp, nil
}

func (s *catalogServiceImpl) DeleteQuestion(ctx context.Context, courseID, questionID string) error {
	if _, err := s.getQuestionInCourse(ctx, courseID, questionID); err != nil {
		return err
	}
	if err := s.questions.DeleteQuestion(ctx, questionID); err != nil {
		if domain.HasCode(err, domain.CodeQuestionNotFound) {
			return err
		}
		return domain.NewWriteFailedError("question", err)
	}
	return nil
}

// videoKey builds courses/videos/<unix-millis>_<filename>.
func (s *catalogServiceImpl) videoKey(filename string) string {
	return fmt.Sprintf("%s%d_%s", VideoKeyPrefix, s.now().UnixMilli(), filepath.Base(filename))
}

func (s *catalogServiceImpl) UploadVideo(ctx context.Context, courseID, filename string, r io.Reader, size int64, onProgress UploadProgressFunc) (*dto.UploadVideoResponse, error) {
	var course *domain.Course
	if courseID != "" {
		c, err := s.getCourse(ctx, courseID)
		if err != nil {
			return nil, err
		}
		course = c
	}

	key := s.videoKey(filename)
	var written int64
	lastPercent := -1
	progress := func(transferred, total int64) {
		written = transferred
		if onProgress == nil || total <= 0 {
			return
		}
		// the declared multipart size can understate the body
		if pct := util.ClampInt(int(transferred*100/total), 0, 100); pct != lastPercent {
			lastPercent = pct
			onProgress(pct)
		}
	}
	if err := s.objects.Upload(ctx, key, r, size, progress); err != nil {
		logger.Get().Error("Video upload failed", zap.String("key", key), zap.Error(err))
		return nil, domain.NewStorageError("Failed to upload video", err)
	}
	logger.Get().Info("Video uploaded", zap.String("key", key), zap.Int64("bytes", written))

	if course != nil {
		previous := course.VideoKey
		course.VideoKey = key
		if err := s.courses.UpdateCourse(ctx, course); err != nil {
			logger.Get().Error("Failed to attach video to course", zap.String("courseID", courseID), zap.String("key", key), zap.Error(err))
			return nil, domain.NewWriteFailedError("course video", err)
		}
		if previous != "" && previous != key {
			if err := s.objects.Remove(ctx, previous); err != nil {
				logger.Get().Warn("Failed to remove replaced video", zap.String("videoKey", previous), zap.Error(err))
			}
		}
	}
	return &dto.UploadVideoResponse{Key: key, Bytes: written}, nil
}
