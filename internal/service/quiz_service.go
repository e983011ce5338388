package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trainhub/internal/cache"
	"trainhub/internal/config"
	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"
	"trainhub/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultQuizSessionTTL = 2 * time.Hour

// CompletionNotifier is invoked after a passed quiz has been recorded.
type CompletionNotifier interface {
	QuizCompleted(ctx context.Context, req dto.QuizCompletionRequest) (*dto.QuizCompletionResponse, error)
}

// QuizService hosts quiz sessions. Sessions live only in the cache; the
// structured store sees a Result once an attempt is finished.
type QuizService interface {
	Start(ctx context.Context, subjectID, assignmentID string) (*dto.QuizSessionResponse, error)
	Get(ctx context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error)
	Answer(ctx context.Context, subjectID, sessionID string, option int) (*dto.QuizSessionResponse, error)
	Next(ctx context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error)
	Previous(ctx context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error)
	Retake(ctx context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error)
	Close(ctx context.Context, subjectID, sessionID string) error
}

type quizServiceImpl struct {
	employees     domain.EmployeeRepository
	assignments   domain.AssignmentRepository
	courses       domain.CourseRepository
	questions     domain.QuestionRepository
	results       domain.ResultRepository
	cache         domain.Cache
	notifier      CompletionNotifier
	sessionTTL    time.Duration
	notifyTimeout time.Duration
	loads         singleflight.Group
}

// QuizDeps groups the collaborators of NewQuizService.
type QuizDeps struct {
	Employees   domain.EmployeeRepository
	Assignments domain.AssignmentRepository
	Courses     domain.CourseRepository
	Questions   domain.QuestionRepository
	Results     domain.ResultRepository
	Cache       domain.Cache
	Notifier    CompletionNotifier
}

func NewQuizService(deps QuizDeps, quizCfg config.QuizConfig, notifyCfg config.NotificationConfig) QuizService {
	ttl := quizCfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultQuizSessionTTL
	}
	timeout := notifyCfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &quizServiceImpl{
		employees:     deps.Employees,
		assignments:   deps.Assignments,
		courses:       deps.Courses,
		questions:     deps.Questions,
		results:       deps.Results,
		cache:         deps.Cache,
		notifier:      deps.Notifier,
		sessionTTL:    ttl,
		notifyTimeout: timeout,
	}
}

// loadQuestions collapses concurrent loads of the same course's questions.
// The shared load outlives the caller that started it, so one cancelled
// request does not fail the others waiting on it.
func (s *quizServiceImpl) loadQuestions(ctx context.Context, courseID string) ([]domain.Question, error) {
	loadCtx := context.WithoutCancel(ctx)
	v, err, shared := s.loads.Do(courseID, func() (interface{}, error) {
		list, err := s.questions.ListQuestionsByCourse(loadCtx, courseID)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Question, len(list))
		for i, q := range list {
			out[i] = *q
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Question load shared", zap.String("courseID", courseID))
	}
	src := v.([]domain.Question)
	questions := make([]domain.Question, len(src))
	copy(questions, src)
	return questions, nil
}

func (s *quizServiceImpl) save(ctx context.Context, session *domain.QuizSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to encode quiz session", err)
	}
	if err := s.cache.Set(ctx, cache.QuizSessionKey(session.ID), string(data), s.sessionTTL); err != nil {
		logger.Get().Error("Failed to store quiz session", zap.String("sessionID", session.ID), zap.Error(err))
		return domain.NewWriteFailedError("quiz session", err)
	}
	return nil
}

// load returns the session only to the subject that started it.
func (s *quizServiceImpl) load(ctx context.Context, subjectID, sessionID string) (*domain.QuizSession, error) {
	data, err := s.cache.Get(ctx, cache.QuizSessionKey(sessionID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewQuizSessionNotFoundError(sessionID)
		}
		logger.Get().Error("Failed to read quiz session", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, domain.NewFetchFailedError("quiz session", err)
	}
	var session domain.QuizSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		logger.Get().Error("Corrupt quiz session snapshot", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, domain.NewQuizSessionNotFoundError(sessionID)
	}
	if session.SubjectID != subjectID {
		return nil, domain.NewQuizSessionNotFoundError(sessionID)
	}
	return &session, nil
}

func (s *quizServiceImpl) Start(ctx context.Context, subjectID, assignmentID string) (*dto.QuizSessionResponse, error) {
	employee, err := lookupEmployee(ctx, s.employees, subjectID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignments.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, domain.NewFetchFailedError("assignment", err)
	}
	if assignment == nil || assignment.EmployeeID != employee.ID {
		return nil, domain.NewAssignmentNotFoundError(assignmentID)
	}

	session := domain.NewQuizSession(util.NewPrefixedID("qs"), subjectID, employee.ID, assignment.ID)
	if err := session.BeginLoading(); err != nil {
		return nil, err
	}

	course, err := s.courses.GetCourseByID(ctx, assignment.CourseID)
	if err != nil {
		_ = session.Fail(domain.CodeFetchFailed)
		logger.Get().Error("Failed to load course for quiz", zap.String("courseID", assignment.CourseID), zap.Error(err))
		return nil, domain.NewFetchFailedError("course", err)
	}
	if course == nil {
		logger.Get().Info("Quiz requested for deleted course",
			zap.String("code", string(domain.CodeOrphanReference)),
			zap.String("assignmentID", assignment.ID),
			zap.String("courseID", assignment.CourseID))
		return nil, domain.NewCourseNotFoundError(assignment.CourseID)
	}

	questions, err := s.loadQuestions(ctx, course.ID)
	if err != nil {
		_ = session.Fail(domain.CodeFetchFailed)
		logger.Get().Error("Failed to load quiz questions", zap.String("courseID", course.ID), zap.Error(err))
		return nil, domain.NewFetchFailedError("questions", err)
	}
	if err := session.Load(course, questions); err != nil {
		logger.Get().Info("Quiz start rejected", zap.String("courseID", course.ID), zap.Error(err))
		return nil, err
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	logger.Get().Info("Quiz started",
		zap.String("sessionID", session.ID),
		zap.String("assignmentID", assignment.ID),
		zap.Int("questions", len(questions)))
	return toQuizSessionResponse(session), nil
}

// Get also extends the session's idle timeout.
func (s *quizServiceImpl) Get(ctx context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error) {
	session, err := s.load(ctx, subjectID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Expire(ctx, cache.QuizSessionKey(sessionID), s.sessionTTL); err != nil {
		logger.Get().Warn("Failed to extend quiz session", zap.String("sessionID", sessionID), zap.Error(err))
	}
	return toQuizSessionResponse(session), nil
}

// mutate applies fn to a stored session and writes it back.
func (s *quizServiceImpl) mutate(ctx context.Context, subjectID, sessionID string, fn func(*domain.QuizSession) error) (*dto.QuizSessionResponse, error) {
	session, err := s.load(ctx, subjectID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return toQuizSessionResponse(session), nil
}

func (s *quizServiceImpl) Answer(ctx context.Context, subjectID, sessionID string, option int) (*dto.QuizSessionResponse, error) {
	return s.mutate(ctx, subjectID, sessionID, func(session *domain.QuizSession) error {
		return session.Select(option)
	})
}

func (s *quizServiceImpl) Previous(ctx context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error) {
	return s.mutate(ctx, subjectID, sessionID, func(session *domain.QuizSession) error {
		return session.Previous()
	})
}

func (s *quizServiceImpl) Retake(ctx context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error) {
	return s.mutate(ctx, subjectID, sessionID, func(session *domain.QuizSession) error {
		return session.Retake()
	})
}

// Next advances the session. On the last question it finishes the attempt,
// stores the finished snapshot and then records the Result. When the Result
// write fails the session stays in review with the result unrecorded, and
// pressing Next again retries the write under the same result id.
func (s *quizServiceImpl) Next(ctx context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error) {
	session, err := s.load(ctx, subjectID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.AwaitingResult() {
		finished, err := session.Next()
		if err != nil {
			return nil, err
		}
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
		if !finished {
			return toQuizSessionResponse(session), nil
		}
	}

	inserted, pending, err := s.persistOutcome(ctx, session)
	if err != nil {
		return nil, err
	}
	session.RecordResult(pending)
	if err := s.save(ctx, session); err != nil {
		// the result is already recorded under session.ResultID; a retry of
		// Next finds it and does not write it again
		logger.Get().Warn("Finished quiz session could not be stored", zap.String("sessionID", session.ID), zap.Error(err))
	}
	if inserted && session.Outcome.Passed && !pending {
		s.notify(ctx, dto.QuizCompletionRequest{
			EmployeeID: session.EmployeeID,
			CourseID:   session.CourseID,
			Score:      session.Outcome.Score,
			Passed:     session.Outcome.Passed,
		})
	}
	return toQuizSessionResponse(session), nil
}

// persistOutcome writes the Result and, on a pass, completes the assignment.
// The two writes are independent. It reports whether the Result was newly
// inserted and whether completion is pending.
func (s *quizServiceImpl) persistOutcome(ctx context.Context, session *domain.QuizSession) (inserted, pending bool, err error) {
	outcome := session.Outcome
	result := domain.NewResult(session.AssignmentID, outcome.Score, outcome.Passed)
	result.ID = session.ResultID

	switch err := s.results.CreateResult(ctx, result); {
	case err == nil:
		inserted = true
		logger.Get().Info("Quiz result recorded",
			zap.String("resultID", result.ID),
			zap.String("assignmentID", session.AssignmentID),
			zap.Int("score", outcome.Score),
			zap.Bool("passed", outcome.Passed),
			zap.Int("attempt", session.Attempt))
	case errors.Is(err, domain.ErrResultExists):
		logger.Get().Info("Quiz result already recorded",
			zap.String("resultID", result.ID),
			zap.String("sessionID", session.ID))
	default:
		logger.Get().Error("Failed to record quiz result",
			zap.String("sessionID", session.ID),
			zap.String("assignmentID", session.AssignmentID),
			zap.Int("score", outcome.Score),
			zap.Error(err))
		return false, false, domain.NewWriteFailedError("quiz result", err)
	}

	if !outcome.Passed {
		return inserted, false, nil
	}

	if err := s.assignments.UpdateAssignmentStatus(ctx, session.AssignmentID, domain.AssignmentStatusCompleted); err != nil {
		logger.Get().Warn("Result saved but assignment not completed",
			zap.String("event", string(domain.CodePartialCompletion)),
			zap.String("assignmentID", session.AssignmentID),
			zap.String("resultID", result.ID),
			zap.Error(err))
		return inserted, true, nil
	}
	return inserted, false, nil
}

// notify runs detached from the request so a finished response is never
// held up or failed by the notification topic.
func (s *quizServiceImpl) notify(ctx context.Context, req dto.QuizCompletionRequest) {
	if s.notifier == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		nctx, cancel := context.WithTimeout(detached, s.notifyTimeout)
		defer cancel()
		if _, err := s.notifier.QuizCompleted(nctx, req); err != nil {
			logger.Get().Error("Quiz completion notification failed",
				zap.String("employeeID", req.EmployeeID),
				zap.String("courseID", req.CourseID),
				zap.Error(err))
		}
	}()
}

func (s *quizServiceImpl) Close(ctx context.Context, subjectID, sessionID string) error {
	if _, err := s.load(ctx, subjectID, sessionID); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, cache.QuizSessionKey(sessionID)); err != nil {
		logger.Get().Error("Failed to discard quiz session", zap.String("sessionID", sessionID), zap.Error(err))
		return domain.NewWriteFailedError("quiz session", err)
	}
	return nil
}
