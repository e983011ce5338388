package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"trainhub/internal/config"
	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"
	"trainhub/internal/middleware"
	"trainhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{}); err != nil {
		panic(err)
	}
	code := m.Run()
	_ = logger.Sync()
	os.Exit(code)
}

// --- Manual Mocks ---

type MockAuthService struct {
	SignInFunc         func(ctx context.Context, username, password string) (*dto.TokenResponse, error)
	ValidateTokenFunc  func(ctx context.Context, token string) (*dto.AuthClaims, error)
	GetCurrentUserFunc func(ctx context.Context, token string) (*domain.CurrentUser, error)
	FetchSessionFunc   func(ctx context.Context, token string, forceRefresh bool) (*domain.Session, error)
	SignOutFunc        func(ctx context.Context, token string) error
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) SignIn(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, username, password)
	}
	panic("MockAuthService.SignInFunc not implemented")
}
func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*dto.AuthClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	panic("MockAuthService.ValidateTokenFunc not implemented")
}
func (m *MockAuthService) GetCurrentUser(ctx context.Context, token string) (*domain.CurrentUser, error) {
	if m.GetCurrentUserFunc != nil {
		return m.GetCurrentUserFunc(ctx, token)
	}
	panic("MockAuthService.GetCurrentUserFunc not implemented")
}
func (m *MockAuthService) FetchSession(ctx context.Context, token string, forceRefresh bool) (*domain.Session, error) {
	if m.FetchSessionFunc != nil {
		return m.FetchSessionFunc(ctx, token, forceRefresh)
	}
	panic("MockAuthService.FetchSessionFunc not implemented")
}
func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, token)
	}
	panic("MockAuthService.SignOutFunc not implemented")
}

type MockCatalogService struct {
	CreateCourseFunc   func(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseDetailResponse, error)
	GetCourseFunc      func(ctx context.Context, id string) (*dto.CourseDetailResponse, error)
	ListCoursesFunc    func(ctx context.Context) ([]dto.CourseResponse, error)
	UpdateCourseFunc   func(ctx context.Context, id string, req dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourseFunc   func(ctx context.Context, id string) error
	ListQuestionsFunc  func(ctx context.Context, courseID string) ([]dto.QuestionResponse, error)
	AddQuestionFunc    func(ctx context.Context, courseID string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestionFunc func(ctx context.Context, courseID, questionID string, req dto.QuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestionFunc func(ctx context.Context, courseID, questionID string) error
	UploadVideoFunc    func(ctx context.Context, courseID, filename string, r io.Reader, size int64, onProgress service.UploadProgressFunc) (*dto.UploadVideoResponse, error)
}

var _ service.CatalogService = (*MockCatalogService)(nil)

func (m *MockCatalogService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*dto.CourseDetailResponse, error) {
	if m.CreateCourseFunc != nil {
		return m.CreateCourseFunc(ctx, req)
	}
	panic("MockCatalogService.CreateCourseFunc not implemented")
}
func (m *MockCatalogService) GetCourse(ctx context.Context, id string) (*dto.CourseDetailResponse, error) {
	if m.GetCourseFunc != nil {
		return m.GetCourseFunc(ctx, id)
	}
	panic("MockCatalogService.GetCourseFunc not implemented")
}
func (m *MockCatalogService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	if m.ListCoursesFunc != nil {
		return m.ListCoursesFunc(ctx)
	}
	panic("MockCatalogService.ListCoursesFunc not implemented")
}
func (m *MockCatalogService) UpdateCourse(ctx context.Context, id string, req dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	if m.UpdateCourseFunc != nil {
		return m.UpdateCourseFunc(ctx, id, req)
	}
	panic("MockCatalogService.UpdateCourseFunc not implemented")
}
func (m *MockCatalogService) DeleteCourse(ctx context.Context, id string) error {
	if m.DeleteCourseFunc != nil {
		return m.DeleteCourseFunc(ctx, id)
	}
	panic("MockCatalogService.DeleteCourseFunc not implemented")
}
func (m *MockCatalogService) ListQuestions(ctx context.Context, courseID string) ([]dto.QuestionResponse, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx, courseID)
	}
	panic("MockCatalogService.ListQuestionsFunc not implemented")
}
func (m *MockCatalogService) AddQuestion(ctx context.Context, courseID string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if m.AddQuestionFunc != nil {
		return m.AddQuestionFunc(ctx, courseID, req)
	}
	panic("MockCatalogService.AddQuestionFunc not implemented")
}
func (m *MockCatalogService) UpdateQuestion(ctx context.Context, courseID, questionID string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if m.UpdateQuestionFunc != nil {
		return m.UpdateQuestionFunc(ctx, courseID, questionID, req)
	}
	panic("MockCatalogService.UpdateQuestionFunc not implemented")
}
func (m *MockCatalogService) DeleteQuestion(ctx context.Context, courseID, questionID string) error {
	if m.DeleteQuestionFunc != nil {
		return m.DeleteQuestionFunc(ctx, courseID, questionID)
	}
	panic("MockCatalogService.DeleteQuestionFunc not implemented")
}
func (m *MockCatalogService) UploadVideo(ctx context.Context, courseID, filename string, r io.Reader, size int64, onProgress service.UploadProgressFunc) (*dto.UploadVideoResponse, error) {
	if m.UploadVideoFunc != nil {
		return m.UploadVideoFunc(ctx, courseID, filename, r, size, onProgress)
	}
	panic("MockCatalogService.UploadVideoFunc not implemented")
}

type MockAssignmentService struct {
	ListMyCoursesFunc    func(ctx context.Context, subjectID string) ([]dto.MyCourseResponse, error)
	AssignCoursesFunc    func(ctx context.Context, req dto.AssignCoursesRequest) ([]dto.AssignmentResponse, error)
	ListAssignmentsFunc  func(ctx context.Context, employeeID string) ([]dto.AssignmentResponse, error)
	DeleteAssignmentFunc func(ctx context.Context, id string) error
	AdminOverviewFunc    func(ctx context.Context) (*dto.OverviewResponse, error)
	ListResultsFunc      func(ctx context.Context, subjectID, assignmentID string) ([]dto.ResultResponse, error)
}

var _ service.AssignmentService = (*MockAssignmentService)(nil)

func (m *MockAssignmentService) ListMyCourses(ctx context.Context, subjectID string) ([]dto.MyCourseResponse, error) {
	if m.ListMyCoursesFunc != nil {
		return m.ListMyCoursesFunc(ctx, subjectID)
	}
	panic("MockAssignmentService.ListMyCoursesFunc not implemented")
}
func (m *MockAssignmentService) AssignCourses(ctx context.Context, req dto.AssignCoursesRequest) ([]dto.AssignmentResponse, error) {
	if m.AssignCoursesFunc != nil {
		return m.AssignCoursesFunc(ctx, req)
	}
	panic("MockAssignmentService.AssignCoursesFunc not implemented")
}
func (m *MockAssignmentService) ListAssignments(ctx context.Context, employeeID string) ([]dto.AssignmentResponse, error) {
	if m.ListAssignmentsFunc != nil {
		return m.ListAssignmentsFunc(ctx, employeeID)
	}
	panic("MockAssignmentService.ListAssignmentsFunc not implemented")
}
func (m *MockAssignmentService) DeleteAssignment(ctx context.Context, id string) error {
	if m.DeleteAssignmentFunc != nil {
		return m.DeleteAssignmentFunc(ctx, id)
	}
	panic("MockAssignmentService.DeleteAssignmentFunc not implemented")
}
func (m *MockAssignmentService) AdminOverview(ctx context.Context) (*dto.OverviewResponse, error) {
	if m.AdminOverviewFunc != nil {
		return m.AdminOverviewFunc(ctx)
	}
	panic("MockAssignmentService.AdminOverviewFunc not implemented")
}
func (m *MockAssignmentService) ListResults(ctx context.Context, subjectID, assignmentID string) ([]dto.ResultResponse, error) {
	if m.ListResultsFunc != nil {
		return m.ListResultsFunc(ctx, subjectID, assignmentID)
	}
	panic("MockAssignmentService.ListResultsFunc not implemented")
}

// MockQuizService records the subject and session of every call.
type MockQuizService struct {
	StartFunc func(ctx context.Context, subjectID, assignmentID string) (*dto.QuizSessionResponse, error)
	// StepFunc serves Get, Next, Previous and Retake; op names the method.
	StepFunc   func(op, subjectID, sessionID string) (*dto.QuizSessionResponse, error)
	AnswerFunc func(ctx context.Context, subjectID, sessionID string, option int) (*dto.QuizSessionResponse, error)
	CloseFunc  func(ctx context.Context, subjectID, sessionID string) error
}

var _ service.QuizService = (*MockQuizService)(nil)

func (m *MockQuizService) Start(ctx context.Context, subjectID, assignmentID string) (*dto.QuizSessionResponse, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, subjectID, assignmentID)
	}
	panic("MockQuizService.StartFunc not implemented")
}
func (m *MockQuizService) step(op, subjectID, sessionID string) (*dto.QuizSessionResponse, error) {
	if m.StepFunc != nil {
		return m.StepFunc(op, subjectID, sessionID)
	}
	panic("MockQuizService.StepFunc not implemented")
}
func (m *MockQuizService) Get(_ context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error) {
	return m.step("get", subjectID, sessionID)
}
func (m *MockQuizService) Next(_ context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error) {
	return m.step("next", subjectID, sessionID)
}
func (m *MockQuizService) Previous(_ context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error) {
	return m.step("previous", subjectID, sessionID)
}
func (m *MockQuizService) Retake(_ context.Context, subjectID, sessionID string) (*dto.QuizSessionResponse, error) {
	return m.step("retake", subjectID, sessionID)
}
func (m *MockQuizService) Answer(ctx context.Context, subjectID, sessionID string, option int) (*dto.QuizSessionResponse, error) {
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, subjectID, sessionID, option)
	}
	panic("MockQuizService.AnswerFunc not implemented")
}
func (m *MockQuizService) Close(ctx context.Context, subjectID, sessionID string) error {
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx, subjectID, sessionID)
	}
	panic("MockQuizService.CloseFunc not implemented")
}

type MockVideoService struct {
	GetPlaybackFunc    func(ctx context.Context, courseID string) (*dto.PlaybackResponse, error)
	ReportProgressFunc func(req dto.VideoProgressRequest) dto.VideoProgressResponse
}

var _ service.VideoService = (*MockVideoService)(nil)

func (m *MockVideoService) GetPlayback(ctx context.Context, courseID string) (*dto.PlaybackResponse, error) {
	if m.GetPlaybackFunc != nil {
		return m.GetPlaybackFunc(ctx, courseID)
	}
	panic("MockVideoService.GetPlaybackFunc not implemented")
}
func (m *MockVideoService) ReportProgress(req dto.VideoProgressRequest) dto.VideoProgressResponse {
	if m.ReportProgressFunc != nil {
		return m.ReportProgressFunc(req)
	}
	panic("MockVideoService.ReportProgressFunc not implemented")
}

type MockProvisioningService struct {
	CreateEmployeeFunc func(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.ProvisionedEmployee, error)
	ListEmployeesFunc  func(ctx context.Context) ([]dto.EmployeeResponse, error)
	SetActiveFunc      func(ctx context.Context, id string, active bool) (*dto.EmployeeResponse, error)
	DeleteEmployeeFunc func(ctx context.Context, id string) (int64, error)
}

var _ service.ProvisioningService = (*MockProvisioningService)(nil)

func (m *MockProvisioningService) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.ProvisionedEmployee, error) {
	if m.CreateEmployeeFunc != nil {
		return m.CreateEmployeeFunc(ctx, req)
	}
	panic("MockProvisioningService.CreateEmployeeFunc not implemented")
}
func (m *MockProvisioningService) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	if m.ListEmployeesFunc != nil {
		return m.ListEmployeesFunc(ctx)
	}
	panic("MockProvisioningService.ListEmployeesFunc not implemented")
}
func (m *MockProvisioningService) SetActive(ctx context.Context, id string, active bool) (*dto.EmployeeResponse, error) {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active)
	}
	panic("MockProvisioningService.SetActiveFunc not implemented")
}
func (m *MockProvisioningService) DeleteEmployee(ctx context.Context, id string) (int64, error) {
	if m.DeleteEmployeeFunc != nil {
		return m.DeleteEmployeeFunc(ctx, id)
	}
	panic("MockProvisioningService.DeleteEmployeeFunc not implemented")
}

type MockCompletionNotifier struct {
	QuizCompletedFunc func(ctx context.Context, req dto.QuizCompletionRequest) (*dto.QuizCompletionResponse, error)
}

func (m *MockCompletionNotifier) QuizCompleted(ctx context.Context, req dto.QuizCompletionRequest) (*dto.QuizCompletionResponse, error) {
	if m.QuizCompletedFunc != nil {
		return m.QuizCompletedFunc(ctx, req)
	}
	panic("MockCompletionNotifier.QuizCompletedFunc not implemented")
}

// --- Helpers ---

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

// asSubject sets the principal the Protected middleware would have stored.
func asSubject(subjectID string, next fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.SubjectIDKey, subjectID)
		c.Locals(middleware.TokenKey, "token-"+subjectID)
		return next(c)
	}
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
