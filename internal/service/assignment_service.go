package service

import (
	"context"
	"errors"
	"sync"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UnknownCourseTitle labels overview rows whose course was deleted.
const UnknownCourseTitle = "Unknown Course"

// AssignmentService tracks which courses each employee must complete.
type AssignmentService interface {
	// ListMyCourses returns the caller's assigned courses in assignment order.
	ListMyCourses(ctx context.Context, subjectID string) ([]dto.MyCourseResponse, error)
	AssignCourses(ctx context.Context, req dto.AssignCoursesRequest) ([]dto.AssignmentResponse, error)
	ListAssignments(ctx context.Context, employeeID string) ([]dto.AssignmentResponse, error)
	DeleteAssignment(ctx context.Context, id string) error
	AdminOverview(ctx context.Context) (*dto.OverviewResponse, error)
	// ListResults returns an assignment's results. A non-empty subjectID
	// restricts access to the employee who owns the assignment.
	ListResults(ctx context.Context, subjectID, assignmentID string) ([]dto.ResultResponse, error)
}

type assignmentServiceImpl struct {
	employees   domain.EmployeeRepository
	assignments domain.AssignmentRepository
	courses     domain.CourseRepository
	results     domain.ResultRepository
}

func NewAssignmentService(
	employees domain.EmployeeRepository,
	assignments domain.AssignmentRepository,
	courses domain.CourseRepository,
	results domain.ResultRepository,
) AssignmentService {
	return &assignmentServiceImpl{
		employees:   employees,
		assignments: assignments,
		courses:     courses,
		results:     results,
	}
}

// lookupEmployee resolves the caller's employee record. A missing record is
// EmployeeNotFound, never an empty result.
func lookupEmployee(ctx context.Context, employees domain.EmployeeRepository, subjectID string) (*domain.Employee, error) {
	employee, err := employees.GetEmployeeByUserID(ctx, subjectID)
	if err != nil {
		logger.Get().Error("Failed to resolve employee", zap.String("subjectID", subjectID), zap.Error(err))
		return nil, domain.NewFetchFailedError("employee", err)
	}
	if employee == nil {
		return nil, domain.NewEmployeeNotFoundError(subjectID)
	}
	return employee, nil
}

func (s *assignmentServiceImpl) ListMyCourses(ctx context.Context, subjectID string) ([]dto.MyCourseResponse, error) {
	employee, err := lookupEmployee(ctx, s.employees, subjectID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListAssignments(ctx, domain.AssignmentFilter{EmployeeID: employee.ID})
	if err != nil {
		logger.Get().Error("Failed to list assignments", zap.String("employeeID", employee.ID), zap.Error(err))
		return nil, domain.NewFetchFailedError("assignments", err)
	}

	out := make([]dto.MyCourseResponse, 0, len(assignments))
	for _, a := range assignments {
		course, err := s.courses.GetCourseByID(ctx, a.CourseID)
		if err != nil || course == nil {
			logger.Get().Info("Dropping assignment without a readable course",
				zap.String("code", string(domain.CodeOrphanReference)),
				zap.String("assignmentID", a.ID),
				zap.String("courseID", a.CourseID),
				zap.Error(err))
			continue
		}
		out = append(out, dto.MyCourseResponse{
			AssignmentID:     a.ID,
			AssignmentStatus: string(a.EffectiveStatus()),
			Course:           toCourseResponse(course),
		})
	}
	return out, nil
}

// AssignCourses creates one assignment per course concurrently. Every course
// is attempted; failures are reported together.
func (s *assignmentServiceImpl) AssignCourses(ctx context.Context, req dto.AssignCoursesRequest) ([]dto.AssignmentResponse, error) {
	employee, err := s.employees.GetEmployeeByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, domain.NewFetchFailedError("employee", err)
	}
	if employee == nil {
		return nil, domain.NewNotFoundError("Employee not found with ID: " + req.EmployeeID)
	}

	created := make([]*domain.Assignment, len(req.CourseIDs))
	var (
		mu     sync.Mutex
		failed []string
		errs   []error
	)

	var g errgroup.Group
	g.SetLimit(8)
	for i, courseID := range req.CourseIDs {
		i, courseID := i, courseID
		g.Go(func() error {
			a := domain.NewAssignment(employee.ID, courseID)
			if err := s.assignments.CreateAssignment(ctx, a); err != nil {
				mu.Lock()
				failed = append(failed, courseID)
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			created[i] = a
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		logger.Get().Error("Failed to create assignments",
			zap.String("employeeID", employee.ID),
			zap.Strings("courseIDs", failed),
			zap.Error(errors.Join(errs...)))
		return nil, domain.NewWriteFailedError("assignments", errors.Join(errs...)).
			WithContext("failed_course_ids", failed)
	}

	out := make([]dto.AssignmentResponse, len(created))
	for i, a := range created {
		out[i] = toAssignmentResponse(a)
	}
	logger.Get().Info("Courses assigned", zap.String("employeeID", employee.ID), zap.Int("count", len(out)))
	return out, nil
}

func (s *assignmentServiceImpl) ListAssignments(ctx context.Context, employeeID string) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListAssignments(ctx, domain.AssignmentFilter{EmployeeID: employeeID})
	if err != nil {
		logger.Get().Error("Failed to list assignments", zap.String("employeeID", employeeID), zap.Error(err))
		return nil, domain.NewFetchFailedError("assignments", err)
	}
	out := make([]dto.AssignmentResponse, len(assignments))
	for i, a := range assignments {
		out[i] = toAssignmentResponse(a)
	}
	return out, nil
}

func (s *assignmentServiceImpl) DeleteAssignment(ctx context.Context, id string) error {
	if err := s.assignments.DeleteAssignment(ctx, id); err != nil {
		if domain.HasCode(err, domain.CodeAssignmentNotFound) {
			return err
		}
		logger.Get().Error("Failed to delete assignment", zap.String("assignmentID", id), zap.Error(err))
		return domain.NewWriteFailedError("assignment", err)
	}
	return nil
}

func (s *assignmentServiceImpl) AdminOverview(ctx context.Context) (*dto.OverviewResponse, error) {
	var (
		employees   []*domain.Employee
		assignments []*domain.Assignment
		courses     []*domain.Course
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if employees, err = s.employees.ListEmployees(gctx); err != nil {
			return domain.NewFetchFailedError("employees", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if assignments, err = s.assignments.ListAssignments(gctx, domain.AssignmentFilter{}); err != nil {
			return domain.NewFetchFailedError("assignments", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if courses, err = s.courses.ListCourses(gctx); err != nil {
			return domain.NewFetchFailedError("courses", err)
		}
		return nil
	})
	// Any failed fetch aborts the combined view.
	if err := g.Wait(); err != nil {
		logger.Get().Error("Failed to build admin overview", zap.Error(err))
		return nil, err
	}

	titles := make(map[string]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}
	byEmployee := make(map[string][]dto.OverviewAssignment)
	for _, a := range assignments {
		title, ok := titles[a.CourseID]
		if !ok {
			title = UnknownCourseTitle
		}
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], dto.OverviewAssignment{
			AssignmentID: a.ID,
			CourseID:     a.CourseID,
			CourseTitle:  title,
			Status:       string(a.EffectiveStatus()),
		})
	}

	resp := &dto.OverviewResponse{Rows: make([]dto.OverviewRow, len(employees)), CourseCount: len(courses)}
	for i, e := range employees {
		rows := byEmployee[e.ID]
		if rows == nil {
			rows = []dto.OverviewAssignment{}
		}
		resp.Rows[i] = dto.OverviewRow{Employee: toEmployeeResponse(e), Assignments: rows}
	}
	return resp, nil
}

func (s *assignmentServiceImpl) ListResults(ctx context.Context, subjectID, assignmentID string) ([]dto.ResultResponse, error) {
	assignment, err := s.assignments.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, domain.NewFetchFailedError("assignment", err)
	}
	if assignment == nil {
		return nil, domain.NewAssignmentNotFoundError(assignmentID)
	}

	if subjectID != "" {
		employee, err := lookupEmployee(ctx, s.employees, subjectID)
		if err != nil {
			return nil, err
		}
		if assignment.EmployeeID != employee.ID {
			return nil, domain.NewAssignmentNotFoundError(assignmentID)
		}
	}

	results, err := s.results.ListResultsByAssignment(ctx, assignmentID)
	if err != nil {
		logger.Get().Error("Failed to list results", zap.String("assignmentID", assignmentID), zap.Error(err))
		return nil, domain.NewFetchFailedError("results", err)
	}
	out := make([]dto.ResultResponse, len(results))
	for i, r := range results {
		out[i] = toResultResponse(r)
	}
	return out, nil
}
