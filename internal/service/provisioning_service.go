package service

import (
	"context"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"

	"go.uber.org/zap"
)

// ProvisioningService creates and retires employees across the identity
// provider and the structured store.
type ProvisioningService interface {
	CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.ProvisionedEmployee, error)
	ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error)
	SetActive(ctx context.Context, id string, active bool) (*dto.EmployeeResponse, error)
	// DeleteEmployee removes the employee and its assignments. The identity is kept.
	DeleteEmployee(ctx context.Context, id string) (int64, error)
}

type provisioningServiceImpl struct {
	identities  IdentityProvider
	employees   domain.EmployeeRepository
	assignments domain.AssignmentRepository
	tx          domain.TransactionManager
}

func NewProvisioningService(identities IdentityProvider, employees domain.EmployeeRepository, assignments domain.AssignmentRepository, tx domain.TransactionManager) ProvisioningService {
	return &provisioningServiceImpl{
		identities:  identities,
		employees:   employees,
		assignments: assignments,
		tx:          tx,
	}
}

// CreateEmployee runs two ordered steps. Step one creates the identity, adds
// the role group and makes the password permanent; if the group or password
// call fails the half-made identity is discarded so the email can be reused.
// Step two writes the employee record. A step-two failure keeps the identity
// and returns PartialProvisioningFailure carrying its subject id.
func (s *provisioningServiceImpl) CreateEmployee(ctx context.Context, req dto.CreateEmployeeRequest) (*dto.ProvisionedEmployee, error) {
	group, ok := domain.GroupForRole(req.Role)
	if !ok {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("role", req.Role)}
	}

	attrs := map[string]string{
		"email":          req.Email,
		"name":           req.Name,
		"email_verified": "true",
	}
	identity, err := s.identities.CreateIdentity(ctx, req.Email, req.TemporaryPassword, attrs)
	if err != nil {
		logger.Get().Error("Identity creation failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	if err := s.identities.AddToGroup(ctx, identity.SubjectID, group); err != nil {
		logger.Get().Error("Group assignment failed", zap.String("subjectID", identity.SubjectID), zap.String("group", group), zap.Error(err))
		s.discardIdentity(ctx, identity.SubjectID)
		return nil, err
	}
	if err := s.identities.SetPassword(ctx, identity.SubjectID, req.TemporaryPassword, true); err != nil {
		logger.Get().Error("Setting permanent password failed", zap.String("subjectID", identity.SubjectID), zap.Error(err))
		s.discardIdentity(ctx, identity.SubjectID)
		return nil, err
	}

	employee := domain.NewEmployee(identity.SubjectID, req.Email, req.Name, req.Department)
	if err := s.employees.CreateEmployee(ctx, employee); err != nil {
		logger.Get().Warn("Identity created without employee record",
			zap.String("event", string(domain.CodePartialProvisioning)),
			zap.String("subjectID", identity.SubjectID),
			zap.String("email", req.Email),
			zap.Error(err))
		return nil, domain.NewPartialProvisioningError(identity.SubjectID, err)
	}

	logger.Get().Info("Employee provisioned",
		zap.String("employeeID", employee.ID),
		zap.String("subjectID", identity.SubjectID),
		zap.String("role", req.Role))
	return &dto.ProvisionedEmployee{
		ID:         employee.ID,
		UserID:     employee.UserID,
		Email:      employee.Email,
		Name:       employee.Name,
		Department: employee.Department,
		Role:       req.Role,
		IsActive:   employee.IsActive,
	}, nil
}

func (s *provisioningServiceImpl) discardIdentity(ctx context.Context, subjectID string) {
	if err := s.identities.DeleteIdentity(context.WithoutCancel(ctx), subjectID); err != nil {
		logger.Get().Error("Failed to discard incomplete identity", zap.String("subjectID", subjectID), zap.Error(err))
		return
	}
	logger.Get().Info("Discarded incomplete identity", zap.String("subjectID", subjectID))
}

func (s *provisioningServiceImpl) ListEmployees(ctx context.Context) ([]dto.EmployeeResponse, error) {
	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		logger.Get().Error("Failed to list employees", zap.Error(err))
		return nil, domain.NewFetchFailedError("employees", err)
	}
	out := make([]dto.EmployeeResponse, len(employees))
	for i, e := range employees {
		out[i] = toEmployeeResponse(e)
	}
	return out, nil
}

func (s *provisioningServiceImpl) SetActive(ctx context.Context, id string, active bool) (*dto.EmployeeResponse, error) {
	employee, err := s.employees.GetEmployeeByID(ctx, id)
	if err != nil {
		return nil, domain.NewFetchFailedError("employee", err)
	}
	if employee == nil {
		return nil, domain.NewNotFoundError("Employee not found with ID: " + id)
	}
	employee.IsActive = active
	if err := s.employees.UpdateEmployee(ctx, employee); err != nil {
		logger.Get().Error("Failed to update employee", zap.String("employeeID", id), zap.Error(err))
		return nil, domain.NewWriteFailedError("employee", err)
	}
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

func (s *provisioningServiceImpl) DeleteEmployee(ctx context.Context, id string) (int64, error) {
	var removed int64
	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		n, err := s.assignments.DeleteAssignmentsByEmployee(txCtx, id)
		if err != nil {
			return err
		}
		removed = n
		return s.employees.DeleteEmployee(txCtx, id)
	})
	if err != nil {
		if domain.HasCode(err, domain.CodeNotFound) {
			return 0, err
		}
		logger.Get().Error("Failed to delete employee", zap.String("employeeID", id), zap.Error(err))
		return 0, domain.NewWriteFailedError("employee", err)
	}
	logger.Get().Info("Employee deleted", zap.String("employeeID", id), zap.Int64("assignments", removed))
	return removed, nil
}
