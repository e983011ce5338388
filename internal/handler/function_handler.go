package handler

import (
	"errors"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"
	"trainhub/internal/middleware"
	"trainhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Headers sent by the provisioning function on every response, preflight included.
const (
	functionAllowOrigin  = "*"
	functionAllowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	functionAllowMethods = "OPTIONS,POST"
)

// FunctionHandler hosts the provisioning and quiz-completion functions.
// Provisioning renders its own {success, ...} envelope instead of the
// global error body.
type FunctionHandler struct {
	provisioning service.ProvisioningService
	notifier     service.CompletionNotifier
	validation   *middleware.ValidationMiddleware
}

func NewFunctionHandler(provisioning service.ProvisioningService, notifier service.CompletionNotifier, validation *middleware.ValidationMiddleware) *FunctionHandler {
	return &FunctionHandler{
		provisioning: provisioning,
		notifier:     notifier,
		validation:   validation,
	}
}

// FunctionCORS sets the functions' CORS headers. It is mounted on the
// functions group ahead of authentication so rejected calls carry them too.
func FunctionCORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, functionAllowOrigin)
		c.Set(fiber.HeaderAccessControlAllowHeaders, functionAllowHeaders)
		c.Set(fiber.HeaderAccessControlAllowMethods, functionAllowMethods)
		return c.Next()
	}
}

// Preflight answers the browser's CORS preflight with an empty 200.
func (h *FunctionHandler) Preflight(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

// CreateEmployee provisions an identity and its employee record.
// @Summary Create employee
// @Description Creates the identity, adds it to the role's group, sets the password permanent and writes the employee record.
// @Tags functions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEmployeeRequest true "Employee"
// @Success 200 {object} dto.CreateEmployeeResponse
// @Failure 400 {object} dto.CreateEmployeeResponse
// @Failure 500 {object} dto.CreateEmployeeResponse "PARTIAL_PROVISIONING_FAILURE carries userId"
// @Router /functions/create-employee [post]
func (h *FunctionHandler) CreateEmployee(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return functionFailure(c, err)
	}

	employee, err := h.provisioning.CreateEmployee(c.UserContext(), req)
	if err != nil {
		return functionFailure(c, err)
	}
	return c.JSON(dto.CreateEmployeeResponse{
		Success:  true,
		Message:  "Employee created successfully",
		Employee: employee,
	})
}

func functionFailure(c *fiber.Ctx, err error) error {
	resp := dto.CreateEmployeeResponse{Success: false, Error: err.Error()}
	status := fiber.StatusInternalServerError

	var validationErrs domain.ValidationErrors
	var domainErr *domain.DomainError
	switch {
	case errors.As(err, &validationErrs):
		status = fiber.StatusBadRequest
		resp.Code = string(domain.CodeValidation)
	case errors.As(err, &domainErr):
		status = middleware.StatusFor(domainErr.Code)
		resp.Code = string(domainErr.Code)
		resp.Error = domainErr.Message
		if subjectID, ok := domainErr.Context["subject_id"].(string); ok {
			resp.UserID = subjectID
		}
	default:
		resp.Error = "Internal server error"
	}

	if status >= fiber.StatusInternalServerError {
		logger.Get().Error("Provisioning function failed", zap.String("code", resp.Code), zap.Error(err))
	}
	return c.Status(status).JSON(resp)
}

// QuizCompletion publishes a completion notification for a passed quiz.
// @Summary Quiz completion
// @Tags functions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.QuizCompletionRequest true "Completion"
// @Success 200 {object} dto.QuizCompletionResponse
// @Failure 502 {object} middleware.ErrorResponse "Publish failed"
// @Router /functions/quiz-completion [post]
func (h *FunctionHandler) QuizCompletion(c *fiber.Ctx) error {
	var req dto.QuizCompletionRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	resp, err := h.notifier.QuizCompleted(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
