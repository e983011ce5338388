package handler

import (
	"trainhub/internal/dto"
	"trainhub/internal/middleware"
	"trainhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler serves the manager's employee administration routes.
type EmployeeHandler struct {
	provisioning service.ProvisioningService
	validation   *middleware.ValidationMiddleware
}

func NewEmployeeHandler(provisioning service.ProvisioningService, validation *middleware.ValidationMiddleware) *EmployeeHandler {
	return &EmployeeHandler{provisioning: provisioning, validation: validation}
}

// List lists every employee.
// @Summary List employees
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.EmployeeResponse
// @Router /admin/employees [get]
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.provisioning.ListEmployees(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(employees)
}

// SetActive toggles an employee's active flag.
// @Summary Set employee active
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body dto.SetActiveRequest true "Active flag"
// @Success 200 {object} dto.EmployeeResponse
// @Router /admin/employees/{id}/active [put]
func (h *EmployeeHandler) SetActive(c *fiber.Ctx) error {
	var req dto.SetActiveRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	employee, err := h.provisioning.SetActive(c.UserContext(), c.Params("id"), *req.Active)
	if err != nil {
		return err
	}
	return c.JSON(employee)
}

// Delete removes an employee and their assignments. The identity is kept.
// @Summary Delete employee
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "Employee ID"
// @Success 200 {object} dto.DeleteResponse "deleted counts the removed assignments"
// @Router /admin/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	removed, err := h.provisioning.DeleteEmployee(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{ID: id, Deleted: removed})
}
