package handler

import (
	"trainhub/internal/dto"
	"trainhub/internal/middleware"
	"trainhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AssignmentHandler struct {
	assignments service.AssignmentService
	validation  *middleware.ValidationMiddleware
}

func NewAssignmentHandler(assignments service.AssignmentService, validation *middleware.ValidationMiddleware) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, validation: validation}
}

// MyCourses returns the caller's assigned courses.
// @Summary My courses
// @Description Lists the courses assigned to the signed-in employee with each assignment's status.
// @Tags employee
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.MyCourseResponse
// @Failure 404 {object} middleware.ErrorResponse "No employee record for this identity"
// @Failure 502 {object} middleware.ErrorResponse
// @Router /me/courses [get]
func (h *AssignmentHandler) MyCourses(c *fiber.Ctx) error {
	courses, err := h.assignments.ListMyCourses(c.UserContext(), middleware.SubjectID(c))
	if err != nil {
		return err
	}
	return c.JSON(courses)
}

// MyResults returns the result log of one of the caller's assignments.
// @Summary My results
// @Tags employee
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {array} dto.ResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /me/assignments/{id}/results [get]
func (h *AssignmentHandler) MyResults(c *fiber.Ctx) error {
	results, err := h.assignments.ListResults(c.UserContext(), middleware.SubjectID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// Results returns the result log of any assignment.
// @Summary Assignment results
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {array} dto.ResultResponse
// @Router /admin/assignments/{id}/results [get]
func (h *AssignmentHandler) Results(c *fiber.Ctx) error {
	results, err := h.assignments.ListResults(c.UserContext(), "", c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// Assign creates one assignment per course for an employee.
// @Summary Assign courses
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.AssignCoursesRequest true "Assignments"
// @Success 201 {array} dto.AssignmentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse "Some assignments could not be written"
// @Router /admin/assignments [post]
func (h *AssignmentHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignCoursesRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	created, err := h.assignments.AssignCourses(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// List lists assignments, optionally for one employee.
// @Summary List assignments
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param employee_id query string false "Employee ID"
// @Success 200 {array} dto.AssignmentResponse
// @Router /admin/assignments [get]
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	list, err := h.assignments.ListAssignments(c.UserContext(), c.Query("employee_id"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// Delete removes an assignment.
// @Summary Delete assignment
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.DeleteResponse
// @Router /admin/assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.assignments.DeleteAssignment(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{ID: id})
}

// Overview joins employees, assignments and course titles.
// @Summary Admin overview
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.OverviewResponse
// @Router /admin/overview [get]
func (h *AssignmentHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.assignments.AdminOverview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(overview)
}
