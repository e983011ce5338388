package handler

import (
	"trainhub/internal/dto"
	"trainhub/internal/middleware"
	"trainhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler exposes the quiz session state machine.
type QuizHandler struct {
	quiz       service.QuizService
	validation *middleware.ValidationMiddleware
}

func NewQuizHandler(quiz service.QuizService, validation *middleware.ValidationMiddleware) *QuizHandler {
	return &QuizHandler{quiz: quiz, validation: validation}
}

// Start opens a quiz session for one of the caller's assignments.
// @Summary Start quiz
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.StartQuizRequest true "Assignment"
// @Success 201 {object} dto.QuizSessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Course has no questions"
// @Router /quiz/sessions [post]
func (h *QuizHandler) Start(c *fiber.Ctx) error {
	var req dto.StartQuizRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	session, err := h.quiz.Start(c.UserContext(), middleware.SubjectID(c), req.AssignmentID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Get returns the session view.
// @Summary Get quiz session
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.QuizSessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/sessions/{id} [get]
func (h *QuizHandler) Get(c *fiber.Ctx) error {
	session, err := h.quiz.Get(c.UserContext(), middleware.SubjectID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Answer selects an option for the current question.
// @Summary Answer question
// @Tags quiz
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AnswerRequest true "Selected option"
// @Success 200 {object} dto.QuizSessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/sessions/{id}/answer [post]
func (h *QuizHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	session, err := h.quiz.Answer(c.UserContext(), middleware.SubjectID(c), c.Params("id"), *req.Option)
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Next advances, or finishes and scores the quiz on the last question.
// @Summary Next question
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.QuizSessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse "Result could not be saved"
// @Router /quiz/sessions/{id}/next [post]
func (h *QuizHandler) Next(c *fiber.Ctx) error {
	session, err := h.quiz.Next(c.UserContext(), middleware.SubjectID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Previous steps back one question.
// @Summary Previous question
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.QuizSessionResponse
// @Router /quiz/sessions/{id}/previous [post]
func (h *QuizHandler) Previous(c *fiber.Ctx) error {
	session, err := h.quiz.Previous(c.UserContext(), middleware.SubjectID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Retake restarts a failed attempt.
// @Summary Retake quiz
// @Tags quiz
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.QuizSessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/sessions/{id}/retake [post]
func (h *QuizHandler) Retake(c *fiber.Ctx) error {
	session, err := h.quiz.Retake(c.UserContext(), middleware.SubjectID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// Close discards the session.
// @Summary Close quiz session
// @Tags quiz
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 204 "No Content"
// @Router /quiz/sessions/{id} [delete]
func (h *QuizHandler) Close(c *fiber.Ctx) error {
	if err := h.quiz.Close(c.UserContext(), middleware.SubjectID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
