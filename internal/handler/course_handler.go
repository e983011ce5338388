package handler

import (
	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"
	"trainhub/internal/middleware"
	"trainhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CourseHandler serves the manager's catalog routes.
type CourseHandler struct {
	catalog        service.CatalogService
	validation     *middleware.ValidationMiddleware
	maxUploadBytes int64
}

func NewCourseHandler(catalog service.CatalogService, validation *middleware.ValidationMiddleware, maxUploadBytes int64) *CourseHandler {
	return &CourseHandler{catalog: catalog, validation: validation, maxUploadBytes: maxUploadBytes}
}

// CreateCourse creates a course with its questions.
// @Summary Create course
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.CourseDetailResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	resp, err := h.catalog.CreateCourse(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListCourses lists every course.
// @Summary List courses
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.CourseResponse
// @Router /admin/courses [get]
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.catalog.ListCourses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(courses)
}

// GetCourse returns a course and its questions.
// @Summary Get course
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.CourseDetailResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/courses/{id} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	resp, err := h.catalog.GetCourse(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateCourse replaces a course's title, passing score and video key.
// @Summary Update course
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Course"
// @Success 200 {object} dto.CourseResponse
// @Router /admin/courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	var req dto.UpdateCourseRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	resp, err := h.catalog.UpdateCourse(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteCourse deletes a course, its questions and its video.
// @Summary Delete course
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.DeleteResponse
// @Router /admin/courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.catalog.DeleteCourse(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{ID: id})
}

// ListQuestions returns a course's questions including answer keys.
// @Summary List questions
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {array} dto.QuestionResponse
// @Router /admin/courses/{id}/questions [get]
func (h *CourseHandler) ListQuestions(c *fiber.Ctx) error {
	questions, err := h.catalog.ListQuestions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// AddQuestion appends a question to a course.
// @Summary Add question
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Router /admin/courses/{id}/questions [post]
func (h *CourseHandler) AddQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	resp, err := h.catalog.AddQuestion(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateQuestion replaces a question.
// @Summary Update question
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param questionId path string true "Question ID"
// @Param request body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.QuestionResponse
// @Router /admin/courses/{id}/questions/{questionId} [put]
func (h *CourseHandler) UpdateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	resp, err := h.catalog.UpdateQuestion(c.UserContext(), c.Params("id"), c.Params("questionId"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuestion removes a question.
// @Summary Delete question
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param questionId path string true "Question ID"
// @Success 200 {object} dto.DeleteResponse
// @Router /admin/courses/{id}/questions/{questionId} [delete]
func (h *CourseHandler) DeleteQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")
	if err := h.catalog.DeleteQuestion(c.UserContext(), c.Params("id"), questionID); err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{ID: questionID})
}

// UploadVideo stores a multipart video upload and optionally attaches it to a course.
// @Summary Upload video
// @Tags admin
// @Security ApiKeyAuth
// @Accept mpfd
// @Produce json
// @Param file formData file true "Video file"
// @Param course_id formData string false "Course to attach the video to"
// @Success 201 {object} dto.UploadVideoResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/videos [post]
func (h *CourseHandler) UploadVideo(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("file")}
	}
	if errs := h.validation.Validator().ValidateVideoFilename(fh.Filename); len(errs) > 0 {
		return errs
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return domain.ValidationErrors{domain.NewOutOfRangeError("file", fh.Size, 1, int(h.maxUploadBytes))}
	}

	f, err := fh.Open()
	if err != nil {
		return domain.NewInvalidInputError("Unreadable upload")
	}
	defer f.Close()

	courseID := c.FormValue("course_id")
	progress := func(percent int) {
		if percent%25 == 0 {
			logger.Get().Debug("Video upload progress", zap.String("file", fh.Filename), zap.Int("percent", percent))
		}
	}
	resp, err := h.catalog.UploadVideo(c.UserContext(), courseID, fh.Filename, f, fh.Size, progress)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
