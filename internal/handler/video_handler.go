package handler

import (
	"trainhub/internal/dto"
	"trainhub/internal/middleware"
	"trainhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type VideoHandler struct {
	videos     service.VideoService
	validation *middleware.ValidationMiddleware
}

func NewVideoHandler(videos service.VideoService, validation *middleware.ValidationMiddleware) *VideoHandler {
	return &VideoHandler{videos: videos, validation: validation}
}

// Playback returns a time-limited URL for a course's video.
// @Summary Video playback
// @Description has_video is false when the course has no video; that is not an error.
// @Tags video
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.PlaybackResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse "Storage error"
// @Router /courses/{id}/video [get]
func (h *VideoHandler) Playback(c *fiber.Ctx) error {
	playback, err := h.videos.GetPlayback(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(playback)
}

// Progress reports whether the player state counts as watched.
// @Summary Video progress
// @Tags video
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.VideoProgressRequest true "Player state"
// @Success 200 {object} dto.VideoProgressResponse
// @Router /video/progress [post]
func (h *VideoHandler) Progress(c *fiber.Ctx) error {
	var req dto.VideoProgressRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	return c.JSON(h.videos.ReportProgress(req))
}
