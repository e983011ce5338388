package handler

import (
	"context"
	"errors"

	"trainhub/internal/domain"
	"trainhub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ObjectResolver maps a signed object token to a local file.
type ObjectResolver interface {
	Resolve(ctx context.Context, token string) (string, *domain.ObjectInfo, error)
}

// StorageHandler serves objects addressed by signed URLs for the local
// storage driver. The token is the only credential, so the route sits outside
// the bearer-auth group.
type StorageHandler struct {
	objects ObjectResolver
}

func NewStorageHandler(objects ObjectResolver) *StorageHandler {
	return &StorageHandler{objects: objects}
}

// Object sends the object referenced by the token query parameter. Range
// requests are answered with 206 so players can seek.
// @Summary Fetch stored object
// @Tags storage
// @Produce octet-stream
// @Param token query string true "Signed object token"
// @Param Range header string false "Byte range"
// @Success 200 {file} binary
// @Success 206 {file} binary
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /storage/objects [get]
func (h *StorageHandler) Object(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return domain.NewForbiddenError("Missing object token")
	}

	path, info, err := h.objects.Resolve(c.UserContext(), token)
	switch {
	case errors.Is(err, domain.ErrInvalidObjectToken):
		return domain.NewForbiddenError("Object URL is invalid or expired")
	case errors.Is(err, domain.ErrObjectNotFound):
		return domain.NewNotFoundError("Object not found")
	case err != nil:
		logger.Get().Error("Failed to open object", zap.Error(err))
		return domain.NewStorageError("Failed to open object", err)
	}

	if err := c.SendFile(path); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, info.ContentType)
	return nil
}
