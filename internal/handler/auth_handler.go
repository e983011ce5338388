package handler

import (
	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/middleware"
	"trainhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	validation  *middleware.ValidationMiddleware
}

func NewAuthHandler(authService service.AuthService, validation *middleware.ValidationMiddleware) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validation:  validation,
	}
}

// SignIn exchanges credentials for an access token.
// @Summary Sign in
// @Description Authenticates against the user pool and issues an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := h.validation.Bind(c, &req); err != nil {
		return err
	}
	token, err := h.authService.SignIn(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(token)
}

// SignOut revokes the caller's token.
// @Summary Sign out
// @Tags auth
// @Security ApiKeyAuth
// @Success 204 "No Content"
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if err := h.authService.SignOut(c.UserContext(), middleware.AccessToken(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me returns the caller's subject id and username.
// @Summary Current user
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.CurrentUserResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.GetCurrentUser(c.UserContext(), middleware.AccessToken(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.CurrentUserResponse{SubjectID: user.SubjectID, Username: user.Username})
}

// Session returns the caller's normalized group claims and resolved role.
// @Summary Current session
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Param refresh query bool false "Re-read group membership from the user pool"
// @Success 200 {object} dto.SessionResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	session, err := h.authService.FetchSession(c.UserContext(), middleware.AccessToken(c), c.QueryBool("refresh", false))
	if err != nil {
		return err
	}
	groups := []string(session.GroupClaims)
	if groups == nil {
		groups = []string{}
	}
	return c.JSON(dto.SessionResponse{
		SubjectID:   session.SubjectID,
		Username:    session.Username,
		GroupClaims: groups,
		Role:        domain.ResolveRole(session.GroupClaims).String(),
		ExpiresAt:   session.ExpiresAt,
	})
}
