package middleware

import (
	"context"
	"strings"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "

	// fiber.Ctx locals
	SubjectIDKey = "subjectID"
	UsernameKey  = "username"
	TokenKey     = "accessToken"
	RoleKey      = "role"
)

// TokenValidator is the part of the auth service Protected needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

// RoleResolver classifies a caller from their token. It must fail closed.
type RoleResolver interface {
	Resolve(ctx context.Context, tokenString string) domain.Role
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(AuthorizationHeader)
	if authHeader == "" {
		return "", domain.NewAuthFailureError("Authorization header is missing", nil)
	}
	if !strings.HasPrefix(authHeader, BearerSchema) {
		return "", domain.NewAuthFailureError("Authorization scheme is not Bearer", nil)
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
	if token == "" {
		return "", domain.NewAuthFailureError("Token is empty", nil)
	}
	return token, nil
}

// Protected requires a valid, non-revoked access token and stores the
// principal in the request locals.
func Protected(auth TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := BearerToken(c)
		if err != nil {
			return err
		}
		claims, err := auth.ValidateToken(c.UserContext(), token)
		if err != nil {
			logger.Get().Debug("Token rejected", zap.String("path", c.Path()), zap.Error(err))
			return err
		}
		c.Locals(SubjectIDKey, claims.Subject)
		c.Locals(UsernameKey, claims.Username)
		c.Locals(TokenKey, token)
		return c.Next()
	}
}

// RequireRole admits only callers whose resolved role is exactly role.
// It must run after Protected.
func RequireRole(resolver RoleResolver, role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals(TokenKey).(string)
		if token == "" {
			return domain.NewAuthFailureError("Authentication required", nil)
		}
		got := resolver.Resolve(c.UserContext(), token)
		if got != role {
			logger.Get().Info("Access denied",
				zap.String("path", c.Path()),
				zap.String("subjectID", SubjectID(c)),
				zap.String("role", got.String()),
				zap.String("required", role.String()))
			return domain.NewForbiddenError("This action requires the " + role.String() + " role")
		}
		c.Locals(RoleKey, got)
		return c.Next()
	}
}

// SubjectID returns the authenticated subject stored by Protected.
func SubjectID(c *fiber.Ctx) string {
	s, _ := c.Locals(SubjectIDKey).(string)
	return s
}

// AccessToken returns the bearer token stored by Protected.
func AccessToken(c *fiber.Ctx) string {
	s, _ := c.Locals(TokenKey).(string)
	return s
}
