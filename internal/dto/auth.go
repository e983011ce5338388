package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT. Groups holds a bare string
// for a single group and a list otherwise.
type AuthClaims struct {
	Username string      `json:"username"`
	Groups   interface{} `json:"groups,omitempty"`
	jwt.RegisteredClaims
}

// SignInRequest represents the credentials posted to the sign-in endpoint.
type SignInRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse represents the response containing the access token.
// @Description Response body for a successful sign-in
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CurrentUserResponse is returned by GET /api/auth/me.
type CurrentUserResponse struct {
	SubjectID string `json:"subject_id"`
	Username  string `json:"username"`
}

// SessionResponse is returned by GET /api/auth/session.
type SessionResponse struct {
	SubjectID   string    `json:"subject_id"`
	Username    string    `json:"username"`
	GroupClaims []string  `json:"group_claims"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}
