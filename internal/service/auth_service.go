package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trainhub/internal/cache"
	"trainhub/internal/config"
	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"
	"trainhub/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidJWTToken    = errors.New("invalid jwt token")
	ErrTokenRevoked       = errors.New("token has been signed out")
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	SignIn(ctx context.Context, username, password string) (*dto.TokenResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	GetCurrentUser(ctx context.Context, tokenString string) (*domain.CurrentUser, error)
	// FetchSession returns the caller's group claims; forceRefresh re-reads them from the user pool.
	FetchSession(ctx context.Context, tokenString string, forceRefresh bool) (*domain.Session, error)
	SignOut(ctx context.Context, tokenString string) error
}

type authServiceImpl struct {
	identities domain.IdentityRepository
	cache      domain.Cache
	jwtConfig  config.JWTConfig
	now        func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(identities domain.IdentityRepository, cache domain.Cache, jwtConfig config.JWTConfig) (AuthService, error) {
	if len(jwtConfig.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	if jwtConfig.AccessTokenTTL <= 0 {
		jwtConfig.AccessTokenTTL = time.Hour
	}
	return &authServiceImpl{
		identities: identities,
		cache:      cache,
		jwtConfig:  jwtConfig,
		now:        time.Now,
	}, nil
}

func (s *authServiceImpl) SignIn(ctx context.Context, username, password string) (*dto.TokenResponse, error) {
	identity, err := s.identities.GetIdentityByUsername(ctx, username)
	if err != nil {
		return nil, domain.NewFetchFailedError("identity", err)
	}
	if identity == nil {
		return nil, domain.NewAuthFailureError("Invalid username or password", ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		logger.Get().Info("Sign-in rejected", zap.String("subjectID", identity.SubjectID))
		return nil, domain.NewAuthFailureError("Invalid username or password", ErrInvalidCredentials)
	}
	if identity.Status != domain.IdentityStatusConfirmed {
		return nil, domain.NewAuthFailureError("Password change required before sign-in", nil)
	}

	groups, err := s.identities.ListGroups(ctx, identity.SubjectID)
	if err != nil {
		return nil, domain.NewFetchFailedError("group memberships", err)
	}

	token, expiresAt, err := s.createJWT(identity, groups)
	if err != nil {
		return nil, domain.NewInternalError("failed to issue token", err)
	}
	logger.Get().Info("User signed in", zap.String("subjectID", identity.SubjectID), zap.Strings("groups", groups))

	return &dto.TokenResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// groupsClaim mirrors the hosted provider: one group is a bare string.
func groupsClaim(groups []string) interface{} {
	switch len(groups) {
	case 0:
		return nil
	case 1:
		return groups[0]
	default:
		return groups
	}
}

func (s *authServiceImpl) createJWT(identity *domain.Identity, groups []string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.jwtConfig.AccessTokenTTL)
	claims := dto.AuthClaims{
		Username: identity.Username,
		Groups:   groupsClaim(groups),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        util.NewULID(),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   identity.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *authServiceImpl) parse(tokenString string) (*dto.AuthClaims, error) {
	claims := &dto.AuthClaims{}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.jwtConfig.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.jwtConfig.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.SecretKey), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject or token id", ErrInvalidJWTToken)
	}
	return claims, nil
}

// ValidateToken fails closed: a deny-list lookup error rejects the token.
func (s *authServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, domain.NewAuthFailureError("Invalid or expired token", err)
	}
	revoked, err := s.cache.Exists(ctx, cache.RevokedTokenKey(claims.ID))
	if err != nil {
		logger.Get().Error("Token deny-list lookup failed", zap.String("subjectID", claims.Subject), zap.Error(err))
		return nil, domain.NewAuthFailureError("Unable to verify session", err)
	}
	if revoked {
		return nil, domain.NewAuthFailureError("Session has been signed out", ErrTokenRevoked)
	}
	return claims, nil
}

func (s *authServiceImpl) GetCurrentUser(ctx context.Context, tokenString string) (*domain.CurrentUser, error) {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	return &domain.CurrentUser{SubjectID: claims.Subject, Username: claims.Username}, nil
}

func (s *authServiceImpl) FetchSession(ctx context.Context, tokenString string, forceRefresh bool) (*domain.Session, error) {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		SubjectID:   claims.Subject,
		Username:    claims.Username,
		GroupClaims: domain.NormalizeGroupClaims(claims.Groups),
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	if forceRefresh {
		groups, err := s.identities.ListGroups(ctx, claims.Subject)
		if err != nil {
			logger.Get().Error("Failed to refresh group claims", zap.String("subjectID", claims.Subject), zap.Error(err))
			return nil, domain.NewAuthFailureError("Unable to refresh session", err)
		}
		session.GroupClaims = domain.NormalizeGroupClaims(groups)
	}
	return session, nil
}

// SignOut deny-lists the token id until the token would have expired anyway.
func (s *authServiceImpl) SignOut(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return domain.NewAuthFailureError("Invalid or expired token", err)
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(s.now()); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.cache.Set(ctx, cache.RevokedTokenKey(claims.ID), claims.Subject, ttl); err != nil {
		return domain.NewWriteFailedError("sign-out", err)
	}
	logger.Get().Info("User signed out", zap.String("subjectID", claims.Subject))
	return nil
}
