package service

import (
	"context"

	"trainhub/internal/domain"
	"trainhub/internal/logger"

	"go.uber.org/zap"
)

// SessionFetcher is the part of AuthService the resolver needs.
type SessionFetcher interface {
	FetchSession(ctx context.Context, tokenString string, forceRefresh bool) (*domain.Session, error)
}

// RoleResolver classifies the caller from their session's group claims.
type RoleResolver struct {
	sessions SessionFetcher
}

func NewRoleResolver(sessions SessionFetcher) *RoleResolver {
	return &RoleResolver{sessions: sessions}
}

// Resolve never returns an error: any session failure resolves to RoleNone.
func (r *RoleResolver) Resolve(ctx context.Context, tokenString string) domain.Role {
	session, err := r.sessions.FetchSession(ctx, tokenString, false)
	if err != nil {
		logger.Get().Warn("Role resolution failed; denying access", zap.Error(err))
		return domain.RoleNone
	}
	return domain.ResolveRole(session.GroupClaims)
}
