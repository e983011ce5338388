package service

import (
	"context"
	"strings"

	"trainhub/internal/domain"
	"trainhub/internal/logger"
	"trainhub/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// IdentityProvider is the user-pool side of provisioning.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, username, temporaryPassword string, attrs map[string]string) (*domain.Identity, error)
	AddToGroup(ctx context.Context, subjectID, group string) error
	SetPassword(ctx context.Context, subjectID, password string, permanent bool) error
	DeleteIdentity(ctx context.Context, subjectID string) error
}

type identityServiceImpl struct {
	repo       domain.IdentityRepository
	bcryptCost int
}

// NewIdentityService creates a user pool backed by the identity repository.
func NewIdentityService(repo domain.IdentityRepository) IdentityProvider {
	return &identityServiceImpl{repo: repo, bcryptCost: bcrypt.DefaultCost}
}

func (s *identityServiceImpl) CreateIdentity(ctx context.Context, username, temporaryPassword string, attrs map[string]string) (*domain.Identity, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	existing, err := s.repo.GetIdentityByUsername(ctx, username)
	if err != nil {
		return nil, domain.NewFetchFailedError("identity", err)
	}
	if existing != nil {
		return nil, domain.NewDuplicateIdentityError(username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(temporaryPassword), s.bcryptCost)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	identity := &domain.Identity{
		SubjectID:    strings.ToLower(util.NewULID()),
		Username:     username,
		PasswordHash: string(hash),
		Attributes:   attrs,
		Status:       domain.IdentityStatusForceChangePassword,
	}
	if err := s.repo.CreateIdentity(ctx, identity); err != nil {
		return nil, domain.NewWriteFailedError("identity", err)
	}
	logger.Get().Info("Identity created", zap.String("subjectID", identity.SubjectID), zap.String("username", username))
	return identity, nil
}

func (s *identityServiceImpl) AddToGroup(ctx context.Context, subjectID, group string) error {
	if err := s.repo.AddGroup(ctx, subjectID, group); err != nil {
		return domain.NewWriteFailedError("group membership", err)
	}
	return nil
}

// SetPassword replaces the password hash. A permanent password confirms the account.
func (s *identityServiceImpl) SetPassword(ctx context.Context, subjectID, password string, permanent bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return domain.NewInternalError("failed to hash password", err)
	}
	status := domain.IdentityStatusForceChangePassword
	if permanent {
		status = domain.IdentityStatusConfirmed
	}
	if err := s.repo.UpdatePassword(ctx, subjectID, string(hash), status); err != nil {
		return domain.NewWriteFailedError("password", err)
	}
	return nil
}

func (s *identityServiceImpl) DeleteIdentity(ctx context.Context, subjectID string) error {
	if err := s.repo.DeleteIdentity(ctx, subjectID); err != nil {
		return domain.NewWriteFailedError("identity", err)
	}
	return nil
}
