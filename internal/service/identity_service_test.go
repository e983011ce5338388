package service

import (
	"context"
	"errors"
	"testing"

	"trainhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestIdentityService() (*identityServiceImpl, *MockIdentityRepository) {
	repo := new(MockIdentityRepository)
	return &identityServiceImpl{repo: repo, bcryptCost: bcrypt.MinCost}, repo
}

func TestIdentityService_CreateIdentity(t *testing.T) {
	svc, repo := newTestIdentityService()
	repo.On("GetIdentityByUsername", mock.Anything, "jane@example.com").Return(nil, nil)
	repo.On("CreateIdentity", mock.Anything, mock.AnythingOfType("*domain.Identity")).Return(nil)

	identity, err := svc.CreateIdentity(context.Background(), "  Jane@Example.com ", "TempPass1!", map[string]string{"name": "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", identity.Username)
	assert.Equal(t, domain.IdentityStatusForceChangePassword, identity.Status)
	assert.Len(t, identity.SubjectID, 26)
	assert.Equal(t, "Jane", identity.Attribute("name"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte("TempPass1!")))
	repo.AssertExpectations(t)
}

func TestIdentityService_CreateIdentity_Duplicate(t *testing.T) {
	svc, repo := newTestIdentityService()
	repo.On("GetIdentityByUsername", mock.Anything, "jane@example.com").Return(&domain.Identity{SubjectID: "existing"}, nil)

	_, err := svc.CreateIdentity(context.Background(), "jane@example.com", "TempPass1!", nil)
	assert.True(t, domain.HasCode(err, domain.CodeDuplicateIdentity))
	repo.AssertNotCalled(t, "CreateIdentity", mock.Anything, mock.Anything)
}

func TestIdentityService_SetPassword(t *testing.T) {
	tests := []struct {
		name      string
		permanent bool
		want      domain.IdentityStatus
	}{
		{"permanent confirms", true, domain.IdentityStatusConfirmed},
		{"temporary forces change", false, domain.IdentityStatusForceChangePassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestIdentityService()
			repo.On("UpdatePassword", mock.Anything, "sub-1", mock.AnythingOfType("string"), tt.want).Return(nil)
			assert.NoError(t, svc.SetPassword(context.Background(), "sub-1", "NewPass1!", tt.permanent))
			repo.AssertExpectations(t)
		})
	}
}

func TestIdentityService_WriteFailures(t *testing.T) {
	svc, repo := newTestIdentityService()
	repo.On("AddGroup", mock.Anything, "sub-1", domain.GroupEmployees).Return(errors.New("db down"))
	repo.On("DeleteIdentity", mock.Anything, "sub-1").Return(errors.New("db down"))

	assert.True(t, domain.HasCode(svc.AddToGroup(context.Background(), "sub-1", domain.GroupEmployees), domain.CodeWriteFailed))
	assert.True(t, domain.HasCode(svc.DeleteIdentity(context.Background(), "sub-1"), domain.CodeWriteFailed))
}
