package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/repository/models"
)

const identityColumns = "subject_id, username, password_hash, attributes, status, created_at, updated_at"

// IdentityDatabaseAdapter persists the local user pool: identities plus group memberships.
type IdentityDatabaseAdapter struct {
	db DBTX
}

func NewIdentityDatabaseAdapter(db DBTX) domain.IdentityRepository {
	return &IdentityDatabaseAdapter{db: db}
}

func (r *IdentityDatabaseAdapter) CreateIdentity(ctx context.Context, identity *domain.Identity) error {
	now := time.Now()
	m := models.Identity{
		SubjectID:    identity.SubjectID,
		Username:     identity.Username,
		PasswordHash: identity.PasswordHash,
		Attributes:   models.StringMap(identity.Attributes),
		Status:       string(identity.Status),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	db := GetExecutor(ctx, r.db)
	query := `INSERT INTO identities (subject_id, username, password_hash, attributes, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := db.ExecContext(ctx, db.Rebind(query), m.SubjectID, m.Username, m.PasswordHash, m.Attributes, m.Status, m.CreatedAt, m.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	identity.CreatedAt = now
	identity.UpdatedAt = now
	return nil
}

func (r *IdentityDatabaseAdapter) GetIdentityBySubject(ctx context.Context, subjectID string) (*domain.Identity, error) {
	return r.getOne(ctx, `SELECT `+identityColumns+` FROM identities WHERE subject_id = ?`, subjectID)
}

// GetIdentityByUsername matches case-insensitively; usernames are email addresses.
func (r *IdentityDatabaseAdapter) GetIdentityByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.getOne(ctx, `SELECT `+identityColumns+` FROM identities WHERE LOWER(username) = LOWER(?)`, username)
}

func (r *IdentityDatabaseAdapter) getOne(ctx context.Context, query, arg string) (*domain.Identity, error) {
	var m models.Identity
	db := GetExecutor(ctx, r.db)
	if err := db.GetContext(ctx, &m, db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	return &domain.Identity{
		SubjectID:    m.SubjectID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Attributes:   map[string]string(m.Attributes),
		Status:       domain.IdentityStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

func (r *IdentityDatabaseAdapter) UpdatePassword(ctx context.Context, subjectID, passwordHash string, status domain.IdentityStatus) error {
	query := `UPDATE identities SET password_hash = ?, status = ?, updated_at = ? WHERE subject_id = ?`
	n, err := execAffected(ctx, GetExecutor(ctx, r.db), query, passwordHash, string(status), time.Now(), subjectID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("Identity not found: %s", subjectID))
	}
	return nil
}

// DeleteIdentity removes the identity and its group memberships.
func (r *IdentityDatabaseAdapter) DeleteIdentity(ctx context.Context, subjectID string) error {
	db := GetExecutor(ctx, r.db)
	if _, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM identity_groups WHERE subject_id = ?`), subjectID); err != nil {
		return fmt.Errorf("failed to delete identity groups: %w", err)
	}
	if _, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM identities WHERE subject_id = ?`), subjectID); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}

func (r *IdentityDatabaseAdapter) AddGroup(ctx context.Context, subjectID, group string) error {
	db := GetExecutor(ctx, r.db)
	query := `INSERT INTO identity_groups (subject_id, group_name, created_at) VALUES (?, ?, ?)`
	if _, err := db.ExecContext(ctx, db.Rebind(query), subjectID, group, time.Now()); err != nil {
		return fmt.Errorf("failed to add identity to group %s: %w", group, err)
	}
	return nil
}

func (r *IdentityDatabaseAdapter) ListGroups(ctx context.Context, subjectID string) ([]string, error) {
	var groups []string
	db := GetExecutor(ctx, r.db)
	query := `SELECT group_name FROM identity_groups WHERE subject_id = ? ORDER BY group_name`
	if err := db.SelectContext(ctx, &groups, db.Rebind(query), subjectID); err != nil {
		return nil, fmt.Errorf("failed to list identity groups: %w", err)
	}
	return groups, nil
}
