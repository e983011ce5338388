package domain

import "time"

// IdentityStatus mirrors the account states of a hosted user pool.
type IdentityStatus string

const (
	IdentityStatusForceChangePassword IdentityStatus = "FORCE_CHANGE_PASSWORD"
	IdentityStatusConfirmed           IdentityStatus = "CONFIRMED"
)

// Identity is an account in the identity provider.
type Identity struct {
	SubjectID    string
	Username     string
	PasswordHash string
	Attributes   map[string]string
	Status       IdentityStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Attribute returns a named attribute or "".
func (i *Identity) Attribute(name string) string {
	if i.Attributes == nil {
		return ""
	}
	return i.Attributes[name]
}

// CurrentUser is what getCurrentUser returns.
type CurrentUser struct {
	SubjectID string `json:"subject_id"`
	Username  string `json:"username"`
}

// Session is what fetchSession returns: the caller's normalized group claims.
type Session struct {
	SubjectID   string      `json:"subject_id"`
	Username    string      `json:"username"`
	GroupClaims GroupClaims `json:"group_claims"`
	ExpiresAt   time.Time   `json:"expires_at"`
}
