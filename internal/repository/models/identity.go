package models

import "time"

// Identity is an account in the local user pool.
type Identity struct {
	SubjectID    string    `db:"SUBJECT_ID"`
	Username     string    `db:"USERNAME"`
	PasswordHash string    `db:"PASSWORD_HASH"` // bcrypt
	Attributes   StringMap `db:"ATTRIBUTES"`    // JSON object, e.g. email, email_verified
	Status       string    `db:"STATUS"`
	CreatedAt    time.Time `db:"CREATED_AT"`
	UpdatedAt    time.Time `db:"UPDATED_AT"`
}
