package models

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an account record. Password material and pending-reset fields
// are never serialized in responses.
type User struct {
	ID                   int64      `json:"id"`
	Username             string     `json:"username"`
	Email                string     `json:"email"` // stored lowercase
	Role                 Role       `json:"role"`
	PasswordHash         string     `json:"-"`
	PasswordChangedAt    *time.Time `json:"-"` // nil until the first password change
	PasswordResetToken   *string    `json:"-"` // hex sha256 of the raw reset secret
	PasswordResetExpires *time.Time `json:"-"`
	Active               bool       `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
}

// PasswordChangedAfter reports whether the password was changed after the
// given token issue time. An account that never changed its password
// never rejects a token, whatever its issue time.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}
