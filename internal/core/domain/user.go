package domain

import (
	"errors"
	"time"
)

// Role is an authorization role granted to a user.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")

// User is the persisted identity record. The password is only ever stored
// as a bcrypt hash.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserDetails is the password-free projection of a User returned to clients
// and stored in the cache.
type UserDetails struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    []Role `json:"roles"`
}

// Details derives the client-facing projection from a User.
func (u *User) Details() UserDetails {
	roles := make([]Role, len(u.Roles))
	copy(roles, u.Roles)
	return UserDetails{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    roles,
	}
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
