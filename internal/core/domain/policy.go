package domain

// Claims carries the verified identity extracted from a bearer token.
// A zero Claims value means the request is unauthenticated.
type Claims struct {
	UserID   int64
	Username string
	Roles    []Role
}

// Authenticated reports whether the claims belong to a verified token.
func (c Claims) Authenticated() bool {
	return c.Username != ""
}

// HasRole reports whether the caller holds the given role.
func (c Claims) HasRole(role Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the caller holds at least one of the given roles.
func (c Claims) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Operation enumerates the protected user operations.
type Operation int

const (
	OpListUsers Operation = iota
	OpGetUser
	OpCreateUser
	OpUpdateUser
	OpDeleteUser
	OpUpdateSelf
)

// Allow is the authorization policy: one predicate per operation, evaluated
// against the caller's claims and the targeted user id (ignored for
// operations that do not address a specific user).
func Allow(c Claims, op Operation, targetID int64) bool {
	switch op {
	case OpCreateUser:
		// Public signup.
		return true
	case OpListUsers:
		return c.HasAnyRole(RoleAdmin, RoleModerator)
	case OpGetUser:
		return c.HasRole(RoleAdmin) || (c.Authenticated() && c.UserID == targetID)
	case OpUpdateUser, OpDeleteUser:
		return c.HasRole(RoleAdmin)
	case OpUpdateSelf:
		return c.Authenticated()
	}
	return false
}
