package ports

import "context"

// AuthService authenticates credentials and issues bearer tokens.
type AuthService interface {
	// Login verifies the username/password pair and returns a signed token.
	// Unknown users and wrong passwords both yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, error)
}
