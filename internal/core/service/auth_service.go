package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/croco-platform/user-service/internal/core/domain"
	"github.com/croco-platform/user-service/internal/core/ports"
)

// AuthService verifies credentials and issues bearer tokens.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenService
}

func NewAuthService(repo ports.UserRepository, tokens *TokenService) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Login authenticates the username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID, user.Username, user.Roles)
}
