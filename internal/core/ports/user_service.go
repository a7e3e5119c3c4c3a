package ports

import (
	"context"

	"github.com/croco-platform/user-service/internal/core/domain"
)

// CreateUserInput carries the data for signup and admin update.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Roles    []domain.Role
}

// UpdateMeInput is the caller-scoped update: no roles change allowed.
type UpdateMeInput struct {
	Username string
	Email    string
	Password string
}

// UserService defines the use-case operations over user records.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.UserDetails, error)
	UpdateUser(ctx context.Context, id int64, input CreateUserInput) (*domain.UserDetails, error)
	DeleteUser(ctx context.Context, id int64) error
	GetUsers(ctx context.Context, page, size int) ([]domain.UserDetails, error)
	GetUser(ctx context.Context, id int64) (*domain.UserDetails, error)
	UpdateMe(ctx context.Context, id int64, input UpdateMeInput) (*domain.UserDetails, error)
}
