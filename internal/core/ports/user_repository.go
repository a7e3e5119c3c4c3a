package ports

import (
	"context"

	"github.com/croco-platform/user-service/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Save inserts the user when its ID is zero (assigning a new id) and
	// overwrites the existing row otherwise. Unique-constraint violations
	// on username or email surface as domain.ErrUserExists.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, user *domain.User) error
	// FindAll returns one page of users in store-defined order. Page is 1-based.
	FindAll(ctx context.Context, page, size int) ([]*domain.User, error)
}
