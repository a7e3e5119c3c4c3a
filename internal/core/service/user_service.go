package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/croco-platform/user-service/internal/core/domain"
	"github.com/croco-platform/user-service/internal/core/ports"
	"github.com/croco-platform/user-service/internal/metrics"
)

const defaultPublishTimeout = 3 * time.Second

// UserService orchestrates the user store, password hasher, cache, and
// event publisher for every read and write path.
type UserService struct {
	repo           ports.UserRepository
	cache          ports.UserCache
	publisher      ports.EventPublisher
	publishTimeout time.Duration
	log            zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	cache ports.UserCache,
	publisher ports.EventPublisher,
	publishTimeout time.Duration,
	log zerolog.Logger,
) *UserService {
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}
	return &UserService{
		repo:           repo,
		cache:          cache,
		publisher:      publisher,
		publishTimeout: publishTimeout,
		log:            log,
	}
}

// CreateUser registers a new user. Username is checked first, then email;
// either one already taken yields domain.ErrUserExists. The pre-checks are
// best effort; the store's unique indexes close the concurrent-create race
// and surface the same error.
func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.UserDetails, error) {
	taken, err := s.repo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("username %q: %w", input.Username, domain.ErrUserExists)
	}

	taken, err = s.repo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("email %q: %w", input.Email, domain.ErrUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Roles:        input.Roles,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersCreatedTotal.Inc()
	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user created")

	details := created.Details()
	s.publishEvent(domain.EventUserCreated, details)
	return &details, nil
}

// UpdateUser overwrites username, email, password hash, and roles of an
// existing user, then evicts the cached projection and emits USER_UPDATED.
func (s *UserService) UpdateUser(ctx context.Context, id int64, input ports.CreateUserInput) (*domain.UserDetails, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	if err := s.checkUpdateConflicts(ctx, user, input.Username, input.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("update user %d: hash password: %w", id, err)
	}

	user.Username = input.Username
	user.Email = input.Email
	user.PasswordHash = string(hash)
	user.Roles = input.Roles

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	s.evict(ctx, id)
	s.log.Info().Int64("user_id", id).Msg("user updated")

	details := saved.Details()
	s.publishEvent(domain.EventUserUpdated, details)
	return &details, nil
}

// DeleteUser removes the user and its cache entry, then emits USER_DELETED.
// An absent id is a no-op: no error, no event.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if err := s.repo.Delete(ctx, user); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	s.evict(ctx, id)
	s.log.Info().Int64("user_id", id).Str("username", user.Username).Msg("user deleted")

	s.publishEvent(domain.EventUserDeleted, user.Details())
	return nil
}

// GetUsers returns one page of projections in store order, uncached.
func (s *UserService) GetUsers(ctx context.Context, page, size int) ([]domain.UserDetails, error) {
	users, err := s.repo.FindAll(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	details := make([]domain.UserDetails, len(users))
	for i, u := range users {
		details[i] = u.Details()
	}
	return details, nil
}

// GetUser returns the cached projection when present, loading from the store
// and populating the cache otherwise. Cache backend failures fall through to
// the store.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.UserDetails, error) {
	cached, hit, err := s.cache.Get(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("cache lookup failed")
	} else if hit {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	details := user.Details()
	if err := s.cache.Put(ctx, id, details); err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("cache put failed")
	}
	return &details, nil
}

// UpdateMe is the caller-scoped update: same conflict checks as UpdateUser
// but the role set is never touched.
func (s *UserService) UpdateMe(ctx context.Context, id int64, input ports.UpdateMeInput) (*domain.UserDetails, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update me %d: %w", id, err)
	}

	if err := s.checkUpdateConflicts(ctx, user, input.Username, input.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("update me %d: hash password: %w", id, err)
	}

	user.Username = input.Username
	user.Email = input.Email
	user.PasswordHash = string(hash)

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("update me %d: %w", id, err)
	}

	s.evict(ctx, id)
	s.log.Info().Int64("user_id", id).Msg("user self-updated")

	details := saved.Details()
	s.publishEvent(domain.EventUserUpdated, details)
	return &details, nil
}

// checkUpdateConflicts rejects a username or email change when the new value
// already belongs to another user.
func (s *UserService) checkUpdateConflicts(ctx context.Context, current *domain.User, newUsername, newEmail string) error {
	if newUsername != current.Username {
		taken, err := s.repo.ExistsByUsername(ctx, newUsername)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return fmt.Errorf("username %q: %w", newUsername, domain.ErrUserExists)
		}
	}

	if newEmail != current.Email {
		taken, err := s.repo.ExistsByEmail(ctx, newEmail)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return fmt.Errorf("email %q: %w", newEmail, domain.ErrUserExists)
		}
	}

	return nil
}

func (s *UserService) evict(ctx context.Context, id int64) {
	if err := s.cache.Evict(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("cache evict failed")
	}
}

// publishEvent sends the lifecycle event keyed by username, waiting at most
// publishTimeout for the broker's ack. The store write already committed:
// failures are logged and swallowed, never surfaced or rolled back.
func (s *UserService) publishEvent(eventType domain.EventType, user domain.UserDetails) {
	event := domain.NewUserEvent(eventType, user)

	ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, user.Username, event); err != nil {
		metrics.EventsPublishFailedTotal.WithLabelValues(string(eventType)).Inc()
		s.log.Warn().Err(err).
			Str("event_type", string(eventType)).
			Str("username", user.Username).
			Msg("failed to publish user event")
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues(string(eventType)).Inc()
}
