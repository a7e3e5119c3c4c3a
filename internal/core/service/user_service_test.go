package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/croco-platform/user-service/internal/core/domain"
	"github.com/croco-platform/user-service/internal/core/ports"
)

// --- Stubs ---

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64

	findByIDCalls int
	saveCalls     int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.findByIDCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.saveCalls++
	if user.ID == 0 {
		r.nextID++
		user.ID = r.nextID
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, user *domain.User) error {
	delete(r.users, user.ID)
	return nil
}

func (r *stubUserRepo) FindAll(_ context.Context, page, size int) ([]*domain.User, error) {
	var out []*domain.User
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

type stubCache struct {
	entries map[int64]domain.UserDetails
	evicted []int64
	puts    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[int64]domain.UserDetails)}
}

func (c *stubCache) Get(_ context.Context, id int64) (*domain.UserDetails, bool, error) {
	d, ok := c.entries[id]
	if !ok {
		return nil, false, nil
	}
	return &d, true, nil
}

func (c *stubCache) Put(_ context.Context, id int64, details domain.UserDetails) error {
	c.puts++
	c.entries[id] = details
	return nil
}

func (c *stubCache) Evict(_ context.Context, id int64) error {
	c.evicted = append(c.evicted, id)
	delete(c.entries, id)
	return nil
}

type stubPublisher struct {
	events []domain.UserEvent
	keys   []string
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, key string, event domain.UserEvent) error {
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return nil
}

func newTestUserService() (*UserService, *stubUserRepo, *stubCache, *stubPublisher) {
	repo := newStubUserRepo()
	cache := newStubCache()
	pub := &stubPublisher{}
	svc := NewUserService(repo, cache, pub, time.Second, zerolog.Nop())
	return svc, repo, cache, pub
}

func mustCreate(t *testing.T, svc *UserService, username, email string, roles ...domain.Role) *domain.UserDetails {
	t.Helper()
	details, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: username,
		Email:    email,
		Password: "TestPassword1!",
		Roles:    roles,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return details
}

// --- Create ---

func TestUserService_CreateUser(t *testing.T) {
	svc, repo, _, pub := newTestUserService()

	details := mustCreate(t, svc, "lashabolga", "test@test.com", domain.RoleAdmin)

	if details.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if details.Username != "lashabolga" || details.Email != "test@test.com" {
		t.Fatalf("unexpected projection: %+v", details)
	}

	stored := repo.users[details.ID]
	if stored.PasswordHash == "TestPassword1!" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("TestPassword1!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.EventType != domain.EventUserCreated {
		t.Fatalf("expected USER_CREATED, got %s", ev.EventType)
	}
	if pub.keys[0] != "lashabolga" {
		t.Fatalf("expected event keyed by username, got %q", pub.keys[0])
	}
	if ev.Username != "lashabolga" || ev.Email != "test@test.com" {
		t.Fatalf("event payload mismatch: %+v", ev)
	}
}

func TestUserService_CreateUser_DuplicateUsername(t *testing.T) {
	svc, repo, _, pub := newTestUserService()

	mustCreate(t, svc, "bob", "bob@test.com", domain.RoleUser)

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "bob",
		Email:    "other@test.com",
		Password: "TestPassword1!",
		Roles:    []domain.Role{domain.RoleUser},
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected no second row, got %d", len(repo.users))
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected no event for failed create")
	}
}

func TestUserService_CreateUser_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	mustCreate(t, svc, "bob", "bob@test.com", domain.RoleUser)

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "carol",
		Email:    "bob@test.com",
		Password: "TestPassword1!",
		Roles:    []domain.Role{domain.RoleUser},
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_CreateUser_PublishFailureSwallowed(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubCache()
	pub := &stubPublisher{err: errors.New("broker down")}
	svc := NewUserService(repo, cache, pub, time.Second, zerolog.Nop())

	details, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "dave",
		Email:    "dave@test.com",
		Password: "TestPassword1!",
		Roles:    []domain.Role{domain.RoleUser},
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the write: %v", err)
	}
	if _, ok := repo.users[details.ID]; !ok {
		t.Fatalf("row not persisted")
	}
}

// --- Update ---

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	_, err := svc.UpdateUser(context.Background(), 99, ports.CreateUserInput{
		Username: "x", Email: "x@test.com", Password: "TestPassword1!",
		Roles: []domain.Role{domain.RoleUser},
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateUser_UsernameConflict(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	mustCreate(t, svc, "alice", "alice@test.com", domain.RoleUser)
	bob := mustCreate(t, svc, "bob", "bob@test.com", domain.RoleUser)

	_, err := svc.UpdateUser(context.Background(), bob.ID, ports.CreateUserInput{
		Username: "alice", Email: "bob@test.com", Password: "TestPassword1!",
		Roles: []domain.Role{domain.RoleUser},
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for taken username, got %v", err)
	}
}

func TestUserService_UpdateUser_EmailConflict(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	mustCreate(t, svc, "alice", "alice@test.com", domain.RoleUser)
	bob := mustCreate(t, svc, "bob", "bob@test.com", domain.RoleUser)

	_, err := svc.UpdateUser(context.Background(), bob.ID, ports.CreateUserInput{
		Username: "bob", Email: "alice@test.com", Password: "TestPassword1!",
		Roles: []domain.Role{domain.RoleUser},
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for taken email, got %v", err)
	}
}

func TestUserService_UpdateUser_EvictsCacheAndPublishes(t *testing.T) {
	svc, _, cache, pub := newTestUserService()

	alice := mustCreate(t, svc, "alice", "alice@test.com", domain.RoleUser)

	// Warm the cache.
	if _, err := svc.GetUser(context.Background(), alice.ID); err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if _, ok := cache.entries[alice.ID]; !ok {
		t.Fatalf("expected cache entry after read")
	}

	updated, err := svc.UpdateUser(context.Background(), alice.ID, ports.CreateUserInput{
		Username: "alice2", Email: "alice2@test.com", Password: "TestPassword1!",
		Roles: []domain.Role{domain.RoleModerator},
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if _, ok := cache.entries[alice.ID]; ok {
		t.Fatalf("expected cache entry evicted after update")
	}
	if len(cache.evicted) == 0 || cache.evicted[len(cache.evicted)-1] != alice.ID {
		t.Fatalf("expected eviction of id %d, got %v", alice.ID, cache.evicted)
	}

	// Subsequent read must observe the new value.
	got, err := svc.GetUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("GetUser after update: %v", err)
	}
	if got.Username != "alice2" {
		t.Fatalf("stale read after update: %+v", got)
	}

	last := pub.events[len(pub.events)-1]
	if last.EventType != domain.EventUserUpdated || last.Username != updated.Username {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestUserService_UpdateMe_KeepsRoles(t *testing.T) {
	svc, repo, _, _ := newTestUserService()

	alice := mustCreate(t, svc, "alice", "alice@test.com", domain.RoleModerator)

	details, err := svc.UpdateMe(context.Background(), alice.ID, ports.UpdateMeInput{
		Username: "alice2", Email: "alice2@test.com", Password: "NewPassword1!",
	})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if details.Username != "alice2" {
		t.Fatalf("username not updated: %+v", details)
	}
	if !repo.users[alice.ID].HasRole(domain.RoleModerator) {
		t.Fatalf("self-update must not touch roles: %v", repo.users[alice.ID].Roles)
	}
}

// --- Delete ---

func TestUserService_DeleteUser(t *testing.T) {
	svc, repo, cache, pub := newTestUserService()

	alice := mustCreate(t, svc, "alice", "alice@test.com", domain.RoleUser)

	if err := svc.DeleteUser(context.Background(), alice.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, ok := repo.users[alice.ID]; ok {
		t.Fatalf("row not deleted")
	}
	if len(cache.evicted) == 0 {
		t.Fatalf("expected cache eviction on delete")
	}

	last := pub.events[len(pub.events)-1]
	if last.EventType != domain.EventUserDeleted || last.Username != "alice" {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestUserService_DeleteUser_AbsentIsNoOp(t *testing.T) {
	svc, _, _, pub := newTestUserService()

	if err := svc.DeleteUser(context.Background(), 404); err != nil {
		t.Fatalf("deleting absent id must not error: %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("deleting absent id must not publish: %v", pub.events)
	}
}

// --- Reads ---

func TestUserService_GetUser_CacheHitSkipsStore(t *testing.T) {
	svc, repo, cache, _ := newTestUserService()

	alice := mustCreate(t, svc, "alice", "alice@test.com", domain.RoleUser)

	first, err := svc.GetUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if cache.puts != 1 {
		t.Fatalf("expected cache populated on miss")
	}

	storeHits := repo.findByIDCalls
	second, err := svc.GetUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if repo.findByIDCalls != storeHits {
		t.Fatalf("expected second read served from cache, store hit anyway")
	}
	if first.ID != second.ID || first.Username != second.Username || first.Email != second.Email {
		t.Fatalf("cache returned different value: %+v vs %+v", first, second)
	}
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	_, err := svc.GetUser(context.Background(), 7)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_GetUsers(t *testing.T) {
	svc, _, _, _ := newTestUserService()

	mustCreate(t, svc, "alice", "alice@test.com", domain.RoleUser)
	mustCreate(t, svc, "bob", "bob@test.com", domain.RoleUser)

	details, err := svc.GetUsers(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("GetUsers: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 users, got %d", len(details))
	}
	if details[0].Username != "alice" || details[1].Username != "bob" {
		t.Fatalf("unexpected order: %+v", details)
	}
}
