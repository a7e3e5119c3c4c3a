package ports

import (
	"context"

	"github.com/croco-platform/user-service/internal/core/domain"
)

// UserCache stores single-user projections under a fixed TTL. Entries are
// explicitly evicted on every write path (evict-before-trust: stale reads
// are prevented by removal, never by in-place update).
type UserCache interface {
	// Get returns the cached projection and true on a hit, nil and false on
	// a miss. Backend failures are reported as errors, not misses.
	Get(ctx context.Context, id int64) (*domain.UserDetails, bool, error)
	Put(ctx context.Context, id int64, details domain.UserDetails) error
	Evict(ctx context.Context, id int64) error
}
