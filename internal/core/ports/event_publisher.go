package ports

import (
	"context"

	"github.com/croco-platform/user-service/internal/core/domain"
)

// EventPublisher sends user lifecycle events to the users topic, keyed by
// username. Publish must respect the context deadline: callers bound the
// wait and treat failures as best-effort (logged, never surfaced).
type EventPublisher interface {
	Publish(ctx context.Context, key string, event domain.UserEvent) error
}
