package domain

import "time"

// EventType identifies a user lifecycle transition.
type EventType string

const (
	EventUserCreated EventType = "USER_CREATED"
	EventUserUpdated EventType = "USER_UPDATED"
	EventUserDeleted EventType = "USER_DELETED"
)

// UserEvent is published to the users topic after every successful write.
// It is transient: constructed, published, never stored.
type UserEvent struct {
	UserDetails
	EventType EventType `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserEvent builds an event for the given transition, stamped now.
func NewUserEvent(eventType EventType, user UserDetails) UserEvent {
	return UserEvent{
		UserDetails: user,
		EventType:   eventType,
		Timestamp:   time.Now().UTC(),
	}
}
