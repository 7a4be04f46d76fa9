package entity

import "time"

// UserEventType is the AMQP message type of a user lifecycle event.
type UserEventType string

const (
	UserCreated UserEventType = "user.created"
	UserUpdated UserEventType = "user.updated"
	UserDeleted UserEventType = "user.deleted"
)

// UserEvent is the JSON payload published after a successful write.
// Deleted events only carry UserID.
type UserEvent struct {
	Type       UserEventType `json:"type"`
	UserID     int           `json:"user_id"`
	Email      string        `json:"email,omitempty"`
	FirstName  string        `json:"first_name,omitempty"`
	LastName   string        `json:"last_name,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewUserEvent builds an event from u; u may be nil for deletions.
func NewUserEvent(t UserEventType, id int, u *User, at time.Time) UserEvent {
	ev := UserEvent{Type: t, UserID: id, OccurredAt: at.UTC()}
	if u != nil {
		ev.FirstName = u.FirstName
		ev.LastName = u.LastName
		if u.Email != nil {
			ev.Email = u.Email.Email
		}
	}
	return ev
}
