package entity

import (
	"time"

	"github.com/google/uuid"
)

// GuestInvitation is one roster entry of a private event. Email is
// unique per event and compared case-insensitively.
type GuestInvitation struct {
	BaseSimple
	EventID     uuid.UUID `db:"event_id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Phone       string    `db:"phone"`
	HasAccessed bool      `db:"has_accessed"`
	AddedAt     time.Time `db:"added_at"`
}
