package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque bearer token issued by the external auth
// system; this service only resolves it to a user.
type Session struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Token     uuid.UUID `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
}
