package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists the single live session per user.
type SessionStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Session, error)
	// Upsert atomically inserts or replaces the user's session token,
	// keyed by the user id unique constraint.
	Upsert(ctx context.Context, userID uuid.UUID, token string) error
	// Clear sets the token to the signed-out sentinel "". The row survives
	// until the owning user is deleted. Clearing a missing row is a no-op.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// Session represents a user's current session token. An empty token means
// the user is signed out.
type Session struct {
	ID        int64
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
