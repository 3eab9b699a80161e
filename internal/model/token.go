package model

import "github.com/google/uuid"

// TokenManager issues and verifies signed session tokens.
type TokenManager interface {
	Issue(userID uuid.UUID, email string) (string, error)
	Verify(token string) (Identity, error)
}

// Identity is the authenticated caller established by the auth gate and
// trusted by every downstream operation for the rest of the request.
type Identity struct {
	UserID uuid.UUID
	Email  string
}
