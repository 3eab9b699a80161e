package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phoneNumber, profileImg string) error
	// RotateCredentials replaces the password hash and the session token
	// in a single transaction, so a failed rotation leaves both the old
	// password and the old token in force.
	RotateCredentials(ctx context.Context, id uuid.UUID, passwordHash, token string) error
}

// AccountPurger removes a user together with all owned rows.
type AccountPurger interface {
	// PurgeUser deletes the user's receipts, session row and user row in
	// one transaction. A missing session row is tolerated.
	PurgeUser(ctx context.Context, id uuid.UUID) error
}

// User represents a stored user account.
type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PasswordHash string
	PhoneNumber  string
	ProfileImg   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateAccountParams contains the fields accepted by account creation.
type CreateAccountParams struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber string
	Image       *ImageUpload
}

// UserView is the outbound representation of a user. The password hash is
// never included and the image key is expanded to a public URL.
type UserView struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	ProfileImg  string    `json:"profileImg"`
}
