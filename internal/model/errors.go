package model

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested row does not exist for the caller.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when the email unique constraint is violated.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAmountNegative is returned for receipts with an amount below zero.
	ErrAmountNegative = errors.New("amount cannot be less than 0")
	// ErrPasswordMismatch is returned when the new password and its repeat differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidCredentials is returned on login with an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("email or password invalid")
	// ErrTokenMissing is returned when the auth header carries no token.
	ErrTokenMissing = errors.New("token not found")
	// ErrTokenInvalid is returned for malformed, expired or superseded tokens.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrStaleToken is returned when a refresh is attempted with a superseded token.
	ErrStaleToken = errors.New("stale session token")
)

// ValidationError aggregates field format failures.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ",")
}

// NewValidationError creates a ValidationError from field messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
