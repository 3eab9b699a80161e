package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
	"github.com/recibo/receipts-server/internal/validation"
)

// Session manages the login/refresh/sign-out lifecycle. A user has at most
// one live token, tracked server-side; issuing a new one invalidates the
// previous one on the very next request.
type Session struct {
	users    model.UserStore
	sessions model.SessionStore
	tokens   model.TokenManager
	validate *validation.Validator
	logger   *logger.Logger
}

func NewSession(
	users model.UserStore,
	sessions model.SessionStore,
	tokens model.TokenManager,
	validate *validation.Validator,
	logger *logger.Logger,
) *Session {
	return &Session{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		validate: validate,
		logger:   logger,
	}
}

// neutralName satisfies the validator's fullName requirement on flows that
// only carry credentials.
const neutralName = "A"

// Login verifies the credentials and issues a fresh session token,
// overwriting any previous session. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Session) Login(ctx context.Context, email, password string) (string, error) {
	s.logger.Debug("Session service: starting login", "email", email)

	if err := s.validate.ValidateUser(validation.UserFields{
		FullName: neutralName,
		Email:    email,
		Password: password,
	}); err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	if err := s.sessions.Upsert(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("Session service: login completed", "user_id", user.ID)

	return token, nil
}

// Refresh exchanges a still-current token for a fresh one. A token that no
// longer matches the stored session is stale and rejected.
func (s *Session) Refresh(ctx context.Context, presented string) (string, error) {
	ident, err := s.tokens.Verify(presented)
	if err != nil {
		return "", model.ErrStaleToken
	}

	session, err := s.sessions.GetByUserID(ctx, ident.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrStaleToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(session.Token), []byte(presented)) != 1 {
		return "", model.ErrStaleToken
	}

	token, err := s.tokens.Issue(ident.UserID, ident.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	if err := s.sessions.Upsert(ctx, ident.UserID, token); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("Session service: token refreshed", "user_id", ident.UserID)

	return token, nil
}

// SignOut clears the stored token. The session row is kept so the sign-out
// state survives until the next login.
func (s *Session) SignOut(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.logger.Info("Session service: signed out", "user_id", userID)

	return nil
}

// Authenticate is the auth gate check: verify signature and expiry, then
// require an exact byte match against the stored session token. The stored
// comparison is what revokes old tokens the instant a newer one is issued.
func (s *Session) Authenticate(ctx context.Context, presented string) (model.Identity, error) {
	if presented == "" {
		return model.Identity{}, model.ErrTokenMissing
	}

	ident, err := s.tokens.Verify(presented)
	if err != nil {
		return model.Identity{}, model.ErrTokenInvalid
	}

	session, err := s.sessions.GetByUserID(ctx, ident.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, model.ErrTokenInvalid
	}
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to get session: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(session.Token), []byte(presented)) != 1 {
		return model.Identity{}, model.ErrTokenInvalid
	}

	return ident, nil
}
