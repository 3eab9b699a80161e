package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
)

// TokenHeader carries the session token on every protected request.
const TokenHeader = "x-auth-token"

// identityKey is the fiber locals slot holding the authenticated caller.
const identityKey = "identity"

// Authenticator resolves a presented token to the caller it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Identity, error)
}

// Authenticate guards protected routes. It reads the session token header,
// resolves it to an identity and stores that identity in the request
// locals for downstream handlers.
type Authenticate struct {
	auth   Authenticator
	logger *logger.Logger
}

func NewAuthenticate(auth Authenticator, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		auth:   auth,
		logger: logger,
	}
}

// Handle rejects the request with 403 unless the token header resolves to
// a live session.
func (m *Authenticate) Handle(c *fiber.Ctx) error {
	identity, err := m.auth.Authenticate(c.Context(), c.Get(TokenHeader))
	if err != nil {
		if errors.Is(err, model.ErrTokenMissing) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "¡Token not found!",
				"data":    fiber.Map{},
			})
		}
		m.logger.Debug("rejected request token", "error", err.Error())
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "¡Invalid token!",
			"data":    fiber.Map{},
		})
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromCtx returns the caller stored by Handle. The boolean is
// false on routes that did not pass through the auth gate.
func IdentityFromCtx(c *fiber.Ctx) (model.Identity, bool) {
	identity, ok := c.Locals(identityKey).(model.Identity)
	return identity, ok
}
