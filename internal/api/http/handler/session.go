package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/recibo/receipts-server/internal/api/http/middleware"
	"github.com/recibo/receipts-server/internal/logger"
)

// SessionService manages the login/refresh/sign-out lifecycle.
type SessionService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Refresh(ctx context.Context, token string) (string, error)
	SignOut(ctx context.Context, userID uuid.UUID) error
}

// Session handles the session token endpoints.
type Session struct {
	service SessionService
	logger  *logger.Logger
}

func NewSession(service SessionService, logger *logger.Logger) *Session {
	return &Session{
		service: service,
		logger:  logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a fresh session token.
func (h *Session) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "¡Email or password invalid!", nil)
	}

	token, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return handleError(c, h.logger, err, "")
	}

	return respond(c, fiber.StatusOK, "¡OK!", token)
}

type refreshRequest struct {
	Token string `json:"token"`
}

// Refresh exchanges the current live token for a new one.
func (h *Session) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" {
		return respond(c, fiber.StatusBadRequest, "¡Refresh token not provided!", nil)
	}

	token, err := h.service.Refresh(c.Context(), req.Token)
	if err != nil {
		return handleError(c, h.logger, err, "")
	}

	return respond(c, fiber.StatusOK, "¡OK!", token)
}

// SignOut closes the caller's session.
func (h *Session) SignOut(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	if err := h.service.SignOut(c.Context(), identity.UserID); err != nil {
		return handleError(c, h.logger, err, "")
	}

	return respond(c, fiber.StatusOK, "¡Session close successfully!", nil)
}
