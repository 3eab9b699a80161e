package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
)

// handleError converts a service error into the uniform response.
// notFoundMessage is the endpoint-specific wording for missing resources.
func handleError(c *fiber.Ctx, log *logger.Logger, err error, notFoundMessage string) error {
	var validationErr *model.ValidationError

	switch {
	case errors.As(err, &validationErr):
		return respond(c, fiber.StatusBadRequest, validationErr.Error(), nil)
	case errors.Is(err, model.ErrInvalidCredentials):
		return respond(c, fiber.StatusBadRequest, "¡Email or password invalid!", nil)
	case errors.Is(err, model.ErrEmailTaken):
		return respond(c, fiber.StatusBadRequest, "¡The email provided is already register!", nil)
	case errors.Is(err, model.ErrAmountNegative):
		return respond(c, fiber.StatusBadRequest, "¡The amount cannot be less than 0!", nil)
	case errors.Is(err, model.ErrPasswordMismatch):
		return respond(c, fiber.StatusBadRequest, "¡The passwords provided does not have the same value!", nil)
	case errors.Is(err, model.ErrStaleToken):
		return respond(c, fiber.StatusForbidden, "¡Could not updated the session token!", nil)
	case errors.Is(err, model.ErrTokenMissing):
		return respond(c, fiber.StatusForbidden, "¡Token not found!", nil)
	case errors.Is(err, model.ErrTokenInvalid):
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	case errors.Is(err, model.ErrNotFound):
		return respond(c, fiber.StatusNotFound, notFoundMessage, nil)
	default:
		log.Error("request failed", "error", err.Error())
		return respond(c, fiber.StatusInternalServerError, "¡Server error!", nil)
	}
}
