package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/recibo/receipts-server/internal/api/http/middleware"
	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
)

// AccountService manages user accounts and their profile images.
type AccountService interface {
	Create(ctx context.Context, params model.CreateAccountParams) error
	Get(ctx context.Context, userID uuid.UUID) (model.UserView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, fullName, phoneNumber string, image *model.ImageUpload) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword, newRepeatPassword string) (string, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// User handles the account endpoints.
type User struct {
	service AccountService
	logger  *logger.Logger
}

func NewUser(service AccountService, logger *logger.Logger) *User {
	return &User{
		service: service,
		logger:  logger,
	}
}

// Create registers a new account from a multipart form with an optional
// profile image.
func (h *User) Create(c *fiber.Ctx) error {
	image, closeImage, err := formImage(c, "profileImg")
	if err != nil {
		return handleError(c, h.logger, err, "")
	}
	defer closeImage()

	err = h.service.Create(c.Context(), model.CreateAccountParams{
		FullName:    c.FormValue("fullName"),
		Email:       c.FormValue("email"),
		Password:    c.FormValue("password"),
		PhoneNumber: c.FormValue("phoneNumber"),
		Image:       image,
	})
	if err != nil {
		return handleError(c, h.logger, err, "")
	}

	return respond(c, fiber.StatusCreated, "¡User created successfully!", nil)
}

// Get returns the caller's profile without credential fields.
func (h *User) Get(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	view, err := h.service.Get(c.Context(), identity.UserID)
	if err != nil {
		return handleError(c, h.logger, err, "¡Could not found the user!")
	}

	return respond(c, fiber.StatusOK, "¡OK!", view)
}

// Update changes the caller's name, phone number and optionally the
// profile image.
func (h *User) Update(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	image, closeImage, err := formImage(c, "profileImg")
	if err != nil {
		return handleError(c, h.logger, err, "")
	}
	defer closeImage()

	err = h.service.UpdateProfile(c.Context(), identity.UserID,
		c.FormValue("fullName"), c.FormValue("phoneNumber"), image)
	if err != nil {
		return handleError(c, h.logger, err, "¡Could not found the user!")
	}

	return respond(c, fiber.StatusOK, "¡User update successfully!", nil)
}

type updatePasswordRequest struct {
	NewPassword       string `json:"newPassword"`
	NewRepeatPassword string `json:"newRepeatPassword"`
}

// UpdatePassword overwrites the caller's password and returns the
// replacement session token.
func (h *User) UpdatePassword(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respond(c, fiber.StatusBadRequest, "¡The passwords provided does not have the same value!", nil)
	}

	token, err := h.service.UpdatePassword(c.Context(), identity.UserID, req.NewPassword, req.NewRepeatPassword)
	if err != nil {
		return handleError(c, h.logger, err, "¡Could not found the user!")
	}

	return respond(c, fiber.StatusOK, "¡User password update successfully!", token)
}

// Delete removes the caller's account, receipts included.
func (h *User) Delete(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	if err := h.service.Delete(c.Context(), identity.UserID); err != nil {
		return handleError(c, h.logger, err, "¡Could not found the user!")
	}

	return respond(c, fiber.StatusOK, "¡User delete successfully!", nil)
}
