package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/recibo/receipts-server/internal/api/http/middleware"
	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
)

// ReceiptService manages receipt records and their images.
type ReceiptService interface {
	Create(ctx context.Context, params model.ReceiptParams) (model.ReceiptView, error)
	Get(ctx context.Context, userID uuid.UUID, id int64) (model.ReceiptView, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.ReceiptView, error)
	Update(ctx context.Context, id int64, params model.ReceiptParams) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

// Receipt handles the receipt endpoints.
type Receipt struct {
	service ReceiptService
	logger  *logger.Logger
}

func NewReceipt(service ReceiptService, logger *logger.Logger) *Receipt {
	return &Receipt{
		service: service,
		logger:  logger,
	}
}

const receiptNotFound = "¡Could not found the receipt with id provided!"

// receiptDate accepts RFC 3339 or plain dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseReceiptDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// List returns all the caller's receipts, newest first.
func (h *Receipt) List(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	views, err := h.service.List(c.Context(), identity.UserID)
	if err != nil {
		return handleError(c, h.logger, err, receiptNotFound)
	}

	return respond(c, fiber.StatusOK, "¡OK!", views)
}

// Get returns a single receipt owned by the caller.
func (h *Receipt) Get(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	rawID := c.Query("id")
	if rawID == "" {
		return respond(c, fiber.StatusBadRequest, "¡You must provide the id for search a receipt!", nil)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "The id does not have a valid format", nil)
	}

	view, err := h.service.Get(c.Context(), identity.UserID, id)
	if err != nil {
		return handleError(c, h.logger, err, receiptNotFound)
	}

	return respond(c, fiber.StatusOK, "¡OK!", view)
}

// Create stores a new receipt from a multipart form with an optional
// image attachment.
func (h *Receipt) Create(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	params, closeImage, err := h.formParams(c, identity.UserID)
	if err != nil {
		return handleError(c, h.logger, err, receiptNotFound)
	}
	defer closeImage()

	if _, err := h.service.Create(c.Context(), params); err != nil {
		return handleError(c, h.logger, err, receiptNotFound)
	}

	return respond(c, fiber.StatusCreated, "¡Receipt created successfully!", nil)
}

// Update overwrites an existing receipt owned by the caller.
func (h *Receipt) Update(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	rawID := c.FormValue("id")
	if rawID == "" {
		return respond(c, fiber.StatusBadRequest, "¡You must provide the id for search a receipt!", nil)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "The id does not have a valid format", nil)
	}

	params, closeImage, err := h.formParams(c, identity.UserID)
	if err != nil {
		return handleError(c, h.logger, err, receiptNotFound)
	}
	defer closeImage()

	if err := h.service.Update(c.Context(), id, params); err != nil {
		return handleError(c, h.logger, err, receiptNotFound)
	}

	return respond(c, fiber.StatusOK, "¡Receipt update successfully!", nil)
}

// Delete removes a receipt owned by the caller.
func (h *Receipt) Delete(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return respond(c, fiber.StatusForbidden, "¡Invalid token!", nil)
	}

	rawID := c.Query("id")
	if rawID == "" {
		return respond(c, fiber.StatusBadRequest, "¡You must provide the id for delete a receipt!", nil)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "The id does not have a valid format", nil)
	}

	if err := h.service.Delete(c.Context(), identity.UserID, id); err != nil {
		return handleError(c, h.logger, err, receiptNotFound)
	}

	return respond(c, fiber.StatusOK, "¡Receipt delete successfully!", nil)
}

// formParams assembles receipt parameters from the multipart form.
// Amount and date failures surface as field validation errors.
func (h *Receipt) formParams(c *fiber.Ctx, userID uuid.UUID) (model.ReceiptParams, func(), error) {
	noop := func() {}

	amount, err := strconv.ParseFloat(c.FormValue("amount"), 64)
	if err != nil {
		return model.ReceiptParams{}, noop,
			model.NewValidationError("The amount was not provided or does not have a valid format")
	}

	receiptDate, ok := parseReceiptDate(c.FormValue("receiptDate"))
	if !ok {
		return model.ReceiptParams{}, noop,
			model.NewValidationError("The receiptDate was not provided or does not have a valid format")
	}

	image, closeImage, err := formImage(c, "receiptImg")
	if err != nil {
		return model.ReceiptParams{}, noop, err
	}

	return model.ReceiptParams{
		UserID:      userID,
		Provider:    c.FormValue("provider"),
		Title:       c.FormValue("title"),
		ReceiptType: c.FormValue("receiptType"),
		Comments:    c.FormValue("comments"),
		Amount:      amount,
		Badge:       c.FormValue("badge"),
		ReceiptDate: receiptDate,
		Image:       image,
	}, closeImage, nil
}
