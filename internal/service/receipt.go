package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/model"
	"github.com/recibo/receipts-server/internal/validation"
)

// Receipt orchestrates receipt writes with their object-store side
// effects. Uploads happen before the dependent relational write;
// destructive object deletions happen after the relational write is
// durable. An orphaned object is recoverable garbage, a dangling row
// reference is not.
type Receipt struct {
	receipts model.ReceiptStore
	storage  model.Storage
	validate *validation.Validator
	logger   *logger.Logger
}

func NewReceipt(
	receipts model.ReceiptStore,
	storage model.Storage,
	validate *validation.Validator,
	logger *logger.Logger,
) *Receipt {
	return &Receipt{
		receipts: receipts,
		storage:  storage,
		validate: validate,
		logger:   logger,
	}
}

func (s *Receipt) validateParams(params model.ReceiptParams) error {
	fields := validation.ReceiptFields{
		Provider:    params.Provider,
		Title:       params.Title,
		ReceiptType: params.ReceiptType,
		Comments:    params.Comments,
		Badge:       params.Badge,
	}
	if params.Image != nil {
		fields.ReceiptImg = params.Image.FileName
	}
	if err := s.validate.ValidateReceipt(fields); err != nil {
		return err
	}
	// checked after generic validation so the caller sees the dedicated message
	if params.Amount < 0 {
		return model.ErrAmountNegative
	}
	return nil
}

func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Create validates, uploads the image if attached, then inserts the row.
// A failed insert after a successful upload triggers a compensating
// object delete.
func (s *Receipt) Create(ctx context.Context, params model.ReceiptParams) (model.ReceiptView, error) {
	s.logger.Debug("Receipt service: creating receipt", "user_id", params.UserID)

	if err := s.validateParams(params); err != nil {
		return model.ReceiptView{}, err
	}

	imageKey := ""
	if params.Image != nil {
		imageKey = newImageKey("receipts/"+params.UserID.String(), params.Image.FileName)
		err := s.storage.Upload(ctx, imageKey, params.Image.Reader, params.Image.Size, params.Image.ContentType, true)
		if err != nil {
			return model.ReceiptView{}, fmt.Errorf("failed to upload receipt image: %w", err)
		}
	}

	receipt := model.Receipt{
		UserID:      params.UserID,
		Provider:    params.Provider,
		Title:       params.Title,
		ReceiptType: params.ReceiptType,
		Comments:    params.Comments,
		Amount:      round2(params.Amount),
		Badge:       params.Badge,
		ReceiptDate: params.ReceiptDate,
		ReceiptImg:  imageKey,
	}

	saved, err := s.receipts.Create(ctx, receipt)
	if err != nil {
		if imageKey != "" {
			runCleanup(ctx, s.logger, []cleanupStep{
				{name: "compensate receipt image upload", run: func(ctx context.Context) error {
					return s.storage.Delete(ctx, imageKey)
				}},
			})
		}
		return model.ReceiptView{}, fmt.Errorf("failed to create receipt: %w", err)
	}

	s.logger.Info("Receipt service: receipt created", "user_id", params.UserID, "receipt_id", saved.ID)

	return s.view(saved), nil
}

// Get returns one receipt owned by the caller. Receipts of other users
// are invisible, not forbidden.
func (s *Receipt) Get(ctx context.Context, userID uuid.UUID, id int64) (model.ReceiptView, error) {
	receipt, err := s.receipts.GetByID(ctx, userID, id)
	if err != nil {
		return model.ReceiptView{}, err
	}

	return s.view(receipt), nil
}

// List returns the caller's receipts, newest first.
func (s *Receipt) List(ctx context.Context, userID uuid.UUID) ([]model.ReceiptView, error) {
	receipts, err := s.receipts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipts by user id: %w", err)
	}

	views := make([]model.ReceiptView, 0, len(receipts))
	for _, receipt := range receipts {
		views = append(views, s.view(receipt))
	}

	return views, nil
}

// Update replaces the receipt fields. A new image is uploaded before the
// old object is touched, so there is never a window with no stored image;
// without a new image the existing key is preserved.
func (s *Receipt) Update(ctx context.Context, id int64, params model.ReceiptParams) error {
	s.logger.Debug("Receipt service: updating receipt", "user_id", params.UserID, "receipt_id", id)

	if err := s.validateParams(params); err != nil {
		return err
	}

	existing, err := s.receipts.GetByID(ctx, params.UserID, id)
	if err != nil {
		return err
	}

	imageKey := existing.ReceiptImg
	if params.Image != nil {
		imageKey = newImageKey("receipts/"+params.UserID.String(), params.Image.FileName)
		err := s.storage.Upload(ctx, imageKey, params.Image.Reader, params.Image.Size, params.Image.ContentType, true)
		if err != nil {
			return fmt.Errorf("failed to upload receipt image: %w", err)
		}
	}

	updated := model.Receipt{
		ID:          existing.ID,
		UserID:      params.UserID,
		Provider:    params.Provider,
		Title:       params.Title,
		ReceiptType: params.ReceiptType,
		Comments:    params.Comments,
		Amount:      round2(params.Amount),
		Badge:       params.Badge,
		ReceiptDate: params.ReceiptDate,
		ReceiptImg:  imageKey,
	}

	if err := s.receipts.Update(ctx, updated); err != nil {
		if params.Image != nil {
			newKey := imageKey
			runCleanup(ctx, s.logger, []cleanupStep{
				{name: "compensate receipt image upload", run: func(ctx context.Context) error {
					return s.storage.Delete(ctx, newKey)
				}},
			})
		}
		return fmt.Errorf("failed to update receipt: %w", err)
	}

	if params.Image != nil && existing.ReceiptImg != "" {
		oldKey := existing.ReceiptImg
		runCleanup(ctx, s.logger, []cleanupStep{
			{name: "delete replaced receipt image", run: func(ctx context.Context) error {
				return s.storage.Delete(ctx, oldKey)
			}},
		})
	}

	s.logger.Info("Receipt service: receipt updated", "user_id", params.UserID, "receipt_id", id)

	return nil
}

// Delete removes the row, then best-effort deletes the image object. An
// object delete failure never fails the operation: the row is already
// gone and the dangling object is an acceptable leak.
func (s *Receipt) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	receipt, err := s.receipts.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.receipts.Delete(ctx, userID, id); err != nil {
		return err
	}

	if receipt.ReceiptImg != "" {
		runCleanup(ctx, s.logger, []cleanupStep{
			{name: "delete receipt image", run: func(ctx context.Context) error {
				return s.storage.Delete(ctx, receipt.ReceiptImg)
			}},
		})
	}

	s.logger.Info("Receipt service: receipt deleted", "user_id", userID, "receipt_id", id)

	return nil
}

func (s *Receipt) view(receipt model.Receipt) model.ReceiptView {
	return model.ReceiptView{
		ID:          receipt.ID,
		UserID:      receipt.UserID,
		Provider:    receipt.Provider,
		Title:       receipt.Title,
		ReceiptType: receipt.ReceiptType,
		Comments:    receipt.Comments,
		Amount:      receipt.Amount,
		Badge:       receipt.Badge,
		ReceiptDate: receipt.ReceiptDate,
		ReceiptImg:  s.storage.PublicURL(receipt.ReceiptImg),
	}
}
