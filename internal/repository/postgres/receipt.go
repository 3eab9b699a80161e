package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/recibo/receipts-server/internal/model"
)

var _ model.ReceiptStore = (*ReceiptRepository)(nil)

type ReceiptRepository struct {
	db *Connection
}

func NewReceiptRepository(db *Connection) *ReceiptRepository {
	return &ReceiptRepository{
		db: db,
	}
}

func (r *ReceiptRepository) Create(ctx context.Context, receipt model.Receipt) (model.Receipt, error) {
	query := `INSERT INTO receipts (user_id, provider, title, receipt_type, comments, amount, badge, receipt_date, receipt_img, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			  RETURNING id, user_id, provider, title, receipt_type, comments, amount, badge, receipt_date, receipt_img, created_at, updated_at`

	var saved model.Receipt
	err := r.db.QueryRow(ctx, query,
		receipt.UserID, receipt.Provider, receipt.Title, receipt.ReceiptType, receipt.Comments,
		receipt.Amount, receipt.Badge, receipt.ReceiptDate, receipt.ReceiptImg,
	).Scan(
		&saved.ID, &saved.UserID, &saved.Provider, &saved.Title, &saved.ReceiptType, &saved.Comments,
		&saved.Amount, &saved.Badge, &saved.ReceiptDate, &saved.ReceiptImg, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("failed to create receipt: %w", err)
	}

	return saved, nil
}

func (r *ReceiptRepository) GetByID(ctx context.Context, userID uuid.UUID, id int64) (model.Receipt, error) {
	var receipt model.Receipt
	query := `SELECT id, user_id, provider, title, receipt_type, comments, amount, badge, receipt_date, receipt_img, created_at, updated_at
			  FROM receipts WHERE user_id = $1 AND id = $2`

	err := r.db.QueryRow(ctx, query, userID, id).Scan(
		&receipt.ID, &receipt.UserID, &receipt.Provider, &receipt.Title, &receipt.ReceiptType, &receipt.Comments,
		&receipt.Amount, &receipt.Badge, &receipt.ReceiptDate, &receipt.ReceiptImg, &receipt.CreatedAt, &receipt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Receipt{}, model.ErrNotFound
		}
		return model.Receipt{}, fmt.Errorf("failed to get receipt by id: %w", err)
	}

	return receipt, nil
}

func (r *ReceiptRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Receipt, error) {
	query := `SELECT id, user_id, provider, title, receipt_type, comments, amount, badge, receipt_date, receipt_img, created_at, updated_at
			  FROM receipts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipts by user id: %w", err)
	}
	defer rows.Close()

	receipts := make([]model.Receipt, 0)
	for rows.Next() {
		var receipt model.Receipt
		err := rows.Scan(
			&receipt.ID, &receipt.UserID, &receipt.Provider, &receipt.Title, &receipt.ReceiptType, &receipt.Comments,
			&receipt.Amount, &receipt.Badge, &receipt.ReceiptDate, &receipt.ReceiptImg, &receipt.CreatedAt, &receipt.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt row: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipt rows: %w", err)
	}

	return receipts, nil
}

func (r *ReceiptRepository) Update(ctx context.Context, receipt model.Receipt) error {
	query := `UPDATE receipts SET provider = $3, title = $4, receipt_type = $5, comments = $6,
			  amount = $7, badge = $8, receipt_date = $9, receipt_img = $10, updated_at = NOW()
			  WHERE user_id = $1 AND id = $2`

	tag, err := r.db.Exec(ctx, query,
		receipt.UserID, receipt.ID, receipt.Provider, receipt.Title, receipt.ReceiptType, receipt.Comments,
		receipt.Amount, receipt.Badge, receipt.ReceiptDate, receipt.ReceiptImg,
	)
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *ReceiptRepository) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	query := `DELETE FROM receipts WHERE user_id = $1 AND id = $2`

	tag, err := r.db.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}
