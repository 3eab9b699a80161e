package model

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// ReceiptStore defines persistence operations for receipts. Lookups are
// always scoped by owner: a receipt belonging to another user behaves as
// if it did not exist.
type ReceiptStore interface {
	Create(ctx context.Context, receipt Receipt) (Receipt, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (Receipt, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Receipt, error)
	Update(ctx context.Context, receipt Receipt) error
	Delete(ctx context.Context, userID uuid.UUID, id int64) error
}

// Receipt represents a stored expense receipt.
type Receipt struct {
	ID          int64
	UserID      uuid.UUID
	Provider    string
	Title       string
	ReceiptType string
	Comments    string
	Amount      float64
	Badge       string
	ReceiptDate time.Time
	ReceiptImg  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReceiptView is the outbound representation of a receipt. The image key
// is expanded to a public URL; empty stays empty.
type ReceiptView struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Provider    string    `json:"provider"`
	Title       string    `json:"title"`
	ReceiptType string    `json:"receiptType"`
	Comments    string    `json:"comments"`
	Amount      float64   `json:"amount"`
	Badge       string    `json:"badge"`
	ReceiptDate time.Time `json:"receiptDate"`
	ReceiptImg  string    `json:"receiptImg"`
}

// ImageUpload carries an inbound image attachment.
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ReceiptParams contains the fields accepted by receipt create and update.
type ReceiptParams struct {
	UserID      uuid.UUID
	Provider    string
	Title       string
	ReceiptType string
	Comments    string
	Amount      float64
	Badge       string
	ReceiptDate time.Time
	Image       *ImageUpload
}
