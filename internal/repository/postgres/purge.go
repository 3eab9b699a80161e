package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/recibo/receipts-server/internal/model"
)

var _ model.AccountPurger = (*PurgeRepository)(nil)

// PurgeRepository removes a user and every row the user owns.
type PurgeRepository struct {
	db *Connection
}

func NewPurgeRepository(db *Connection) *PurgeRepository {
	return &PurgeRepository{
		db: db,
	}
}

// PurgeUser deletes receipts, the session row and the user row in one
// transaction. A user that never logged in has no session row; that is
// fine, only the user row itself must exist.
func (r *PurgeRepository) PurgeUser(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM receipts WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete receipts: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user purge: %w", err)
	}

	return nil
}
