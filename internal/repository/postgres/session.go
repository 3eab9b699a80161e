package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/recibo/receipts-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

func (r *SessionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Session, error) {
	var session model.Session
	query := `SELECT id, user_id, token, created_at, updated_at
			  FROM sessions WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&session.ID, &session.UserID, &session.Token, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by user id: %w", err)
	}

	return session, nil
}

// Upsert overwrites the user's session token atomically. The unique
// constraint on user_id is what closes the concurrent-login race.
func (r *SessionRepository) Upsert(ctx context.Context, userID uuid.UUID, token string) error {
	query := `INSERT INTO sessions (user_id, token, created_at, updated_at)
			  VALUES ($1, $2, NOW(), NOW())
			  ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	return nil
}

func (r *SessionRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE sessions SET token = '', updated_at = NOW() WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}
