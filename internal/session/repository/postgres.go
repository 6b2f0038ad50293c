package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"truedial/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, token_jti, revoked_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.UserID, s.TokenJTI, s.RevokedAt, s.CreatedAt)
	return err
}

// GetByID returns the session for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	var revokedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, token_jti, revoked_at, created_at FROM sessions WHERE id = $1", id).
		Scan(&s.ID, &s.UserID, &s.TokenJTI, &revokedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if revokedAt.Valid {
		s.RevokedAt = &revokedAt.Time
	}
	return &s, nil
}

// Revoke marks the session revoked. Already-revoked sessions keep their
// original revocation time.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL",
		id, time.Now().UTC())
	return err
}
