package repository

import (
	"context"

	"truedial/internal/session/domain"
)

// Repository defines persistence for auth sessions.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// GetByID returns the session for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// Revoke marks the session revoked. Revoking an already-revoked session is a no-op.
	Revoke(ctx context.Context, id string) error
}
