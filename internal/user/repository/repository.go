package repository

import (
	"context"

	"truedial/internal/user/domain"
)

// Repository defines persistence for registered users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByPhone returns the user whose phone number exactly matches phone. No
	// normalization is applied; matching is exact-string against stored values.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByIDs returns the users for the given ids; missing ids are simply absent
	// from the result.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// SearchByName returns users whose name case-insensitively contains q,
	// ordered by name. Callers compute prefix-vs-substring ranking themselves.
	SearchByName(ctx context.Context, q string) ([]*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// UpdateProfile updates name and email. Phone number is immutable.
	UpdateProfile(ctx context.Context, id, name, email string) error
}
