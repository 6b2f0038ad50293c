package repository

import (
	"context"

	"truedial/internal/contact/domain"
)

// Repository defines persistence for contacts. Phone matching is exact-string
// against stored values; no normalization is applied.
type Repository interface {
	Create(ctx context.Context, c *domain.Contact) error
	// ListByOwner returns the owner's contacts ordered by name.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Contact, error)
	// ListByPhone returns contacts with the given phone number across all
	// owners' phone books.
	ListByPhone(ctx context.Context, phone string) ([]*domain.Contact, error)
	// SearchByName returns contacts whose name case-insensitively contains q,
	// across all owners, ordered by name. Callers compute ranking themselves.
	SearchByName(ctx context.Context, q string) ([]*domain.Contact, error)
	// OwnerHasPhone reports whether ownerID's phone book contains an entry with
	// the given phone number.
	OwnerHasPhone(ctx context.Context, ownerID, phone string) (bool, error)
}
