package repository

import (
	"context"

	"truedial/internal/spam/domain"
)

// Repository defines persistence for spam reports.
type Repository interface {
	Create(ctx context.Context, r *domain.Report) error
	// Exists reports whether reporterID already reported phone.
	Exists(ctx context.Context, phone, reporterID string) (bool, error)
	// CountByPhone returns the number of distinct reports against phone.
	CountByPhone(ctx context.Context, phone string) (int, error)
	// CountByPhones returns report counts for the given phones in one query.
	// Phones with no reports are absent from the result map.
	CountByPhones(ctx context.Context, phones []string) (map[string]int, error)
}
