package repository

import (
	"context"
	"database/sql"

	"truedial/internal/spam/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a spam report repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

func (r *PostgresRepository) Create(ctx context.Context, rep *domain.Report) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO spam_reports (id, phone_number, reported_by, reported_at)
		 VALUES ($1, $2, $3, $4)`,
		rep.ID, rep.PhoneNumber, rep.ReportedBy, rep.ReportedAt)
	return err
}

// Exists reports whether reporterID already reported phone.
func (r *PostgresRepository) Exists(ctx context.Context, phone, reporterID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM spam_reports WHERE phone_number = $1 AND reported_by = $2)",
		phone, reporterID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// CountByPhone returns the number of distinct reports against phone.
func (r *PostgresRepository) CountByPhone(ctx context.Context, phone string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM spam_reports WHERE phone_number = $1", phone).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// CountByPhones returns report counts for the given phones in one query.
func (r *PostgresRepository) CountByPhones(ctx context.Context, phones []string) (map[string]int, error) {
	counts := make(map[string]int, len(phones))
	if len(phones) == 0 {
		return counts, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT phone_number, COUNT(*) FROM spam_reports
		 WHERE phone_number = ANY($1) GROUP BY phone_number`, phones)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var phone string
		var n int
		if err := rows.Scan(&phone, &n); err != nil {
			return nil, err
		}
		counts[phone] = n
	}
	return counts, rows.Err()
}
