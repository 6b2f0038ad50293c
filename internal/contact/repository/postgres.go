package repository

import (
	"context"
	"database/sql"
	"errors"

	"truedial/internal/contact/domain"
	"truedial/internal/db"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a contact repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const contactColumns = "id, owner_id, name, phone_number, registered_user_id, created_at, updated_at"

func (r *PostgresRepository) Create(ctx context.Context, c *domain.Contact) error {
	linked := sql.NullString{String: c.RegisteredUserID, Valid: c.RegisteredUserID != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, owner_id, name, phone_number, registered_user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.OwnerID, c.Name, c.PhoneNumber, linked, c.CreatedAt, c.UpdatedAt)
	return err
}

// ListByOwner returns the owner's contacts ordered by name.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE owner_id = $1 ORDER BY name", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContacts(rows)
}

// ListByPhone returns contacts with the given phone number across all owners.
func (r *PostgresRepository) ListByPhone(ctx context.Context, phone string) ([]*domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE phone_number = $1 ORDER BY name", phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContacts(rows)
}

// SearchByName returns contacts whose name case-insensitively contains q,
// across all owners, ordered by name.
func (r *PostgresRepository) SearchByName(ctx context.Context, q string) ([]*domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE name ILIKE '%' || $1 || '%' ORDER BY name",
		db.EscapeLike(q))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContacts(rows)
}

// OwnerHasPhone reports whether ownerID's phone book contains the phone number.
func (r *PostgresRepository) OwnerHasPhone(ctx context.Context, ownerID, phone string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM contacts WHERE owner_id = $1 AND phone_number = $2)",
		ownerID, phone).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanContacts(rows *sql.Rows) ([]*domain.Contact, error) {
	var out []*domain.Contact
	for rows.Next() {
		var c domain.Contact
		var linked sql.NullString
		err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.PhoneNumber, &linked, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return out, nil
			}
			return nil, err
		}
		if linked.Valid {
			c.RegisteredUserID = linked.String
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
