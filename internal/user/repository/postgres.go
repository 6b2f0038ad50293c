package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"truedial/internal/db"
	"truedial/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(conn *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

const userColumns = "id, phone_number, name, email, password_hash, created_at, updated_at"

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// GetByPhone returns the user with the given phone number, or nil if not found.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE phone_number = $1", phone)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return scanUser(row)
}

// GetByIDs returns the users for the given ids; missing ids are absent from the result.
func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// SearchByName returns users whose name case-insensitively contains q, ordered by name.
func (r *PostgresRepository) SearchByName(ctx context.Context, q string) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE name ILIKE '%' || $1 || '%' ORDER BY name",
		db.EscapeLike(q))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	email := sql.NullString{String: u.Email, Valid: u.Email != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, phone_number, name, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.PhoneNumber, u.Name, email, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return err
}

// UpdateProfile updates name and email for the given user. Phone number is immutable.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, name, email string) error {
	emailVal := sql.NullString{String: email, Valid: email != ""}
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET name = $2, email = $3, updated_at = $4 WHERE id = $1",
		id, name, emailVal, time.Now().UTC())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var email sql.NullString
	err := row.Scan(&u.ID, &u.PhoneNumber, &u.Name, &email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if email.Valid {
		u.Email = email.String
	}
	return &u, nil
}

func scanUsers(rows *sql.Rows) ([]*domain.User, error) {
	var out []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
