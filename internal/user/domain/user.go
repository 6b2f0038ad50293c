package domain

import (
	"errors"
	"time"
)

// User is a registered account, keyed by its unique phone number. Email is
// optional but unique across users when present ("" means none on file).
type User struct {
	ID           string
	PhoneNumber  string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.PhoneNumber == "" {
		return errors.New("phone number is required")
	}
	if u.Name == "" {
		return errors.New("name is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
