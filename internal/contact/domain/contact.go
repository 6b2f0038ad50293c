package domain

import (
	"errors"
	"time"
)

// Contact is an entry in one user's personal phone book. RegisteredUserID
// links the entry to a registered account when the phone number belonged to
// one at the time the contact was saved ("" means unlinked). The link is a
// snapshot; it is not re-resolved when accounts appear or disappear later.
type Contact struct {
	ID               string
	OwnerID          string
	Name             string
	PhoneNumber      string
	RegisteredUserID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate validates the contact for persistence.
func (c *Contact) Validate() error {
	if c.OwnerID == "" {
		return errors.New("owner id is required")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.PhoneNumber == "" {
		return errors.New("phone number is required")
	}
	return nil
}
