package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	contactdomain "truedial/internal/contact/domain"
	contactrepo "truedial/internal/contact/repository"
	"truedial/internal/db"
	"truedial/internal/phone"
	userrepo "truedial/internal/user/repository"
)

var (
	// ErrNameRequired is returned when the contact name is empty.
	ErrNameRequired = errors.New("contact name is required")
	// ErrInvalidPhoneNumber is returned when a phone number fails format validation.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	// ErrDuplicateContact is returned when the owner already has a contact with
	// the same phone number.
	ErrDuplicateContact = errors.New("contact with this phone number already exists")
)

// Service manages personal phone books. When a contact is added, the phone
// number is checked against the registered-account directory and, on a match,
// the account id is stored on the contact. The link is resolved once, at
// write time.
type Service struct {
	contacts contactrepo.Repository
	users    userrepo.Repository
}

// NewService returns a contact service over the given stores.
func NewService(contacts contactrepo.Repository, users userrepo.Repository) *Service {
	return &Service{contacts: contacts, users: users}
}

// Add saves a contact in the owner's phone book.
func (s *Service) Add(ctx context.Context, ownerID, name, number string) (*contactdomain.Contact, error) {
	name = strings.TrimSpace(name)
	number = strings.TrimSpace(number)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !phone.Valid(number) {
		return nil, ErrInvalidPhoneNumber
	}

	dup, err := s.contacts.OwnerHasPhone(ctx, ownerID, number)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateContact
	}

	registered, err := s.users.GetByPhone(ctx, number)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &contactdomain.Contact{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		PhoneNumber: number,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if registered != nil {
		c.RegisteredUserID = registered.ID
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		// The (owner_id, phone_number) unique index arbitrates concurrent adds.
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateContact
		}
		return nil, err
	}
	return c, nil
}

// List returns the owner's contacts ordered by name.
func (s *Service) List(ctx context.Context, ownerID string) ([]*contactdomain.Contact, error) {
	return s.contacts.ListByOwner(ctx, ownerID)
}

// ImportItem is one entry of a bulk import request.
type ImportItem struct {
	Name        string
	PhoneNumber string
}

// ImportResult reports the outcome for one imported entry.
type ImportResult struct {
	Name        string
	PhoneNumber string
	Created     bool
	Reason      string
}

// Import adds each item in turn. Invalid and duplicate entries are skipped
// with a per-item reason; one bad entry never aborts the batch.
func (s *Service) Import(ctx context.Context, ownerID string, items []ImportItem) ([]ImportResult, error) {
	results := make([]ImportResult, 0, len(items))
	for _, item := range items {
		res := ImportResult{Name: item.Name, PhoneNumber: item.PhoneNumber}
		_, err := s.Add(ctx, ownerID, item.Name, item.PhoneNumber)
		switch {
		case err == nil:
			res.Created = true
		case errors.Is(err, ErrNameRequired),
			errors.Is(err, ErrInvalidPhoneNumber),
			errors.Is(err, ErrDuplicateContact):
			res.Reason = err.Error()
		default:
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
