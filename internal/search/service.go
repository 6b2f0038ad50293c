// Package search implements the directory search over registered users and
// the global pool of saved contacts, with spam likelihood and conditional
// email disclosure on every result.
package search

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	contactdomain "truedial/internal/contact/domain"
	"truedial/internal/spam"
	userdomain "truedial/internal/user/domain"
)

// minQueryLength is the shortest name query that produces results, in runes.
const minQueryLength = 2

const (
	rankPrefix   = 1
	rankContains = 2
)

// UserDirectory is the slice of the user store the search engine needs.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByPhone(ctx context.Context, phone string) (*userdomain.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*userdomain.User, error)
	SearchByName(ctx context.Context, q string) ([]*userdomain.User, error)
}

// ContactDirectory is the slice of the contact store the search engine needs.
// Contact search is global: it spans every user's phone book.
type ContactDirectory interface {
	SearchByName(ctx context.Context, q string) ([]*contactdomain.Contact, error)
	ListByPhone(ctx context.Context, phone string) ([]*contactdomain.Contact, error)
	OwnerHasPhone(ctx context.Context, ownerID, phone string) (bool, error)
}

// ReportCounter provides batched spam report counts.
type ReportCounter interface {
	CountByPhones(ctx context.Context, phones []string) (map[string]int, error)
}

// Result is one search hit. Email is "" unless the disclosure policy allows
// showing it to the requester.
type Result struct {
	Name           string
	PhoneNumber    string
	SpamLikelihood float64
	Email          string
	IsRegistered   bool
}

// Service answers name and phone searches on behalf of a registered user.
type Service struct {
	users    UserDirectory
	contacts ContactDirectory
	reports  ReportCounter
}

// NewService returns a search service over the given directories.
func NewService(users UserDirectory, contacts ContactDirectory, reports ReportCounter) *Service {
	return &Service{users: users, contacts: contacts, reports: reports}
}

// candidate is an intermediate hit before dedupe, scoring and disclosure.
// registered reports whether the hit resolves to a registered account, either
// directly or through a contact's stored link.
type candidate struct {
	name       string
	phone      string
	rank       int
	registered bool
	// userID is the registered account behind the hit: the user itself for
	// identity hits, the stored link for contact hits ("" when unlinked).
	userID string
}

// ByName searches registered users and all saved contacts whose name matches
// the query. Prefix matches rank ahead of substring matches; a registered
// user and a contact with the same (name, phone) collapse into the
// registered hit.
func (s *Service) ByName(ctx context.Context, requesterID, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return []Result{}, nil
	}

	users, err := s.users.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contacts.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	registeredPhones := make(map[string]bool, len(users))
	candidates := make([]candidate, 0, len(users)+len(contacts))
	for _, u := range users {
		registeredPhones[u.PhoneNumber] = true
		candidates = append(candidates, candidate{
			name:       u.Name,
			phone:      u.PhoneNumber,
			rank:       rankFor(u.Name, lowered),
			registered: true,
			userID:     u.ID,
		})
	}

	// Suppression compares the saved name against the name of the account the
	// contact is linked to, which can differ from the current owner of the
	// phone number when the link is stale.
	linkedNames, err := s.linkedNames(ctx, registeredPhones, contacts)
	if err != nil {
		return nil, err
	}
	for _, c := range contacts {
		// A contact that mirrors a registered hit exactly (same phone, linked,
		// and saved under the linked account's name) adds nothing; drop it.
		if registeredPhones[c.PhoneNumber] && c.RegisteredUserID != "" {
			if name, ok := linkedNames[c.RegisteredUserID]; ok && name == c.Name {
				continue
			}
		}
		candidates = append(candidates, candidate{
			name:       c.Name,
			phone:      c.PhoneNumber,
			rank:       rankFor(c.Name, lowered),
			registered: c.RegisteredUserID != "",
			userID:     c.RegisteredUserID,
		})
	}

	candidates = dedupe(candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.phone < b.phone
	})

	return s.finalize(ctx, requesterID, candidates)
}

// ByPhone searches by exact phone number. A registered account owning the
// number is the sole result; otherwise every contact saved under that number
// is returned.
func (s *Service) ByPhone(ctx context.Context, requesterID, number string) ([]Result, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return []Result{}, nil
	}

	u, err := s.users.GetByPhone(ctx, number)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return s.finalize(ctx, requesterID, []candidate{{
			name:       u.Name,
			phone:      u.PhoneNumber,
			registered: true,
			userID:     u.ID,
		}})
	}

	contacts, err := s.contacts.ListByPhone(ctx, number)
	if err != nil {
		return nil, err
	}
	candidates := make([]candidate, 0, len(contacts))
	for _, c := range contacts {
		candidates = append(candidates, candidate{
			name:       c.Name,
			phone:      c.PhoneNumber,
			registered: c.RegisteredUserID != "",
			userID:     c.RegisteredUserID,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.name != b.name {
			return a.name < b.name
		}
		return a.phone < b.phone
	})
	return s.finalize(ctx, requesterID, candidates)
}

// linkedNames returns the current names of the accounts linked from contacts
// whose phone already matched a registered hit, keyed by account id. Only
// those contacts can be suppressed, so only their links are resolved.
func (s *Service) linkedNames(ctx context.Context, registeredPhones map[string]bool, contacts []*contactdomain.Contact) (map[string]string, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, c := range contacts {
		if registeredPhones[c.PhoneNumber] && c.RegisteredUserID != "" && !seen[c.RegisteredUserID] {
			seen[c.RegisteredUserID] = true
			ids = append(ids, c.RegisteredUserID)
		}
	}
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	linked, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range linked {
		names[u.ID] = u.Name
	}
	return names, nil
}

func rankFor(name, loweredQuery string) int {
	if strings.HasPrefix(strings.ToLower(name), loweredQuery) {
		return rankPrefix
	}
	return rankContains
}

// dedupe collapses candidates sharing (name, phone), keeping the registered
// one over the unregistered, then the lower rank.
func dedupe(candidates []candidate) []candidate {
	type key struct{ name, phone string }
	best := make(map[key]int, len(candidates))
	out := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		k := key{c.name, c.phone}
		i, seen := best[k]
		if !seen {
			best[k] = len(out)
			out = append(out, c)
			continue
		}
		kept := out[i]
		if (c.registered && !kept.registered) ||
			(c.registered == kept.registered && c.rank < kept.rank) {
			out[i] = c
		}
	}
	return out
}

// finalize attaches spam likelihoods and applies the email disclosure policy.
func (s *Service) finalize(ctx context.Context, requesterID string, candidates []candidate) ([]Result, error) {
	results := make([]Result, 0, len(candidates))
	if len(candidates) == 0 {
		return results, nil
	}

	phones := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if !seen[c.phone] {
			seen[c.phone] = true
			phones = append(phones, c.phone)
		}
	}
	counts, err := s.reports.CountByPhones(ctx, phones)
	if err != nil {
		return nil, err
	}

	emails, err := s.resolveEmails(ctx, requesterID, candidates)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		results = append(results, Result{
			Name:           c.name,
			PhoneNumber:    c.phone,
			SpamLikelihood: spam.Score(counts[c.phone]),
			Email:          emails[c.userID],
			IsRegistered:   c.registered,
		})
	}
	return results, nil
}

// MayDiscloseEmail reports whether requesterID may see targetID's email:
// only when the target has the requester's phone number saved in their own
// phone book and has an email on file.
func (s *Service) MayDiscloseEmail(ctx context.Context, targetID, requesterID string) (bool, error) {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return false, err
	}
	if target == nil || target.Email == "" {
		return false, nil
	}
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return false, err
	}
	if requester == nil {
		return false, nil
	}
	return s.contacts.OwnerHasPhone(ctx, target.ID, requester.PhoneNumber)
}

// resolveEmails returns, per candidate userID, the email the requester is
// allowed to see. A target's email is disclosed only when the target has the
// requester's phone number in their own phone book.
func (s *Service) resolveEmails(ctx context.Context, requesterID string, candidates []candidate) (map[string]string, error) {
	ids := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.userID != "" && !seen[c.userID] {
			seen[c.userID] = true
			ids = append(ids, c.userID)
		}
	}
	emails := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return emails, nil
	}

	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return emails, nil
	}

	targets, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, target := range targets {
		if target.Email == "" {
			continue
		}
		hasRequester, err := s.contacts.OwnerHasPhone(ctx, target.ID, requester.PhoneNumber)
		if err != nil {
			return nil, err
		}
		if hasRequester {
			emails[target.ID] = target.Email
		}
	}
	return emails, nil
}
