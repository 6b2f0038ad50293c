package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"truedial/internal/db"
	"truedial/internal/security"
	sessiondomain "truedial/internal/session/domain"
	sessionrepo "truedial/internal/session/repository"
	userdomain "truedial/internal/user/domain"
	userrepo "truedial/internal/user/repository"
)

var (
	// ErrInvalidPhoneNumber is returned when a phone number fails format validation.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	// ErrNameRequired is returned when the profile name is empty.
	ErrNameRequired = errors.New("name is required")
	// ErrWeakPassword is returned when the password is shorter than the minimum.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPhoneAlreadyRegistered is returned when the phone number is taken.
	ErrPhoneAlreadyRegistered = errors.New("phone number already registered")
	// ErrEmailAlreadyRegistered is returned when the email is taken by another user.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials is returned on login with an unknown phone or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

const minPasswordLength = 8

// Service implements registration, login, logout and profile management for
// phone-keyed accounts.
type Service struct {
	users    userrepo.Repository
	sessions sessionrepo.Repository
	hasher   *security.Hasher
	tokens   *security.TokenProvider
}

// NewService returns an auth service wired to the given stores, password
// hasher and token provider.
func NewService(users userrepo.Repository, sessions sessionrepo.Repository, hasher *security.Hasher, tokens *security.TokenProvider) *Service {
	return &Service{users: users, sessions: sessions, hasher: hasher, tokens: tokens}
}

// RegisterInput carries the fields for account creation. Email is optional.
type RegisterInput struct {
	PhoneNumber     string
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new account. Phone numbers are stored as given (after
// trimming surrounding whitespace); uniqueness is exact-string.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*userdomain.User, error) {
	phone := strings.TrimSpace(in.PhoneNumber)
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if !validAccountPhone(phone) {
		return nil, ErrInvalidPhoneNumber
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	existing, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneAlreadyRegistered
	}
	if email != "" {
		byEmail, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if byEmail != nil {
			return nil, ErrEmailAlreadyRegistered
		}
	}

	hash, err := s.hasher.Hash([]byte(in.Password))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &userdomain.User{
		ID:           uuid.NewString(),
		PhoneNumber:  phone,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		// The unique index arbitrates concurrent registrations.
		if db.IsUniqueViolation(err) {
			return nil, ErrPhoneAlreadyRegistered
		}
		return nil, err
	}
	return u, nil
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *userdomain.User
}

// Login verifies credentials, opens a session and issues an access token bound
// to it. Unknown phone and wrong password return the same error.
func (s *Service) Login(ctx context.Context, phone, password string) (*LoginResult, error) {
	u, err := s.users.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	token, jti, expiresAt, err := s.tokens.IssueAccess(sessionID, u.ID)
	if err != nil {
		return nil, err
	}
	sess := &sessiondomain.Session{
		ID:        sessionID,
		UserID:    u.ID,
		TokenJTI:  jti,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// Logout revokes the session. Tokens bound to it stop working immediately.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

// GetProfile returns the user for id.
func (s *Service) GetProfile(ctx context.Context, userID string) (*userdomain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile updates name and email for the user. The phone number cannot
// be changed. Email uniqueness is checked excluding the user themselves.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, email string) (*userdomain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, ErrNameRequired
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if email != "" && email != u.Email {
		byEmail, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if byEmail != nil && byEmail.ID != userID {
			return nil, ErrEmailAlreadyRegistered
		}
	}
	if err := s.users.UpdateProfile(ctx, userID, name, email); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	u.Name = name
	u.Email = email
	return u, nil
}

// validAccountPhone accepts an optional leading + followed by 10 to 15 digits.
func validAccountPhone(phone string) bool {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 10 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
