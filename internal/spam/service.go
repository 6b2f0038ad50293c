package spam

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"truedial/internal/db"
	"truedial/internal/phone"
	spamdomain "truedial/internal/spam/domain"
	spamrepo "truedial/internal/spam/repository"
	userrepo "truedial/internal/user/repository"
)

var (
	// ErrInvalidPhoneNumber is returned when the reported number fails format validation.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	// ErrAlreadyReported is returned when the reporter already reported this number.
	ErrAlreadyReported = errors.New("you have already reported this number")
	// ErrSelfReport is returned when a user reports their own number.
	ErrSelfReport = errors.New("you cannot report your own number")
)

// reportsForCertainSpam is the report count at which the likelihood saturates at 100.
const reportsForCertainSpam = 10

// Score converts a report count into a spam likelihood between 0 and 100.
// Zero reports scores 0; ten or more score 100; in between the score grows
// linearly, rounded to two decimal places.
func Score(count int) float64 {
	if count <= 0 {
		return 0
	}
	if count >= reportsForCertainSpam {
		return 100
	}
	return math.Round(float64(count)/reportsForCertainSpam*100*100) / 100
}

// Service records spam reports and computes likelihood scores.
type Service struct {
	reports spamrepo.Repository
	users   userrepo.Repository
}

// NewService returns a spam service over the given stores.
func NewService(reports spamrepo.Repository, users userrepo.Repository) *Service {
	return &Service{reports: reports, users: users}
}

// Report flags number as spam on behalf of reporterID. Checks run in order:
// format, duplicate, self-report. Any registered user may report any number,
// including numbers with no account behind them.
func (s *Service) Report(ctx context.Context, reporterID, number string) error {
	number = strings.TrimSpace(number)
	if !phone.Valid(number) {
		return ErrInvalidPhoneNumber
	}

	dup, err := s.reports.Exists(ctx, number, reporterID)
	if err != nil {
		return err
	}
	if dup {
		return ErrAlreadyReported
	}

	reporter, err := s.users.GetByID(ctx, reporterID)
	if err != nil {
		return err
	}
	if reporter != nil && reporter.PhoneNumber == number {
		return ErrSelfReport
	}

	rep := &spamdomain.Report{
		ID:          uuid.NewString(),
		PhoneNumber: number,
		ReportedBy:  reporterID,
		ReportedAt:  time.Now().UTC(),
	}
	if err := rep.Validate(); err != nil {
		return err
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		// The (phone_number, reported_by) unique index arbitrates races between
		// concurrent duplicate reports.
		if db.IsUniqueViolation(err) {
			return ErrAlreadyReported
		}
		return err
	}
	return nil
}

// Likelihood returns the spam likelihood for one phone number.
func (s *Service) Likelihood(ctx context.Context, number string) (float64, error) {
	n, err := s.reports.CountByPhone(ctx, number)
	if err != nil {
		return 0, err
	}
	return Score(n), nil
}

// Likelihoods returns spam likelihoods for a batch of phone numbers. Numbers
// with no reports map to 0.
func (s *Service) Likelihoods(ctx context.Context, numbers []string) (map[string]float64, error) {
	counts, err := s.reports.CountByPhones(ctx, numbers)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(numbers))
	for _, num := range numbers {
		out[num] = Score(counts[num])
	}
	return out, nil
}
