package domain

import (
	"errors"
	"time"
)

// Report records that one registered user flagged a phone number as spam.
// Each (phone number, reporter) pair is counted at most once; the target
// number does not have to belong to any account.
type Report struct {
	ID          string
	PhoneNumber string
	ReportedBy  string
	ReportedAt  time.Time
}

// Validate validates the report for persistence.
func (r *Report) Validate() error {
	if r.PhoneNumber == "" {
		return errors.New("phone number is required")
	}
	if r.ReportedBy == "" {
		return errors.New("reporter is required")
	}
	return nil
}
