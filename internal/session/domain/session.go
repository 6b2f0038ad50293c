package domain

import "time"

// Session is a server-side record of an issued access token. Logout revokes
// the session; a revoked session invalidates its token even before expiry.
type Session struct {
	ID        string
	UserID    string
	TokenJTI  string
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Revoked reports whether the session has been revoked.
func (s *Session) Revoked() bool {
	return s.RevokedAt != nil
}
