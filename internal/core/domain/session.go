package domain

import "time"

// SessionTTL is the fixed lifetime of a session from creation.
const SessionTTL = 24 * time.Hour

// Session is a login session. Sessions are never revoked or swept;
// expiry is checked only at lookup time.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiredAt reports whether the session is past its expiry at now.
func (s *Session) ExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
