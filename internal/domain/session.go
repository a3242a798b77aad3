package domain

import "time"

// User is the identity attached to a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is issued by the auth backend.
// The dashboard only ever reads it.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// ExpiresWithin reports whether the access token expires before now+d.
func (s *Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	return s != nil && !now.Add(d).Before(s.ExpiresAt)
}

// Account is the stored form of a user.
// PasswordHash is empty for accounts created through an OAuth provider.
type Account struct {
	User
	PasswordHash string    `json:"password_hash,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
