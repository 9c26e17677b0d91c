package model

import "time"

// User is the authenticated account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a live authentication session against the backend.
//
// ProviderToken is the Google OAuth access token granted alongside the
// session when the user signed in through the provider with the calendar
// scope. It is empty for password sign-ins; the rest of the session works
// without it, only the calendar feed stays disconnected.
type Session struct {
	AccessToken   string
	RefreshToken  string
	ProviderToken string
	ExpiresAt     time.Time
	User          User
}

// Expired reports whether the access token's lifetime has passed.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
