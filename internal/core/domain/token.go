package domain

import "time"

// Token is an opaque bearer credential held by the token registry.
// A zero ExpiresAt means the token never expires.
type Token struct {
	Value     string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Session is the result of a successful login.
type Session struct {
	Token string
	User  PublicUser
}

// Resolution is the answer to "is this token valid, and for which user".
type Resolution struct {
	Valid  bool  `json:"valid"`
	UserID int64 `json:"userId,omitempty"`
}
