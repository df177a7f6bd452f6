package domain

import "time"

// AuthEventKind names what happened in an audited authentication step.
type AuthEventKind string

const (
	EventRegistered     AuthEventKind = "registered"
	EventLoginSucceeded AuthEventKind = "login_succeeded"
	EventLoginFailed    AuthEventKind = "login_failed"
	EventLogout         AuthEventKind = "logout"
)

// AuthEvent is an audit record. It never carries secrets or token values.
type AuthEvent struct {
	ID       string
	Kind     AuthEventKind
	Username string
	UserID   int64 // zero when the user is unknown
	RemoteIP string
	At       time.Time
}
