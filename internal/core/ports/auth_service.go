package ports

import (
	"context"

	"github.com/99minutos/auth-system/internal/core/domain"
)

// ClientInfo carries request metadata that ends up in the audit trail.
type ClientInfo struct {
	RemoteIP string
}

type AuthService interface {
	Register(ctx context.Context, username, secret string, info ClientInfo) (*domain.PublicUser, error)
	Login(ctx context.Context, username, secret string, info ClientInfo) (*domain.Session, error)
	Validate(ctx context.Context, authorization string) (domain.Resolution, error)
	Logout(ctx context.Context, authorization string, info ClientInfo) error
}

// TokenRegistry is the process-local authority on live tokens.
type TokenRegistry interface {
	Mint(userID int64) (domain.Token, error)
	Lookup(value string) (int64, bool)
	Revoke(value string) bool
}

// AuditSink accepts audit events without blocking the caller.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}
