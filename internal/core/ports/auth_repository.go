package ports

import (
	"context"

	"github.com/99minutos/auth-system/internal/core/domain"
)

// UserRepository is the credential store.
//
// Create returns domain.ErrDuplicateUsername when the username is taken.
// FindByUsername returns domain.ErrUserNotFound when no row matches.
type UserRepository interface {
	Create(ctx context.Context, username, secret string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Ping(ctx context.Context) error
}
