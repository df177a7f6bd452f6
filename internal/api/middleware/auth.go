package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-system/internal/core/domain"
)

// TokenValidator resolves an Authorization header value to a user id.
type TokenValidator interface {
	Validate(ctx context.Context, authorization string) (int64, error)
}

type userIDKey struct{}

// RequireAuth forwards the caller's Authorization header to v and lets the
// request through only when it resolves to a user. The resolved id is placed
// in the request context; nothing from the request itself is trusted for it.
//
// Errors are returned untouched so the error handler can tell a rejected
// token (401) from an unreachable authority (502).
func RequireAuth(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			userID, err := v.Validate(c.Request().Context(), authHeader)
			if err != nil {
				return err
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithUserID(req.Context(), userID)))
			return next(c)
		}
	}
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the id stored by RequireAuth.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}
