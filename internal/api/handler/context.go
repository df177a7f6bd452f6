package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-system/internal/api/middleware"
	"github.com/99minutos/auth-system/internal/core/domain"
)

// UserHandlerFunc is a handler that receives the authenticated user id as an
// argument instead of reading it from request state.
type UserHandlerFunc func(c echo.Context, userID int64) error

// WithUser adapts fn to an echo.HandlerFunc. It must sit behind
// middleware.RequireAuth; a request without a resolved user is rejected.
func WithUser(fn UserHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := middleware.UserIDFromContext(c.Request().Context())
		if !ok {
			return domain.ErrUnauthenticated
		}
		return fn(c, userID)
	}
}
