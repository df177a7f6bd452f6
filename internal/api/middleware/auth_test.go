package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-system/internal/core/domain"
)

type stubValidator struct {
	userID int64
	err    error
	seen   string
}

func (s *stubValidator) Validate(_ context.Context, authorization string) (int64, error) {
	s.seen = authorization
	return s.userID, s.err
}

func TestRequireAuth_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok_abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	v := &stubValidator{userID: 7}
	called := false
	handler := RequireAuth(v)(func(c echo.Context) error {
		called = true
		id, ok := UserIDFromContext(c.Request().Context())
		if !ok || id != 7 {
			t.Fatalf("expected user 7 in context, got %d (ok=%v)", id, ok)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if v.seen != "Bearer tok_abc" {
		t.Fatalf("header not forwarded verbatim: %q", v.seen)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	v := &stubValidator{userID: 7}
	handler := RequireAuth(v)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if v.seen != "" {
		t.Fatalf("validator should not be called without a header")
	}
}

func TestRequireAuth_PropagatesValidatorError(t *testing.T) {
	for _, want := range []error{domain.ErrUnauthenticated, domain.ErrUpstreamAuthFailure} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		c := e.NewContext(req, httptest.NewRecorder())

		handler := RequireAuth(&stubValidator{err: want})(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})

		if err := handler(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Fatalf("expected no user id")
	}
}
