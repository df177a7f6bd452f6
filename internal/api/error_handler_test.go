package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-system/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"invalid request", fmt.Errorf("%w: username is required", domain.ErrInvalidRequest), http.StatusBadRequest, "InvalidRequest", "invalid request: username is required"},
		{"duplicate", domain.ErrDuplicateUsername, http.StatusBadRequest, "DuplicateUsername", "username already exists"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials", "invalid credentials"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "Unauthenticated", "unauthenticated"},
		{"not found", domain.ErrProductNotFound, http.StatusNotFound, "ProductNotFound", "product not found"},
		{"upstream", fmt.Errorf("%w: dial tcp: refused", domain.ErrUpstreamAuthFailure), http.StatusBadGateway, "UpstreamAuthFailure", "auth service unavailable"},
		{"store", domain.ErrStoreUnavailable, http.StatusInternalServerError, "StoreUnavailable", "store unavailable"},
		{"echo 404", echo.ErrNotFound, http.StatusNotFound, "NotFound", "Not Found"},
		{"rate limited", echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded"), http.StatusTooManyRequests, "RateLimited", "rate limit exceeded"},
		{"unknown", errors.New("boom: secret detail"), http.StatusInternalServerError, "Internal", "internal server error"},
	}

	e := echo.New()
	h := NewHTTPErrorHandler()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tc.err, c)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Code != tc.code || resp.Error != tc.msg {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler()(domain.ErrStoreUnavailable, c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("committed response was overwritten: %d", rec.Code)
	}
}
