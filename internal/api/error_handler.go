package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-system/internal/core/domain"
)

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type domainError struct {
	err    error
	status int
	code   string
}

// Order matters only for errors that wrap more than one sentinel.
var domainErrors = []domainError{
	{domain.ErrInvalidRequest, http.StatusBadRequest, "InvalidRequest"},
	{domain.ErrDuplicateUsername, http.StatusBadRequest, "DuplicateUsername"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Unauthenticated"},
	{domain.ErrProductNotFound, http.StatusNotFound, "ProductNotFound"},
	{domain.ErrUpstreamAuthFailure, http.StatusBadGateway, "UpstreamAuthFailure"},
	{domain.ErrStoreUnavailable, http.StatusInternalServerError, "StoreUnavailable"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Hides 5xx details from the client; the request logger records them.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<code>"}.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error) (int, ErrorResponse) {
	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			msg := de.err.Error()
			// Validation detail is safe to show and helps the caller.
			if de.err == domain.ErrInvalidRequest {
				msg = err.Error()
			}
			return de.status, ErrorResponse{Error: msg, Code: de.code}
		}
	}

	// Echo's own errors (router 404/405, rate limiter, body limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ErrorResponse{Error: fmt.Sprintf("%v", he.Message), Code: statusCode(he.Code)}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "Internal"}
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "InvalidRequest"
	case http.StatusUnauthorized:
		return "Unauthenticated"
	case http.StatusTooManyRequests:
		return "RateLimited"
	case http.StatusInternalServerError:
		return "Internal"
	}
	return strings.ReplaceAll(http.StatusText(status), " ", "")
}
