// Package authclient lets a dependent service resolve bearer tokens by asking
// the authority's /validate endpoint.
//
// Every call is bounded by the configured timeout. Results are not cached
// unless a Cache is supplied, in which case a positive answer may be served
// for up to the cache TTL after the authority stopped honouring the token.
package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-system/internal/api/metrics"
	"github.com/99minutos/auth-system/internal/core/domain"
)

const (
	defaultTimeout = 3 * time.Second
	maxBodyBytes   = 64 << 10
)

// Cache stores positive validation results keyed by Authorization header.
type Cache interface {
	Get(ctx context.Context, authorization string) (int64, bool, error)
	Set(ctx context.Context, authorization string, userID int64) error
}

// Client calls the authority.
type Client struct {
	validateURL string
	healthURL   string
	timeout     time.Duration
	http        *http.Client
	cache       Cache
	log         zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache enables the validation cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New returns a client for the authority at baseURL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimRight(baseURL, "/")

	c := &Client{
		validateURL: base + "/validate",
		healthURL:   base + "/health",
		timeout:     timeout,
		http:        &http.Client{Timeout: timeout},
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type validateResponse struct {
	Valid  bool   `json:"valid"`
	UserID *int64 `json:"userId"`
}

// Validate forwards the Authorization header value to the authority and
// returns the user it resolves to.
//
// It returns domain.ErrUnauthenticated when the authority rejects the token
// and domain.ErrUpstreamAuthFailure when the authority could not answer.
func (c *Client) Validate(ctx context.Context, authorization string) (int64, error) {
	if authorization == "" {
		return 0, domain.ErrUnauthenticated
	}

	if userID, ok := c.cached(ctx, authorization); ok {
		return userID, nil
	}

	start := time.Now()
	userID, err := c.roundTrip(ctx, authorization)
	metrics.UpstreamValidationDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.UpstreamValidationsTotal.WithLabelValues("valid").Inc()
	case errors.Is(err, domain.ErrUnauthenticated):
		metrics.UpstreamValidationsTotal.WithLabelValues("unauthenticated").Inc()
		return 0, err
	default:
		metrics.UpstreamValidationsTotal.WithLabelValues("upstream_failure").Inc()
		return 0, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, authorization, userID); err != nil {
			c.log.Warn().Err(err).Msg("validation cache write failed")
		}
	}
	return userID, nil
}

func (c *Client) roundTrip(ctx context.Context, authorization string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.validateURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %w", domain.ErrUpstreamAuthFailure, err)
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrUpstreamAuthFailure, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return 0, domain.ErrUnauthenticated
	default:
		return 0, fmt.Errorf("%w: unexpected status %d", domain.ErrUpstreamAuthFailure, resp.StatusCode)
	}

	var body validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: decode response: %w", domain.ErrUpstreamAuthFailure, err)
	}
	if !body.Valid || body.UserID == nil {
		return 0, fmt.Errorf("%w: malformed validation response", domain.ErrUpstreamAuthFailure)
	}
	return *body.UserID, nil
}

func (c *Client) cached(ctx context.Context, authorization string) (int64, bool) {
	if c.cache == nil {
		return 0, false
	}

	userID, ok, err := c.cache.Get(ctx, authorization)
	switch {
	case err != nil:
		metrics.ValidationCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Msg("validation cache read failed")
		return 0, false
	case ok:
		metrics.ValidationCacheTotal.WithLabelValues("hit").Inc()
		return userID, true
	default:
		metrics.ValidationCacheTotal.WithLabelValues("miss").Inc()
		return 0, false
	}
}

// Ping checks that the authority answers its liveness probe.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth service health: status %d", resp.StatusCode)
	}
	return nil
}
