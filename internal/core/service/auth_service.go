package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/auth-system/internal/core/domain"
	"github.com/99minutos/auth-system/internal/core/ports"
	"github.com/99minutos/auth-system/pkg/secret"
)

const bearerScheme = "Bearer"

// AuthService implements registration, login and token validation.
type AuthService struct {
	repo     ports.UserRepository
	hasher   secret.Hasher
	registry ports.TokenRegistry
	audit    ports.AuditSink
	log      zerolog.Logger

	// dummySecret is compared against when the username is unknown so that
	// both failure paths cost the same.
	dummySecret string
}

func NewAuthService(
	repo ports.UserRepository,
	hasher secret.Hasher,
	registry ports.TokenRegistry,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	if audit == nil {
		audit = discardAudit{}
	}
	dummy, err := hasher.Hash("timing-equaliser")
	if err != nil {
		log.Warn().Err(err).Msg("could not prepare dummy secret")
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		registry:    registry,
		audit:       audit,
		log:         log,
		dummySecret: dummy,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string, info ports.ClientInfo) (*domain.PublicUser, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidRequest
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash secret: %w", err)
	}

	user, err := s.repo.Create(ctx, username, hashed)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("%w: register %q: %v", domain.ErrStoreUnavailable, username, err)
	}

	s.record(domain.EventRegistered, user.Username, user.ID, info)
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	pub := user.Public()
	return &pub, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string, info ports.ClientInfo) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidRequest
	}

	user, err := s.repo.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.hasher.Compare(s.dummySecret, password)
		s.record(domain.EventLoginFailed, username, 0, info)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("%w: login %q: %v", domain.ErrStoreUnavailable, username, err)
	}

	if !s.hasher.Compare(user.Secret, password) {
		s.record(domain.EventLoginFailed, username, user.ID, info)
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := s.registry.Mint(user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: mint token for user %d: %w", user.ID, err)
	}

	s.record(domain.EventLoginSucceeded, user.Username, user.ID, info)

	return &domain.Session{Token: tok.Value, User: user.Public()}, nil
}

// Validate resolves the user behind an Authorization header value. Every
// invalid presentation yields domain.ErrUnauthenticated.
func (s *AuthService) Validate(_ context.Context, authorization string) (domain.Resolution, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return domain.Resolution{}, domain.ErrUnauthenticated
	}

	userID, ok := s.registry.Lookup(token)
	if !ok {
		return domain.Resolution{}, domain.ErrUnauthenticated
	}
	return domain.Resolution{Valid: true, UserID: userID}, nil
}

// Logout revokes the presented token.
func (s *AuthService) Logout(_ context.Context, authorization string, info ports.ClientInfo) error {
	token, ok := BearerToken(authorization)
	if !ok {
		return domain.ErrUnauthenticated
	}

	userID, ok := s.registry.Lookup(token)
	if !ok || !s.registry.Revoke(token) {
		return domain.ErrUnauthenticated
	}

	s.record(domain.EventLogout, "", userID, info)
	return nil
}

// BearerToken strips the Bearer scheme from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *AuthService) record(kind domain.AuthEventKind, username string, userID int64, info ports.ClientInfo) {
	s.audit.Enqueue(domain.AuthEvent{
		ID:       uuid.NewString(),
		Kind:     kind,
		Username: username,
		UserID:   userID,
		RemoteIP: info.RemoteIP,
		At:       time.Now().UTC(),
	})
}

type discardAudit struct{}

func (discardAudit) Enqueue(domain.AuthEvent) {}
