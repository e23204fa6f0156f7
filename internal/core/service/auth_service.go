package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campushire/identity-service/internal/api/metrics"
	"github.com/campushire/identity-service/internal/core/domain"
	"github.com/campushire/identity-service/internal/core/ports"
)

// AuthService orchestrates register, login, and validate against the
// external credential store. It holds no mutable state of its own; all
// shared state lives in the store, and concurrent calls are independent.
type AuthService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(store ports.CredentialStore, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a credential in the store and mints a token for it.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (res *domain.AuthResult, err error) {
	defer func() { metrics.AuthAttemptsTotal.WithLabelValues("register", resultLabel(err)).Inc() }()

	s.log.Debug().Str("username", reg.Username).Msg("registration attempt")

	// Fast-fail probe. Uniqueness is still enforced atomically by the
	// store's own constraint; two concurrent registrations can both pass
	// this check and the store decides the winner.
	_, probeErr := s.store.FetchByUsername(ctx, reg.Username)
	switch {
	case probeErr == nil:
		return nil, domain.ErrUsernameExists
	case errors.Is(classify(probeErr), domain.ErrUserNotFound):
		// Expected path for a genuinely new user.
	default:
		return nil, fmt.Errorf("%w: username probe failed: %v", domain.ErrStoreUnavailable, probeErr)
	}

	if reg.Role == "" {
		reg.Role = domain.RoleStudent
	}

	created, createErr := s.store.Create(ctx, reg)
	if createErr != nil {
		return nil, classify(createErr)
	}
	if created == nil || created.Username == "" {
		return nil, fmt.Errorf("%w: create returned no credential", domain.ErrBadStoreResponse)
	}

	role := created.RoleOrDefault()
	token, signErr := s.tokens.Issue(created.Username, role)
	if signErr != nil {
		return nil, fmt.Errorf("sign token: %w", signErr)
	}

	s.log.Info().Str("username", created.Username).Str("role", role).Msg("registration successful")

	return &domain.AuthResult{
		Token:     token,
		Username:  created.Username,
		Role:      role,
		FirstName: created.FirstName,
		LastName:  created.LastName,
	}, nil
}

// Login verifies the password against the store's digest and mints a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (res *domain.AuthResult, err error) {
	defer func() { metrics.AuthAttemptsTotal.WithLabelValues("login", resultLabel(err)).Inc() }()

	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	s.log.Debug().Str("username", username).Msg("login attempt")

	cred, fetchErr := s.store.FetchByUsername(ctx, username)
	if fetchErr != nil {
		if errors.Is(classify(fetchErr), domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: credential fetch failed: %v", domain.ErrStoreUnavailable, fetchErr)
	}
	if cred.PasswordHash == "" {
		// The auth read must include the digest; a credential without one
		// is a contract violation, not a login failure.
		return nil, fmt.Errorf("%w: credential missing password digest", domain.ErrBadStoreResponse)
	}

	if !s.hasher.Verify(password, cred.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	role := cred.RoleOrDefault()
	token, signErr := s.tokens.Issue(cred.Username, role)
	if signErr != nil {
		return nil, fmt.Errorf("sign token: %w", signErr)
	}

	s.log.Info().Str("username", cred.Username).Str("role", role).Msg("login successful")

	return &domain.AuthResult{
		Token:     token,
		Username:  cred.Username,
		Role:      role,
		FirstName: cred.FirstName,
		LastName:  cred.LastName,
	}, nil
}

// Validate reports whether the token's signature and expiry check out.
// Entirely local: downstream services can verify tokens without the store
// being reachable.
func (s *AuthService) Validate(token string) bool {
	if _, err := s.tokens.Verify(token); err != nil {
		metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
		return false
	}
	metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
	return true
}

// resultLabel buckets an auth outcome for metrics.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUsernameExists), errors.Is(err, domain.ErrEmailExists):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "unauthorized"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrBadStoreResponse),
		errors.Is(err, domain.ErrStoreFailure):
		return "upstream_error"
	default:
		return "error"
	}
}
