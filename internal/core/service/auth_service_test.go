package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushire/identity-service/internal/core/domain"
	"github.com/campushire/identity-service/internal/core/ports"
)

// stubStore mimics the profile service: it enforces username/email
// uniqueness and reports failures the way the real store does, as raw
// status + body pairs. The probe-then-create race is preserved because
// Register's two calls take the lock independently.
type stubStore struct {
	mu     sync.Mutex
	hasher ports.PasswordHasher
	byUser map[string]*domain.Credential
	emails map[string]bool

	fetchErr  error // overrides FetchByUsername when set
	createErr error // overrides Create when set
}

func newStubStore() *stubStore {
	return &stubStore{
		hasher: NewBcryptHasher(bcrypt.MinCost),
		byUser: make(map[string]*domain.Credential),
		emails: make(map[string]bool),
	}
}

func cloneCredential(c *domain.Credential) *domain.Credential {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (s *stubStore) FetchByUsername(_ context.Context, username string) (*domain.Credential, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cred, ok := s.byUser[username]; ok {
		return cloneCredential(cred), nil
	}
	return nil, &ports.StoreError{Status: 404, Body: `{"error":"profile not found"}`}
}

func (s *stubStore) Create(_ context.Context, reg domain.Registration) (*domain.Credential, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[reg.Username]; ok {
		// Constraint violations escape the store as 500s.
		return nil, &ports.StoreError{
			Status: 500,
			Body:   `ERROR: duplicate key value violates unique constraint "user_profile_username_key"`,
		}
	}
	if s.emails[reg.Email] {
		return nil, &ports.StoreError{Status: 400, Body: `{"error":"Email already exists"}`}
	}

	digest, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, err
	}
	cred := &domain.Credential{
		Username:     reg.Username,
		PasswordHash: digest,
		Email:        reg.Email,
		Role:         reg.Role,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
	}
	s.byUser[cred.Username] = cred
	s.emails[cred.Email] = true
	return cloneCredential(cred), nil
}

func newTestAuthService(store ports.CredentialStore) (*AuthService, *JWTIssuer) {
	tokens := NewJWTIssuer("secret", time.Hour)
	svc := NewAuthService(store, NewBcryptHasher(bcrypt.MinCost), tokens, zerolog.Nop())
	return svc, tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	store := newStubStore()
	svc, tokens := newTestAuthService(store)

	res, err := svc.Register(context.Background(), domain.Registration{
		Username:  "alice",
		Password:  "p@ss1234",
		Email:     "a@x.com",
		FirstName: "Alice",
		LastName:  "Ang",
		Role:      domain.RoleStudent,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if res.Username != "alice" || res.Role != domain.RoleStudent {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.FirstName != "Alice" || res.LastName != "Ang" {
		t.Fatalf("names not carried through: %+v", res)
	}

	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "alice" || claims.Role != domain.RoleStudent {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Register_DefaultsRoleToStudent(t *testing.T) {
	store := newStubStore()
	svc, _ := newTestAuthService(store)

	res, err := svc.Register(context.Background(), domain.Registration{
		Username: "bob", Password: "p@ss1234", Email: "b@x.com",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Role != domain.RoleStudent {
		t.Fatalf("expected role STUDENT, got %s", res.Role)
	}
}

func TestAuthService_Register_UsernameExists_ProbeDetects(t *testing.T) {
	store := newStubStore()
	svc, _ := newTestAuthService(store)

	reg := domain.Registration{Username: "carol", Password: "p@ss1234", Email: "c@x.com"}
	if _, err := svc.Register(context.Background(), reg); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	reg.Email = "other@x.com"
	if _, err := svc.Register(context.Background(), reg); !errors.Is(err, domain.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestAuthService_Register_UsernameExists_StoreDetects(t *testing.T) {
	// The probe misses (store answers 404) but the create hits the
	// uniqueness constraint, reported as a 500 with the constraint name.
	store := newStubStore()
	store.fetchErr = &ports.StoreError{Status: 404, Body: `{"error":"profile not found"}`}
	store.createErr = &ports.StoreError{
		Status: 500,
		Body:   `ERROR: duplicate key value violates unique constraint "user_profile_username_key"`,
	}
	svc, _ := newTestAuthService(store)

	_, err := svc.Register(context.Background(), domain.Registration{
		Username: "dave", Password: "p@ss1234", Email: "d@x.com",
	})
	if !errors.Is(err, domain.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestAuthService_Register_EmailExists(t *testing.T) {
	store := newStubStore()
	svc, _ := newTestAuthService(store)

	if _, err := svc.Register(context.Background(), domain.Registration{
		Username: "erin", Password: "p@ss1234", Email: "shared@x.com",
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), domain.Registration{
		Username: "frank", Password: "p@ss1234", Email: "shared@x.com",
	})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Register_StoreUnreachable(t *testing.T) {
	store := newStubStore()
	store.fetchErr = &ports.StoreError{Err: errors.New("connection refused")}
	svc, _ := newTestAuthService(store)

	_, err := svc.Register(context.Background(), domain.Registration{
		Username: "gina", Password: "p@ss1234", Email: "g@x.com",
	})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestAuthService_Register_EmptyCreateResponse(t *testing.T) {
	// A store that answers the create with an empty object yields a
	// credential without a username.
	svc, _ := newTestAuthService(&emptyCreateStore{
		fetchErr: &ports.StoreError{Status: 404},
	})

	_, err := svc.Register(context.Background(), domain.Registration{
		Username: "hank", Password: "p@ss1234", Email: "h@x.com",
	})
	if !errors.Is(err, domain.ErrBadStoreResponse) {
		t.Fatalf("expected ErrBadStoreResponse, got %v", err)
	}
}

type emptyCreateStore struct {
	fetchErr error
}

func (s *emptyCreateStore) FetchByUsername(context.Context, string) (*domain.Credential, error) {
	return nil, s.fetchErr
}

func (s *emptyCreateStore) Create(context.Context, domain.Registration) (*domain.Credential, error) {
	return &domain.Credential{}, nil
}

func TestAuthService_Register_ConcurrentSameUsername(t *testing.T) {
	store := newStubStore()
	svc, _ := newTestAuthService(store)

	reg := domain.Registration{Username: "race", Password: "p@ss1234", Email: "r@x.com"}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Register(context.Background(), reg)
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrUsernameExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %d/%d", successes, conflicts)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	store := newStubStore()
	svc, tokens := newTestAuthService(store)

	if _, err := svc.Register(context.Background(), domain.Registration{
		Username: "ivy", Password: "s3cret!!", Email: "i@x.com", Role: domain.RoleFaculty,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "ivy", "s3cret!!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if !svc.Validate(res.Token) {
		t.Fatalf("issued token should validate")
	}

	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != domain.RoleFaculty {
		t.Fatalf("expected role %s, got %s", domain.RoleFaculty, claims.Role)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	store := newStubStore()
	svc, _ := newTestAuthService(store)

	_, _ = svc.Register(context.Background(), domain.Registration{
		Username: "jack", Password: "goodpass1", Email: "j@x.com",
	})

	res, err := svc.Login(context.Background(), "jack", "badpass99")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if res != nil {
		t.Fatalf("no token may be issued on a failed login")
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	store := newStubStore()
	svc, _ := newTestAuthService(store)

	if _, err := svc.Login(context.Background(), "ghost", "whatever1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_StoreUnreachable(t *testing.T) {
	store := newStubStore()
	store.fetchErr = &ports.StoreError{Err: errors.New("timeout")}
	svc, _ := newTestAuthService(store)

	if _, err := svc.Login(context.Background(), "kim", "whatever1"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestAuthService_Login_MissingDigest(t *testing.T) {
	store := newStubStore()
	store.byUser["lena"] = &domain.Credential{Username: "lena", Email: "l@x.com"}
	svc, _ := newTestAuthService(store)

	if _, err := svc.Login(context.Background(), "lena", "whatever1"); !errors.Is(err, domain.ErrBadStoreResponse) {
		t.Fatalf("expected ErrBadStoreResponse, got %v", err)
	}
}

func TestAuthService_Validate(t *testing.T) {
	store := newStubStore()
	svc, tokens := newTestAuthService(store)

	token, err := tokens.Issue("mia", domain.RoleStudent)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if !svc.Validate(token) {
		t.Fatalf("freshly issued token should validate")
	}
	if svc.Validate(token + "tampered") {
		t.Fatalf("tampered token must not validate")
	}
	if svc.Validate("") {
		t.Fatalf("empty token must not validate")
	}
}
