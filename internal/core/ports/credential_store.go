package ports

import (
	"context"
	"fmt"

	"github.com/campushire/identity-service/internal/core/domain"
)

// CredentialStore is the outbound port to the external profile service, the
// system of record for credentials. Both operations return *StoreError on
// any outcome other than success; the core translates those into domain
// errors and never sees transport types.
type CredentialStore interface {
	// FetchByUsername retrieves a credential through the store's auth read,
	// the only read path that includes the password digest.
	FetchByUsername(ctx context.Context, username string) (*domain.Credential, error)

	// Create registers a new credential. Username/email uniqueness is
	// enforced atomically by the store, not by this service.
	Create(ctx context.Context, reg domain.Registration) (*domain.Credential, error)
}

// StoreError describes a failed call to the credential store. Status is the
// HTTP status of the response, or 0 when no response was received at all
// (connection refused, timeout). Body retains the raw error body for
// classification and diagnostics.
type StoreError struct {
	Status int
	Body   string
	Err    error
}

func (e *StoreError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("credential store: no response: %v", e.Err)
	}
	return fmt.Sprintf("credential store: status %d: %s", e.Status, e.Body)
}

func (e *StoreError) Unwrap() error { return e.Err }
