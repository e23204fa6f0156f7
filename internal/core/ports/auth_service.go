package ports

import (
	"context"

	"github.com/campushire/identity-service/internal/core/domain"
)

// AuthService orchestrates registration, login, and token validation against
// the external credential store.
type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error)
	Login(ctx context.Context, username, password string) (*domain.AuthResult, error)
	Validate(token string) bool
}
