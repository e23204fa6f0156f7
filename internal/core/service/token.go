package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campushire/identity-service/internal/core/domain"
	"github.com/campushire/identity-service/internal/core/ports"
)

// JWTIssuer signs and verifies HS256 bearer tokens. The signing key is
// immutable process-wide state loaded once at startup.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token carrying the subject username and role.
func (i *JWTIssuer) Issue(subject, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Verify checks signature and expiry. All failure modes collapse into
// domain.ErrInvalidToken so callers cannot distinguish a forged token from
// an expired one.
func (i *JWTIssuer) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	return &ports.TokenClaims{Subject: sub, Role: role}, nil
}
