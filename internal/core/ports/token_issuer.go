package ports

// TokenClaims is the identity carried by a verified token.
type TokenClaims struct {
	Subject string
	Role    string
}

// TokenIssuer signs and verifies bearer tokens. Verification is entirely
// local: signature plus expiry, no network, no revocation list.
type TokenIssuer interface {
	Issue(subject, role string) (string, error)

	// Verify returns the embedded claims, or a single uniform error for a
	// bad signature, a malformed token, or an expired one. Callers must not
	// be able to tell those apart.
	Verify(token string) (*TokenClaims, error)
}
