package ports

// PasswordHasher wraps the one-way hashing primitive so the orchestrator
// never branches on algorithm choice.
type PasswordHasher interface {
	Hash(cleartext string) (string, error)

	// Verify reports whether cleartext matches the stored digest. The
	// comparison is constant-time with respect to the digest.
	Verify(cleartext, digest string) bool
}
