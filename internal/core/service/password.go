package service

import "golang.org/x/crypto/bcrypt"

// BcryptHasher implements password hashing with a configurable cost factor.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(cleartext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(cleartext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(cleartext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(cleartext)) == nil
}
