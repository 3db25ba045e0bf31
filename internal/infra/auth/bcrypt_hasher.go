// Package auth provides the credential store: password hashing and verification.
package auth

import (
	"strings"

	"freshharvest/internal/domain/service"
	"freshharvest/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher hashes with bcrypt. Salt generation is handled by bcrypt itself.
type bcryptHasher struct {
	cost int
}

func newBcryptHasher(cost int) *bcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", service.ErrPasswordTooLong
	}
	if err != nil {
		return "", errors.Wrap(err, "bcrypt")
	}

	return string(bytes), nil
}

func (h *bcryptHasher) Check(password, hash string) bool {
	// nil means the password and hash match.
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (h *bcryptHasher) Recognizes(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
