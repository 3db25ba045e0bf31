package auth

import (
	"strings"

	"freshharvest/config"
	"freshharvest/internal/domain/service"
	"freshharvest/internal/errors"
)

// Supported values for auth.algorithm.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// algorithm is one hash format the credential store understands.
type algorithm interface {
	service.PasswordHasher

	// Recognizes reports whether the encoded hash belongs to this format.
	Recognizes(hash string) bool
}

// passwordHasher hashes with the configured algorithm and verifies any known format,
// so switching algorithms keeps existing credentials valid.
type passwordHasher struct {
	primary    algorithm
	algorithms []algorithm
}

// NewPasswordHasher builds the credential store from the auth configuration.
func NewPasswordHasher(cfg *config.Config) (service.PasswordHasher, error) {
	var authCfg config.AuthConfig
	if cfg != nil && cfg.Auth != nil {
		authCfg = *cfg.Auth
	}

	bcryptAlg := newBcryptHasher(authCfg.BcryptCost)
	argon2Alg := newArgon2Hasher(argon2ParamsFromConfig(authCfg.Argon2))

	var primary algorithm
	switch strings.ToLower(strings.TrimSpace(authCfg.Algorithm)) {
	case "", AlgorithmBcrypt:
		primary = bcryptAlg
	case AlgorithmArgon2id:
		primary = argon2Alg
	default:
		return nil, errors.Errorf("unsupported password hashing algorithm: %s", authCfg.Algorithm)
	}

	return &passwordHasher{
		primary:    primary,
		algorithms: []algorithm{bcryptAlg, argon2Alg, pbkdf2Verifier{}},
	}, nil
}

// Hash generates a salted hash with the primary algorithm.
func (h *passwordHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

// Check verifies the password against a hash of any recognized format.
func (h *passwordHasher) Check(password, hash string) bool {
	for _, alg := range h.algorithms {
		if alg.Recognizes(hash) {
			return alg.Check(password, hash)
		}
	}

	return false
}
