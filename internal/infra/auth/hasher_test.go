package auth

import (
	"strings"
	"testing"

	"freshharvest/config"
	"freshharvest/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Generated by the previous service for the password "harvest-moon".
const (
	legacySHA256Hash = "pbkdf2:sha256:1000$Xq7pLm2Rt9Vw$607aaf9146d34fd7c6f96b3a4009c13b5306e024dd9cf32aab76a100dc7db9c2"
	legacySHA1Hash   = "pbkdf2:sha1:1000$Xq7pLm2Rt9Vw$9449bc90bb495462eda3e7e14d4f81b0bf644616"
)

func fastArgon2Config() *config.Argon2Config {
	return &config.Argon2Config{Memory: 1024, Iterations: 1, Parallelism: 1}
}

func newTestHasher(t *testing.T, algorithm string) service.PasswordHasher {
	t.Helper()

	hasher, err := NewPasswordHasher(&config.Config{
		Auth: &config.AuthConfig{
			Algorithm:  algorithm,
			BcryptCost: bcrypt.MinCost,
			Argon2:     fastArgon2Config(),
		},
	})
	require.NoError(t, err)

	return hasher
}

func TestPasswordHasher_HashAndCheck(t *testing.T) {
	for _, algorithm := range []string{AlgorithmBcrypt, AlgorithmArgon2id} {
		t.Run(algorithm, func(t *testing.T) {
			hasher := newTestHasher(t, algorithm)
			password := "StrongPass123!"

			first, err := hasher.Hash(password)
			require.NoError(t, err)
			second, err := hasher.Hash(password)
			require.NoError(t, err)

			assert.NotEqual(t, password, first)
			assert.NotEqual(t, first, second, "salts must differ between calls")
			assert.True(t, hasher.Check(password, first))
			assert.True(t, hasher.Check(password, second))
			assert.False(t, hasher.Check("WrongPassword123!", first))
			assert.False(t, hasher.Check("", first))
		})
	}
}

func TestPasswordHasher_AlgorithmSelection(t *testing.T) {
	bcryptHash, err := newTestHasher(t, "").Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bcryptHash, "$2a$"))

	cost, err := bcrypt.Cost([]byte(bcryptHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	argonHash, err := newTestHasher(t, "ARGON2ID").Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(argonHash, "$argon2id$v=19$m=1024,t=1,p=1$"))

	_, err = NewPasswordHasher(&config.Config{Auth: &config.AuthConfig{Algorithm: "md5"}})
	assert.Error(t, err)
}

func TestPasswordHasher_VerifiesHashesFromOtherAlgorithms(t *testing.T) {
	argonHash, err := newTestHasher(t, AlgorithmArgon2id).Hash("harvest-moon")
	require.NoError(t, err)

	hasher := newTestHasher(t, AlgorithmBcrypt)
	assert.True(t, hasher.Check("harvest-moon", argonHash))
	assert.True(t, hasher.Check("harvest-moon", legacySHA256Hash))
	assert.True(t, hasher.Check("harvest-moon", legacySHA1Hash))
	assert.False(t, hasher.Check("harvest-sun", legacySHA256Hash))
}

func TestPasswordHasher_MalformedHashesNeverMatch(t *testing.T) {
	hasher := newTestHasher(t, AlgorithmBcrypt)

	malformed := []string{
		"",
		"invalid_hash",
		"$2a$04$short",
		"$argon2id$v=19$m=1024,t=1,p=1$onlysalt",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=0,p=0$c2FsdA$a2V5",
		"pbkdf2:sha256:1000",
		"pbkdf2:md5:1000$salt$00ff",
		"pbkdf2:sha256:abc$salt$00ff",
		"pbkdf2:sha256:1000$salt$not-hex",
		"pbkdf2:sha256:1000$$00ff",
	}

	for _, hash := range malformed {
		assert.NotPanics(t, func() {
			assert.False(t, hasher.Check("harvest-moon", hash), "hash %q", hash)
		})
	}
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	hasher := newBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.True(t, errors.Is(err, service.ErrPasswordTooLong))
}

func TestBcryptHasher_InvalidCostFallsBackToDefault(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, newBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, newBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, newBcryptHasher(12).cost)
}

func TestPBKDF2Verifier_IsVerifyOnly(t *testing.T) {
	_, err := pbkdf2Verifier{}.Hash("pw")
	assert.Error(t, err)
}
