package auth

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // legacy hashes may name sha1
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"freshharvest/internal/errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Prefix            = "pbkdf2:"
	pbkdf2DefaultIterations = 600000
)

// pbkdf2Verifier checks hashes written by the previous service:
// pbkdf2:sha256[:iterations]$salt$hexdigest. It never produces new hashes.
type pbkdf2Verifier struct{}

func (pbkdf2Verifier) Hash(string) (string, error) {
	return "", errors.New("pbkdf2 hashes are verify-only")
}

func (pbkdf2Verifier) Check(password, encoded string) bool {
	digest, iterations, salt, want, err := decodePBKDF2Hash(encoded)
	if err != nil {
		return false
	}

	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), digest)

	return hmac.Equal(got, want)
}

func (pbkdf2Verifier) Recognizes(hash string) bool {
	return strings.HasPrefix(hash, pbkdf2Prefix)
}

func decodePBKDF2Hash(encoded string) (func() hash.Hash, int, string, []byte, error) {
	method, rest, ok := strings.Cut(encoded, "$")
	if !ok {
		return nil, 0, "", nil, errors.New("missing pbkdf2 salt separator")
	}
	salt, hexDigest, ok := strings.Cut(rest, "$")
	if !ok || salt == "" {
		return nil, 0, "", nil, errors.New("missing pbkdf2 digest")
	}

	methodParts := strings.Split(method, ":")
	if len(methodParts) < 2 || len(methodParts) > 3 || methodParts[0] != "pbkdf2" {
		return nil, 0, "", nil, errors.Errorf("invalid pbkdf2 method %q", method)
	}

	var digest func() hash.Hash
	switch methodParts[1] {
	case "sha1":
		digest = sha1.New
	case "sha256":
		digest = sha256.New
	case "sha512":
		digest = sha512.New
	default:
		return nil, 0, "", nil, errors.Errorf("unsupported pbkdf2 digest %q", methodParts[1])
	}

	iterations := pbkdf2DefaultIterations
	if len(methodParts) == 3 {
		n, err := strconv.Atoi(methodParts[2])
		if err != nil || n <= 0 {
			return nil, 0, "", nil, errors.Errorf("invalid pbkdf2 iterations %q", methodParts[2])
		}
		iterations = n
	}

	want, err := hex.DecodeString(hexDigest)
	if err != nil || len(want) == 0 {
		return nil, 0, "", nil, errors.New("invalid pbkdf2 digest encoding")
	}

	return digest, iterations, salt, want, nil
}
