package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"freshharvest/config"
	"freshharvest/internal/errors"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// argon2Params follows the OWASP recommendation for argon2id.
type argon2Params struct {
	memory      uint32 // KiB
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

func defaultArgon2Params() argon2Params {
	return argon2Params{
		memory:      64 * 1024,
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
	}
}

func argon2ParamsFromConfig(cfg *config.Argon2Config) argon2Params {
	params := defaultArgon2Params()
	if cfg == nil {
		return params
	}
	if cfg.Memory > 0 {
		params.memory = cfg.Memory
	}
	if cfg.Iterations > 0 {
		params.iterations = cfg.Iterations
	}
	if cfg.Parallelism > 0 {
		params.parallelism = cfg.Parallelism
	}
	if cfg.SaltLength > 0 {
		params.saltLength = cfg.SaltLength
	}
	if cfg.KeyLength > 0 {
		params.keyLength = cfg.KeyLength
	}

	return params
}

// argon2Hasher produces PHC strings: $argon2id$v=19$m=65536,t=3,p=2$salt$hash
type argon2Hasher struct {
	params argon2Params
}

func newArgon2Hasher(params argon2Params) *argon2Hasher {
	return &argon2Hasher{params: params}
}

func (h *argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "generate argon2 salt")
	}

	key := argon2.IDKey([]byte(password), salt, h.params.iterations, h.params.memory, h.params.parallelism, h.params.keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.memory,
		h.params.iterations,
		h.params.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *argon2Hasher) Check(password, hash string) bool {
	params, salt, key, err := decodeArgon2Hash(hash)
	if err != nil {
		return false
	}

	other := argon2.IDKey([]byte(password), salt, params.iterations, params.memory, params.parallelism, params.keyLength)

	return subtle.ConstantTimeCompare(key, other) == 1
}

func (h *argon2Hasher) Recognizes(hash string) bool {
	return strings.HasPrefix(hash, argon2Prefix)
}

func decodeArgon2Hash(encoded string) (argon2Params, []byte, []byte, error) {
	var params argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params, nil, nil, errors.New("invalid argon2id hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, errors.Wrap(err, "parse argon2 version")
	}
	if version != argon2.Version {
		return params, nil, nil, errors.Errorf("incompatible argon2 version %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.iterations, &params.parallelism); err != nil {
		return params, nil, nil, errors.Wrap(err, "parse argon2 parameters")
	}
	if params.memory == 0 || params.iterations == 0 || params.parallelism == 0 {
		return params, nil, nil, errors.New("argon2 parameters must be positive")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, errors.Wrap(err, "decode argon2 salt")
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, errors.New("decode argon2 key")
	}
	params.saltLength = uint32(len(salt)) //nolint:gosec // bounded by the encoded string
	params.keyLength = uint32(len(key))   //nolint:gosec // bounded by the encoded string

	return params, salt, key, nil
}
