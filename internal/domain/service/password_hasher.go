// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "errors"

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm, keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted, self-describing hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// Malformed hashes never match.
	Check(password, hash string) bool
}

// ErrPasswordTooLong is returned by Hash when the algorithm cannot accept the input length.
var ErrPasswordTooLong = errors.New("password exceeds the maximum supported length")
