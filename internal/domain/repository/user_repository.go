// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"freshharvest/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the operations for user persistence.
type UserRepository interface {
	// FindByEmail retrieves a single user by their (lower-cased) email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user. A duplicate email is reported as
	// domainerrors.ErrUserAlreadyExists, also when it loses a concurrent race.
	Create(ctx context.Context, user *entity.User) error
}
