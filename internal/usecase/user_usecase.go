// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"freshharvest/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	UserType string
}

// AuthenticateInput defines the data required for a user to log in.
type AuthenticateInput struct {
	Email    string
	Password string
}

// UserUsecase defines the interface for user-related business operations.
// Returned users never carry a password hash.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)
	Authenticate(ctx context.Context, input *AuthenticateInput) (*entity.User, error)
}
