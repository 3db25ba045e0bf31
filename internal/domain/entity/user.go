// Package entity contains the core business objects of the marketplace.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered marketplace account.
type User struct {
	ID           uuid.UUID // Assigned by the service at registration, never changes.
	Name         string    // Display name.
	Email        string    // Unique login identifier, stored lower-cased.
	PasswordHash string    // Self-describing KDF token. Never leaves the usecase layer.
	UserType     UserType  // Classification tag such as farmer or buyer.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WithoutCredentials returns a copy of the user that is safe to hand to callers.
func (u *User) WithoutCredentials() *User {
	if u == nil {
		return nil
	}

	clean := *u
	clean.PasswordHash = ""

	return &clean
}
