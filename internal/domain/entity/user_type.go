package entity

// UserType classifies an account. The marketplace knows farmers and buyers,
// but any non-empty tag is stored as given.
type UserType string

const (
	// UserTypeFarmer marks an account that publishes product listings.
	UserTypeFarmer UserType = "farmer"
	// UserTypeBuyer marks an account that browses listings.
	UserTypeBuyer UserType = "buyer"
)

// String returns the string representation of the UserType.
func (t UserType) String() string {
	return string(t)
}

// IsKnown reports whether the tag is one of the predefined types.
func (t UserType) IsKnown() bool {
	switch t {
	case UserTypeFarmer, UserTypeBuyer:
		return true
	default:
		return false
	}
}
