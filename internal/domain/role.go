package domain

// UserRole is the access level of an account
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// IsValid checks if a role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r UserRole) String() string {
	return string(r)
}

// In reports whether r is one of roles.
func (r UserRole) In(roles []UserRole) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}
