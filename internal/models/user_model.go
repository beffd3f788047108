package models

// Role is the coarse permission tag stored on a user profile.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	// RoleUnknown is never stored. It is the result of a failed or inconclusive role lookup.
	RoleUnknown Role = "unknown"
)

// UserProfile is the per-user document in the users collection.
// Its ID is the Firebase Auth UID.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *UserProfile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Principal is an authenticated identity as returned by the auth provider.
type Principal struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}
