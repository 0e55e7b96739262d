package v1

import "fmt"

// User roles.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User is an account that owns post records and calendar tasks.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`

	// PasswordHash is the bcrypt hash; never serialized.
	PasswordHash string `json:"-"`
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleClient
}

// Validate checks the fields required to create an account.
func (u *User) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.Role != "" && !ValidRole(u.Role) {
		return fmt.Errorf("invalid role %q (must be %q or %q)", u.Role, RoleAdmin, RoleClient)
	}
	return nil
}
