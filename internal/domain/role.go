package domain

import "fmt"

// Role is a user's access level. Roles are ordered: a higher role satisfies
// every requirement a lower one does.
type Role int

const (
	RoleUser Role = iota
	RolePaidUser
	RoleAdmin
)

// AllRoles contains all valid roles in ascending order
var AllRoles = []Role{RoleUser, RolePaidUser, RoleAdmin}

// IsValid checks if a role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RolePaidUser, RoleAdmin:
		return true
	}
	return false
}

// Meets reports whether r is at least as privileged as required.
func (r Role) Meets(required Role) bool {
	return r.IsValid() && r >= required
}

// String returns the string representation of the role
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RolePaidUser:
		return "paidUser"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole converts the string form back into a Role
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if r.String() == s {
			return r, nil
		}
	}
	return RoleUser, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
