package ui

import (
	"fmt"
	"strings"
)

// Role is the demo identity switch. It scopes what the screens list; it is
// not an access control boundary.
type Role uint8

const (
	RoleEmployee Role = iota + 1
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "employee"
	case RoleAdmin:
		return "admin"
	default:
		return ""
	}
}

// Admin reports whether r sees the whole inventory.
func (r Role) Admin() bool { return r == RoleAdmin }

// Toggle returns the other role.
func (r Role) Toggle() Role {
	if r == RoleAdmin {
		return RoleEmployee
	}
	return RoleAdmin
}

// ParseRole accepts "admin" or "employee". Empty selects employee.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "employee":
		return RoleEmployee, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, fmt.Errorf("unknown role %q (want admin or employee)", s)
	}
}
