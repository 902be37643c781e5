package domain

import "strings"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return r, true
	}
	return "", false
}

// SignupAllowed reports whether a caller may pick this role for themselves.
// Admins are provisioned directly in the store.
func (r Role) SignupAllowed() bool {
	return r == RoleBuyer || r == RoleSeller
}
