// Package model holds domain types shared across layers.
package model

import "strings"

// Role is the closed set of account roles. Allow-sets on endpoints are
// expressed as explicit lists of these constants; there is no hierarchy, so
// ADMIN is only permitted where it is listed.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RolePatient    Role = "PATIENT"
	RoleStaff      Role = "STAFF"
	RoleFinance    Role = "FINANCE"
	RoleDoctor     Role = "DOCTOR"
	RoleHR         Role = "HR"
	RoleNurse      Role = "NURSE"
	RoleAdminStaff Role = "ADMIN_STAFF"
)

// Roles lists every valid role.
var Roles = []Role{
	RoleAdmin, RolePatient, RoleStaff, RoleFinance,
	RoleDoctor, RoleHR, RoleNurse, RoleAdminStaff,
}

// ParseRole normalizes s and reports whether it names a known role. Unknown
// strings are rejected rather than defaulted, so a typo'd role can never
// slip into a token or the users table.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string { return string(r) }
