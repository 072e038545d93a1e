// Copyright (c) 2026 Adminkit. All rights reserved.

package sec

import "strings"

// # User Roles

// Role represents the authorization tier granted to an account.
//
// The set is closed: every handler decision flows through [Authorize],
// never through direct string comparison on the role value.
type Role string

const (
	// Unrestricted access to every panel surface
	RoleAdmin Role = "admin"

	// Can create projects and manage the projects they own
	RoleManager Role = "manager"

	// Read-only access to dashboard, projects, and users
	RoleViewer Role = "viewer"
)

// ParseRole normalizes and validates a raw role string.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleAdmin, RoleManager, RoleViewer:
		return role, true
	}
	return "", false
}

// IsValid reports whether the role is one of the three known tiers.
func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}
