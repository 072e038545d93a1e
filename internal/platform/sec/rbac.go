// Copyright (c) 2026 Adminkit. All rights reserved.

/*
Package sec provides the security primitives of the panel: password hashing,
JWT token management, and the role-based permission matrix.

It is infrastructure-only and has no knowledge of HTTP or storage. Services
and middleware consume it via explicit constructor injection.

Core pieces:

  - PasswordHasher: bcrypt hash/verify with configurable cost.
  - TokenService: issuance and verification of typed access/refresh JWTs.
  - Authorize: the pure, table-driven permission matrix.

Authorization decisions are a pure computation over request-local data, so
everything in this package is safe for concurrent use.
*/
package sec

// # Actions

// Action identifies a guarded operation in the permission matrix.
type Action string

const (
	ActionViewDashboard Action = "dashboard.view"
	ActionViewProjects  Action = "project.view"
	ActionViewUsers     Action = "user.view"
	ActionCreateProject Action = "project.create"
	ActionEditProject   Action = "project.edit"
	ActionDeleteProject Action = "project.delete"
	ActionManageUsers   Action = "user.manage"
	ActionViewAuditLogs Action = "audit.view"
)

// # Permission Matrix

// verdict is the outcome of a (role, action) cell in the matrix.
type verdict int

const (
	deny verdict = iota
	allow
	// allowOwn grants the action only when the acting identity owns the
	// target resource. It exists for the manager tier; admin rows use the
	// plain allow verdict, which subsumes ownership.
	allowOwn
)

// matrix is the complete permission table. Any (role, action) pair absent
// from it is denied — the matrix fails closed.
var matrix = map[Role]map[Action]verdict{
	RoleAdmin: {
		ActionViewDashboard: allow,
		ActionViewProjects:  allow,
		ActionViewUsers:     allow,
		ActionCreateProject: allow,
		ActionEditProject:   allow,
		ActionDeleteProject: allow,
		ActionManageUsers:   allow,
		ActionViewAuditLogs: allow,
	},
	RoleManager: {
		ActionViewDashboard: allow,
		ActionViewProjects:  allow,
		ActionViewUsers:     allow,
		ActionCreateProject: allow,
		ActionEditProject:   allowOwn,
		ActionDeleteProject: allowOwn,
	},
	RoleViewer: {
		ActionViewDashboard: allow,
		ActionViewProjects:  allow,
		ActionViewUsers:     allow,
	},
}

// Authorize decides whether a role may perform an action, optionally scoped
// to a concrete resource owner.
//
// # Ownership
//
// resourceOwnerID and actorID only matter for allow-if-own cells. A resource
// whose owner was deleted (empty owner id) never satisfies an ownership rule,
// leaving orphaned resources manageable by admins only.
//
// # Totality
//
// The function is total: unknown roles, unknown actions, and combinations
// missing from the table all return false.
func Authorize(role Role, action Action, resourceOwnerID, actorID string) bool {
	actions, ok := matrix[role]
	if !ok {
		return false
	}
	switch actions[action] {
	case allow:
		return true
	case allowOwn:
		return resourceOwnerID != "" && resourceOwnerID == actorID
	default:
		return false
	}
}
