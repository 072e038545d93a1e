// Copyright (c) 2026 Adminkit. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huyld/adminkit/internal/platform/sec"
)

/*
TestAuthorize_Matrix exhaustively checks every (role, action) cell of the
permission table, including the ownership variants for manager-tier rules.
*/
func TestAuthorize_Matrix(t *testing.T) {
	const (
		actor = "user-1"
		other = "user-2"
	)

	tests := []struct {
		name    string
		role    sec.Role
		action  sec.Action
		ownerID string
		want    bool
	}{
		// View surfaces are open to every role.
		{"admin_view_dashboard", sec.RoleAdmin, sec.ActionViewDashboard, "", true},
		{"manager_view_dashboard", sec.RoleManager, sec.ActionViewDashboard, "", true},
		{"viewer_view_dashboard", sec.RoleViewer, sec.ActionViewDashboard, "", true},
		{"admin_view_projects", sec.RoleAdmin, sec.ActionViewProjects, "", true},
		{"manager_view_projects", sec.RoleManager, sec.ActionViewProjects, "", true},
		{"viewer_view_projects", sec.RoleViewer, sec.ActionViewProjects, "", true},
		{"admin_view_users", sec.RoleAdmin, sec.ActionViewUsers, "", true},
		{"manager_view_users", sec.RoleManager, sec.ActionViewUsers, "", true},
		{"viewer_view_users", sec.RoleViewer, sec.ActionViewUsers, "", true},

		// Project creation: admin and manager only.
		{"admin_create_project", sec.RoleAdmin, sec.ActionCreateProject, "", true},
		{"manager_create_project", sec.RoleManager, sec.ActionCreateProject, "", true},
		{"viewer_create_project", sec.RoleViewer, sec.ActionCreateProject, "", false},

		// Editing: admin edits anything; manager only their own.
		{"admin_edit_any_project", sec.RoleAdmin, sec.ActionEditProject, other, true},
		{"admin_edit_own_project", sec.RoleAdmin, sec.ActionEditProject, actor, true},
		{"manager_edit_own_project", sec.RoleManager, sec.ActionEditProject, actor, true},
		{"manager_edit_other_project", sec.RoleManager, sec.ActionEditProject, other, false},
		{"viewer_edit_project", sec.RoleViewer, sec.ActionEditProject, actor, false},

		// Deletion mirrors editing.
		{"admin_delete_any_project", sec.RoleAdmin, sec.ActionDeleteProject, other, true},
		{"manager_delete_own_project", sec.RoleManager, sec.ActionDeleteProject, actor, true},
		{"manager_delete_other_project", sec.RoleManager, sec.ActionDeleteProject, other, false},
		{"viewer_delete_project", sec.RoleViewer, sec.ActionDeleteProject, actor, false},

		// User management and audit logs are admin-only.
		{"admin_manage_users", sec.RoleAdmin, sec.ActionManageUsers, "", true},
		{"manager_manage_users", sec.RoleManager, sec.ActionManageUsers, "", false},
		{"viewer_manage_users", sec.RoleViewer, sec.ActionManageUsers, "", false},
		{"admin_view_audit_logs", sec.RoleAdmin, sec.ActionViewAuditLogs, "", true},
		{"manager_view_audit_logs", sec.RoleManager, sec.ActionViewAuditLogs, "", false},
		{"viewer_view_audit_logs", sec.RoleViewer, sec.ActionViewAuditLogs, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sec.Authorize(tt.role, tt.action, tt.ownerID, actor)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestAuthorize_FailClosed verifies that undefined roles, undefined actions,
and orphaned-resource ownership checks all default to deny.
*/
func TestAuthorize_FailClosed(t *testing.T) {
	// Unknown role.
	assert.False(t, sec.Authorize(sec.Role("superuser"), sec.ActionViewProjects, "", "u1"))

	// Unknown action.
	assert.False(t, sec.Authorize(sec.RoleAdmin, sec.Action("project.publish"), "", "u1"))

	// Empty role.
	assert.False(t, sec.Authorize(sec.Role(""), sec.ActionViewDashboard, "", "u1"))

	// Ownership rule against an orphaned resource (owner deleted): a manager
	// can never satisfy allow-if-own with an empty owner id.
	assert.False(t, sec.Authorize(sec.RoleManager, sec.ActionEditProject, "", ""))
	assert.False(t, sec.Authorize(sec.RoleManager, sec.ActionDeleteProject, "", "u1"))
}
