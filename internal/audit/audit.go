// Copyright (c) 2026 Adminkit. All rights reserved.

/*
Package audit implements the append-only security audit trail.

Every security-relevant mutation in the panel (user lifecycle, project
lifecycle, logins, password changes) produces exactly one audit entry,
written in the same database transaction as the mutation itself. Entries are
never updated or deleted by the application.

# Architecture

  - Entry: the immutable audit record.
  - InsertTx: the transactional writer other domain stores compose with.
  - Repository/Service/Handler: the admin-only read surface.

Authorization denials are intentionally NOT audited — only mutations that
actually happened appear in the trail.
*/
package audit

import (
	"time"

	"github.com/huyld/adminkit/pkg/uuid"
)

// # Actions

// Action is the closed set of audited verbs.
type Action string

const (
	ActionUserLogin      Action = "user.login"
	ActionUserCreate     Action = "user.create"
	ActionUserUpdate     Action = "user.update"
	ActionUserDelete     Action = "user.delete"
	ActionPasswordChange Action = "user.password_change"
	ActionProjectCreate  Action = "project.create"
	ActionProjectUpdate  Action = "project.update"
	ActionProjectDelete  Action = "project.delete"
)

// # Resource Types

const (
	ResourceUser    = "user"
	ResourceProject = "project"
)

// # Domain Entity

// Entry represents a single immutable audit record.
type Entry struct {
	ID string `json:"id"`

	// Action is the audited verb (e.g. "project.delete").
	Action Action `json:"action"`

	// ActorID is the identity that performed the action. Nil for system
	// actions (e.g. the seed process). Stored as a plain value so the trail
	// survives hard deletion of the actor.
	ActorID *string `json:"actor_id"`

	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`

	// IPAddress is the client address the action originated from.
	IPAddress string `json:"ip_address"`

	// Detail is a free-form JSON blob with action-specific context
	// (changed fields, target email, etc.). Never contains secrets.
	Detail map[string]any `json:"detail,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewEntry constructs an audit entry with a fresh time-ordered id.
// actorID may be empty for system actions.
func NewEntry(action Action, actorID, resourceType, resourceID, ipAddress string, detail map[string]any) *Entry {
	entry := &Entry{
		ID:           uuid.New(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Detail:       detail,
		CreatedAt:    time.Now(),
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	return entry
}
