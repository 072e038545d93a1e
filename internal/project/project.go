// Copyright (c) 2026 Adminkit. All rights reserved.

package project

import "time"

// # Enums

// Status is the closed set of project lifecycle states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// ParseStatus maps a raw string onto a [Status], reporting whether it is valid.
func ParseStatus(raw string) (Status, bool) {
	status := Status(raw)
	switch status {
	case StatusDraft, StatusActive, StatusOnHold, StatusCompleted, StatusArchived:
		return status, true
	}
	return "", false
}

// Priority is the closed set of project priorities.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ParsePriority maps a raw string onto a [Priority], reporting whether it is valid.
func ParsePriority(raw string) (Priority, bool) {
	priority := Priority(raw)
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return priority, true
	}
	return "", false
}

// # Domain Entity

// Project represents a tracked project.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`

	// BudgetCents stores money as integer cents; no floats near currency.
	BudgetCents int64 `json:"budget_cents"`

	// OwnerID is nil for orphaned projects (owner hard-deleted). Ownership
	// grants managers edit/delete; an orphan is only reachable by admins.
	OwnerID *string `json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ownerID returns the owner as a plain string, empty when orphaned.
func (p *Project) ownerID() string {
	if p.OwnerID == nil {
		return ""
	}
	return *p.OwnerID
}
