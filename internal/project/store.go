// Copyright (c) 2026 Adminkit. All rights reserved.

package project

import (
	"context"

	"github.com/huyld/adminkit/internal/audit"
)

// Filter narrows the project listing.
type Filter struct {
	// Status filters on the exact lifecycle state, empty for all.
	Status string

	// Priority filters on the exact priority, empty for all.
	Priority string

	// Search matches name or description, case-insensitive substring.
	Search string

	// SortBy is one of the whitelisted sort columns; empty means newest first.
	SortBy string

	// SortDesc reverses the sort direction.
	SortDesc bool
}

// Repository defines the data access contract for projects.
//
// Mutations take the audit entry that must commit atomically with the write.
type Repository interface {
	// List returns a filtered page of projects plus the total match count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Project, int, error)

	// FindByID returns the project with the given id, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*Project, error)

	// Create persists a new project together with its audit entry.
	Create(ctx context.Context, project *Project, entry *audit.Entry) error

	// Update persists the mutable fields together with the audit entry.
	Update(ctx context.Context, project *Project, entry *audit.Entry) error

	// Delete removes the project together with the audit entry.
	Delete(ctx context.Context, id string, entry *audit.Entry) error
}
