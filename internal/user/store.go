// Copyright (c) 2026 Adminkit. All rights reserved.

package user

import (
	"context"

	"github.com/huyld/adminkit/internal/audit"
	"github.com/huyld/adminkit/internal/auth"
)

// Filter narrows the account listing.
type Filter struct {
	// Role filters on the exact role string, empty for all.
	Role string

	// IsActive filters on the active flag, nil for all.
	IsActive *bool

	// Search matches email or full name, case-insensitive substring.
	Search string
}

// Repository defines the data access contract for account administration.
//
// Every mutation takes the audit entry that must commit with it: the write
// and its trail record succeed or fail together.
type Repository interface {
	// List returns a filtered page of accounts plus the total match count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error)

	// FindByID returns the account with the given id, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*auth.User, error)

	// Create persists a new account together with its audit entry.
	Create(ctx context.Context, user *auth.User, entry *audit.Entry) error

	// Update persists full name, role, and active flag together with the entry.
	Update(ctx context.Context, user *auth.User, entry *audit.Entry) error

	// Delete removes the account. The audit entry survives the deletion
	// because the trail stores actor and resource ids as plain values.
	Delete(ctx context.Context, id string, entry *audit.Entry) error
}
