// Copyright (c) 2026 Adminkit. All rights reserved.

package audit

import "context"

// Filter narrows the audit listing.
type Filter struct {
	// Action filters on the exact audited verb, empty for all.
	Action string

	// ResourceType filters on "user"/"project", empty for all.
	ResourceType string

	// ActorID filters on the acting identity, empty for all.
	ActorID string
}

// Repository defines the data access contract for the audit trail.
//
// There is deliberately no update or delete operation: the trail is
// append-only at the contract level, not just by convention.
type Repository interface {
	// Record appends a single entry outside any surrounding transaction.
	// Mutating stores use [InsertTx] instead to stay atomic with their write.
	Record(context context.Context, entry *Entry) error

	// List returns a filtered, newest-first page of entries plus the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error)
}
