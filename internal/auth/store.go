// Copyright (c) 2026 Adminkit. All rights reserved.

package auth

import (
	"context"
	"time"

	"github.com/huyld/adminkit/internal/audit"
)

// # Repository Contracts

// UserRepository defines the identity reads and security-sensitive writes the
// auth service needs. Administrative account CRUD lives in the user domain;
// this contract is deliberately narrower.
type UserRepository interface {
	// FindByID returns the account with the given id, or apperr.NotFound.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email, or apperr.NotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// RecordLogin stamps lastloginat and appends the login audit entry in one
	// transaction.
	RecordLogin(ctx context.Context, userID string, loginAt time.Time, entry *audit.Entry) error

	// UpdatePassword swaps the password hash, bumps passwordchangedat, and
	// appends the audit entry in one transaction.
	UpdatePassword(ctx context.Context, userID, passwordHash string, changedAt time.Time, entry *audit.Entry) error
}

// ThrottleRepository tracks failed login attempts per (email, ip) key.
//
// Backed by Redis with a sliding TTL window; a nil/unavailable backend must
// fail open (never lock out logins because the counter store is down).
type ThrottleRepository interface {
	// Attempts returns the current failure count for the key.
	Attempts(ctx context.Context, key string) (int, error)

	// RecordFailure increments the failure count and refreshes the window.
	// It returns the new count.
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)

	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, key string) error
}
