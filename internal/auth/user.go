// Copyright (c) 2026 Adminkit. All rights reserved.

package auth

import (
	"time"

	"github.com/huyld/adminkit/internal/platform/sec"
)

// # Domain Entity

// User represents a panel account.
//
// # Security
//
// PasswordHash and PasswordChangedAt are internal security state and are
// never serialized into API responses.
type User struct {
	ID string `json:"id"`

	// Email is the unique login identifier.
	Email string `json:"email"`

	// PasswordHash is the bcrypt digest of the account password.
	PasswordHash string `json:"-"`

	FullName string `json:"full_name"`

	// Role decides what the account may do via the permission matrix.
	Role sec.Role `json:"role"`

	// IsActive gates every authenticated request, not just login.
	// Deactivating an account cuts off its outstanding tokens immediately.
	IsActive bool `json:"is_active"`

	// PasswordChangedAt invalidates tokens issued before the last password
	// change: any token with an earlier iat is rejected.
	PasswordChangedAt time.Time `json:"-"`

	// LastLoginAt is nil until the first successful login.
	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
