// Copyright (c) 2026 Adminkit. All rights reserved.

/*
Package user implements administrative account management.

Admins create, edit, deactivate, and delete panel accounts here; the
self-service surface (own profile, own password) lives in the auth domain.
Every mutation commits atomically with its audit entry.
*/
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huyld/adminkit/internal/audit"
	"github.com/huyld/adminkit/internal/auth"
	"github.com/huyld/adminkit/internal/platform/sec"
	"github.com/huyld/adminkit/internal/platform/validate"
	"github.com/huyld/adminkit/pkg/uuid"
)

// Service implements the account administration use cases.
type Service struct {
	repo           Repository
	passwordHasher *sec.PasswordHasher
}

// NewService constructs a new user [Service].
func NewService(repo Repository, passwordHasher *sec.PasswordHasher) *Service {
	return &Service{
		repo:           repo,
		passwordHasher: passwordHasher,
	}
}

// List returns a filtered page of accounts and the total match count.
func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	return service.repo.List(ctx, filter, limit, offset)
}

// Get returns a single account by id.
func (service *Service) Get(ctx context.Context, id string) (*auth.User, error) {
	return service.repo.FindByID(ctx, id)
}

// CreateInput holds the data required to enroll a new account.
type CreateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

/*
Create validates, hashes, and persists a brand new account.

Description: Admin-only enrollment. The account starts active with
passwordchangedat set to now, so tokens can be issued immediately.

Returns:
  - *auth.User: Created entity
  - err: Validation, Conflict (duplicate email), or storage failures
*/
func (service *Service) Create(ctx context.Context, actorID string, input CreateInput, ipAddress string) (*auth.User, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, auth.PasswordMinLength).
		MaxLen("password", input.Password, auth.PasswordMaxLength).
		Required("full_name", input.FullName).
		MaxLen("full_name", input.FullName, 255).
		OneOf("role", input.Role, string(sec.RoleAdmin), string(sec.RoleManager), string(sec.RoleViewer)).
		Err(); err != nil {
		return nil, err
	}

	role, _ := sec.ParseRole(input.Role)

	passwordHash, err := service.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user_service_hash_failed: %w", err)
	}

	// Time-sortable id keeps the account index append-friendly.
	now := time.Now()
	account := &auth.User{
		ID:                uuid.New(),
		Email:             strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:      passwordHash,
		FullName:          strings.TrimSpace(input.FullName),
		Role:              role,
		IsActive:          true,
		PasswordChangedAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	entry := audit.NewEntry(
		audit.ActionUserCreate, actorID, audit.ResourceUser, account.ID,
		ipAddress, map[string]any{"email": account.Email, "role": string(role)},
	)
	if err := service.repo.Create(ctx, account, entry); err != nil {
		return nil, err
	}

	return account, nil
}

// UpdateInput is a partial update; nil fields are left untouched.
// Email is immutable after creation and has no field here.
type UpdateInput struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

/*
Update applies a partial edit to an account.

Description: Covers rename, role change, and activation toggle. Deactivation
takes effect on the target's very next request because the middleware
re-checks the active flag per request. A role change reaches outstanding
access tokens at their next refresh.

Returns:
  - *auth.User: Updated entity
  - err: Validation, NotFound, or storage failures
*/
func (service *Service) Update(ctx context.Context, actorID, id string, input UpdateInput, ipAddress string) (*auth.User, error) {
	account, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := map[string]any{}

	if input.FullName != nil {
		validator := &validate.Validator{}
		if err := validator.
			Required("full_name", *input.FullName).
			MaxLen("full_name", *input.FullName, 255).
			Err(); err != nil {
			return nil, err
		}
		account.FullName = strings.TrimSpace(*input.FullName)
		changed["full_name"] = account.FullName
	}

	if input.Role != nil {
		role, ok := sec.ParseRole(*input.Role)
		if !ok {
			return nil, validate.RequiredError("role", "Must be one of: admin, manager, viewer")
		}
		account.Role = role
		changed["role"] = string(role)
	}

	if input.IsActive != nil {
		account.IsActive = *input.IsActive
		changed["is_active"] = *input.IsActive
	}

	if len(changed) == 0 {
		return account, nil
	}

	entry := audit.NewEntry(
		audit.ActionUserUpdate, actorID, audit.ResourceUser, account.ID,
		ipAddress, changed,
	)
	if err := service.repo.Update(ctx, account, entry); err != nil {
		return nil, err
	}

	return account, nil
}

/*
Delete hard-removes an account.

Description: The audit trail keeps the actor and target ids as plain values,
so the entry outlives the row. Projects owned by the account are orphaned
(ownerid set NULL), leaving them editable by admins only.
*/
func (service *Service) Delete(ctx context.Context, actorID, id string, ipAddress string) error {
	account, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	entry := audit.NewEntry(
		audit.ActionUserDelete, actorID, audit.ResourceUser, account.ID,
		ipAddress, map[string]any{"email": account.Email},
	)
	return service.repo.Delete(ctx, account.ID, entry)
}
