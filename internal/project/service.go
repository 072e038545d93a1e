// Copyright (c) 2026 Adminkit. All rights reserved.

/*
Package project implements project tracking with ownership-scoped authorization.

Any role may read projects. Admins and managers create them (the creator
becomes the owner). Editing and deleting are ownership-sensitive: the service
loads the project first and authorizes against its concrete owner id, so
managers can only touch their own projects while admins touch any. Every
mutation commits atomically with its audit entry.
*/
package project

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huyld/adminkit/internal/audit"
	"github.com/huyld/adminkit/internal/platform/apperr"
	"github.com/huyld/adminkit/internal/platform/sec"
	"github.com/huyld/adminkit/internal/platform/validate"
	"github.com/huyld/adminkit/pkg/uuid"
)

// Service implements the project use cases.
type Service struct {
	repo Repository
}

// NewService constructs a new project [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a filtered page of projects and the total match count.
func (service *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Project, int, error) {
	return service.repo.List(ctx, filter, limit, offset)
}

// Get returns a single project by id.
func (service *Service) Get(ctx context.Context, id string) (*Project, error) {
	return service.repo.FindByID(ctx, id)
}

// CreateInput holds the data required to open a new project.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	BudgetCents int64  `json:"budget_cents"`
}

/*
Create validates and persists a brand new project owned by the actor.

Description: Status defaults to draft and priority to medium when omitted.
The route guard has already checked the create permission; ownership is
assigned here, never taken from input.

Returns:
  - *Project: Created entity
  - err: Validation or storage failures
*/
func (service *Service) Create(ctx context.Context, actor *sec.AuthClaims, input CreateInput, ipAddress string) (*Project, error) {
	if input.Status == "" {
		input.Status = string(StatusDraft)
	}
	if input.Priority == "" {
		input.Priority = string(PriorityMedium)
	}

	validator := &validate.Validator{}
	if err := validator.
		Required("name", input.Name).
		MaxLen("name", input.Name, 200).
		MaxLen("description", input.Description, 2000).
		OneOf("status", input.Status,
			string(StatusDraft), string(StatusActive), string(StatusOnHold),
			string(StatusCompleted), string(StatusArchived)).
		OneOf("priority", input.Priority,
			string(PriorityLow), string(PriorityMedium),
			string(PriorityHigh), string(PriorityCritical)).
		Custom("budget_cents", input.BudgetCents < 0, "Must not be negative").
		Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	ownerID := actor.UserID
	entity := &Project{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Status:      Status(input.Status),
		Priority:    Priority(input.Priority),
		BudgetCents: input.BudgetCents,
		OwnerID:     &ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	entry := audit.NewEntry(
		audit.ActionProjectCreate, actor.UserID, audit.ResourceProject, entity.ID,
		ipAddress, map[string]any{"name": entity.Name},
	)
	if err := service.repo.Create(ctx, entity, entry); err != nil {
		return nil, err
	}

	return entity, nil
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	BudgetCents *int64  `json:"budget_cents"`
}

/*
Update applies a partial edit to a project the actor may touch.

Description: Loads the project, authorizes the edit against its concrete
owner id (admin: any; manager: own only; viewer: never), applies the patch,
and persists it atomically with the audit entry.

Returns:
  - *Project: Updated entity
  - err: NotFound, Forbidden, Validation, or storage failures
*/
func (service *Service) Update(ctx context.Context, actor *sec.AuthClaims, id string, input UpdateInput, ipAddress string) (*Project, error) {
	entity, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !sec.Authorize(actor.Role, sec.ActionEditProject, entity.ownerID(), actor.UserID) {
		return nil, apperr.Forbidden("Insufficient permissions")
	}

	changed := map[string]any{}

	if input.Name != nil {
		validator := &validate.Validator{}
		if err := validator.
			Required("name", *input.Name).
			MaxLen("name", *input.Name, 200).
			Err(); err != nil {
			return nil, err
		}
		entity.Name = strings.TrimSpace(*input.Name)
		changed["name"] = entity.Name
	}

	if input.Description != nil {
		if err := (&validate.Validator{}).MaxLen("description", *input.Description, 2000).Err(); err != nil {
			return nil, err
		}
		entity.Description = strings.TrimSpace(*input.Description)
		changed["description"] = entity.Description
	}

	if input.Status != nil {
		status, ok := ParseStatus(*input.Status)
		if !ok {
			return nil, validate.RequiredError("status", "Must be one of: draft, active, on_hold, completed, archived")
		}
		entity.Status = status
		changed["status"] = string(status)
	}

	if input.Priority != nil {
		priority, ok := ParsePriority(*input.Priority)
		if !ok {
			return nil, validate.RequiredError("priority", "Must be one of: low, medium, high, critical")
		}
		entity.Priority = priority
		changed["priority"] = string(priority)
	}

	if input.BudgetCents != nil {
		if *input.BudgetCents < 0 {
			return nil, validate.RequiredError("budget_cents", "Must not be negative")
		}
		entity.BudgetCents = *input.BudgetCents
		changed["budget_cents"] = *input.BudgetCents
	}

	if len(changed) == 0 {
		return entity, nil
	}

	entry := audit.NewEntry(
		audit.ActionProjectUpdate, actor.UserID, audit.ResourceProject, entity.ID,
		ipAddress, changed,
	)
	if err := service.repo.Update(ctx, entity, entry); err != nil {
		return nil, fmt.Errorf("project_service_update_failed: %w", err)
	}

	return entity, nil
}

/*
Delete removes a project the actor may touch.

Same ownership rule as Update: admins delete any project, managers only
their own, viewers none.
*/
func (service *Service) Delete(ctx context.Context, actor *sec.AuthClaims, id string, ipAddress string) error {
	entity, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !sec.Authorize(actor.Role, sec.ActionDeleteProject, entity.ownerID(), actor.UserID) {
		return apperr.Forbidden("Insufficient permissions")
	}

	entry := audit.NewEntry(
		audit.ActionProjectDelete, actor.UserID, audit.ResourceProject, entity.ID,
		ipAddress, map[string]any{"name": entity.Name},
	)
	return service.repo.Delete(ctx, entity.ID, entry)
}
