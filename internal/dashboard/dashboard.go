// Copyright (c) 2026 Adminkit. All rights reserved.

/*
Package dashboard aggregates the headline statistics for the panel home view.

Read-only; every authenticated role may see the numbers.
*/
package dashboard

import "context"

// Stats is the aggregate snapshot returned by the stats endpoint.
type Stats struct {
	// TotalUsers counts every account, active or not.
	TotalUsers int `json:"total_users"`

	// ActiveUsers counts accounts with isactive = true.
	ActiveUsers int `json:"active_users"`

	// ProjectsByStatus maps each lifecycle state to its project count.
	// States with zero projects are present with a 0 value.
	ProjectsByStatus map[string]int `json:"projects_by_status"`

	// TotalBudgetCents sums budgets across every project.
	TotalBudgetCents int64 `json:"total_budget_cents"`

	// RecentActivityCount counts audit entries from the last 24 hours.
	RecentActivityCount int `json:"recent_activity_count"`
}

// Repository defines the aggregation contract.
type Repository interface {
	// Stats computes the full snapshot in one round of aggregate queries.
	Stats(ctx context.Context) (*Stats, error)
}

// Service exposes the dashboard use case.
type Service struct {
	repo Repository
}

// NewService constructs a new dashboard [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Stats returns the current aggregate snapshot.
func (service *Service) Stats(ctx context.Context) (*Stats, error) {
	return service.repo.Stats(ctx)
}
