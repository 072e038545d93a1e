// Copyright (c) 2026 Adminkit. All rights reserved.

package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huyld/adminkit/internal/project"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the dashboard Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Stats computes the aggregate snapshot.

Four aggregate queries; cheap at panel scale, so no caching layer.
*/
func (repository *PostgresRepository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ProjectsByStatus: map[string]int{
			string(project.StatusDraft):     0,
			string(project.StatusActive):    0,
			string(project.StatusOnHold):    0,
			string(project.StatusCompleted): 0,
			string(project.StatusArchived):  0,
		},
	}

	err := repository.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE isactive)
		FROM core.account`,
	).Scan(&stats.TotalUsers, &stats.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("dashboard_user_counts_failed: %w", err)
	}

	rows, err := repository.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM core.project
		GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard_project_counts_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("dashboard_project_counts_scan_failed: %w", err)
		}
		stats.ProjectsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dashboard_project_counts_failed: %w", err)
	}

	err = repository.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(budgetcents), 0)
		FROM core.project`,
	).Scan(&stats.TotalBudgetCents)
	if err != nil {
		return nil, fmt.Errorf("dashboard_budget_sum_failed: %w", err)
	}

	err = repository.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM audit.entry
		WHERE createdat > NOW() - INTERVAL '24 hours'`,
	).Scan(&stats.RecentActivityCount)
	if err != nil {
		return nil, fmt.Errorf("dashboard_activity_count_failed: %w", err)
	}

	return stats, nil
}
