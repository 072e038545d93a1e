// Copyright (c) 2026 Adminkit. All rights reserved.

package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huyld/adminkit/internal/audit"
	"github.com/huyld/adminkit/internal/platform/dberr"
	"github.com/huyld/adminkit/internal/platform/postgres"
)

// sortColumns whitelists the ORDER BY targets; anything else falls back to
// the default ordering. Never interpolate raw client input into SQL.
var sortColumns = map[string]string{
	"created_at": "createdat",
	"name":       "name",
	"priority":   "priority",
	"budget":     "budgetcents",
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the project Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns a filtered page of projects and the total match count.

Defaults to newest first; UUIDv7 ids keep the tiebreak stable.
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Project, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`
		SELECT id, name, description, status, priority, budgetcents, ownerid,
			createdat, updatedat,
			COUNT(*) OVER() AS total_count
		FROM core.project
		WHERE TRUE
	`)

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND status = $%d", argID))
		args = append(args, filter.Status)
		argID++
	}

	if filter.Priority != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND priority = $%d", argID))
		args = append(args, filter.Priority)
		argID++
	}

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	if column, ok := sortColumns[filter.SortBy]; ok {
		direction := "ASC"
		if filter.SortDesc {
			direction = "DESC"
		}
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s %s, id DESC", column, direction))
	} else {
		queryBuilder.WriteString(" ORDER BY createdat DESC, id DESC")
	}

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	var projects []*Project
	total := 0

	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.Status,
			&project.Priority,
			&project.BudgetCents,
			&project.OwnerID,
			&project.CreatedAt,
			&project.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("project_list_scan_failed: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	return projects, total, nil
}

// FindByID retrieves a single project by its UUID.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	project := &Project{}

	err := repository.pool.QueryRow(ctx, `
		SELECT id, name, description, status, priority, budgetcents, ownerid,
			createdat, updatedat
		FROM core.project WHERE id = $1`, id,
	).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Status,
		&project.Priority,
		&project.BudgetCents,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return project, nil
}

// Create persists a new project and its audit entry in one transaction.
func (repository *PostgresRepository) Create(ctx context.Context, project *Project, entry *audit.Entry) error {
	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO core.project (
				id, name, description, status, priority, budgetcents, ownerid,
				createdat, updatedat
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			project.ID,
			project.Name,
			project.Description,
			project.Status,
			project.Priority,
			project.BudgetCents,
			project.OwnerID,
			project.CreatedAt,
			project.UpdatedAt,
		)
		if err != nil {
			return dberr.Wrap(err, "")
		}

		return audit.InsertTx(ctx, tx, entry)
	})
}

// Update persists the mutable project fields and the audit entry atomically.
func (repository *PostgresRepository) Update(ctx context.Context, project *Project, entry *audit.Entry) error {
	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		commandTag, err := tx.Exec(ctx, `
			UPDATE core.project
				SET name = $1, description = $2, status = $3, priority = $4,
					budgetcents = $5, updatedat = NOW()
				WHERE id = $6`,
			project.Name,
			project.Description,
			project.Status,
			project.Priority,
			project.BudgetCents,
			project.ID,
		)
		if err != nil {
			return dberr.Wrap(err, "")
		}
		if commandTag.RowsAffected() == 0 {
			return dberr.Wrap(pgx.ErrNoRows, "")
		}

		return audit.InsertTx(ctx, tx, entry)
	})
}

// Delete removes the project and writes the audit entry atomically.
func (repository *PostgresRepository) Delete(ctx context.Context, id string, entry *audit.Entry) error {
	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		commandTag, err := tx.Exec(ctx, `DELETE FROM core.project WHERE id = $1`, id)
		if err != nil {
			return dberr.Wrap(err, "")
		}
		if commandTag.RowsAffected() == 0 {
			return dberr.Wrap(pgx.ErrNoRows, "")
		}

		return audit.InsertTx(ctx, tx, entry)
	})
}
