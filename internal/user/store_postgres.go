// Copyright (c) 2026 Adminkit. All rights reserved.

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huyld/adminkit/internal/audit"
	"github.com/huyld/adminkit/internal/auth"
	"github.com/huyld/adminkit/internal/platform/dberr"
	"github.com/huyld/adminkit/internal/platform/postgres"
)

// conflictEmailMessage is the client-safe text for the unique email violation.
const conflictEmailMessage = "Email is already registered"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the user Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
List returns a filtered page of accounts and the total match count.

Ordered by newest first; UUIDv7 ids keep the tiebreak stable.
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`
		SELECT id, email, passwordhash, fullname, role, isactive,
			passwordchangedat, lastloginat, createdat, updatedat,
			COUNT(*) OVER() AS total_count
		FROM core.account
		WHERE TRUE
	`)

	if filter.Role != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND role = $%d", argID))
		args = append(args, filter.Role)
		argID++
	}

	if filter.IsActive != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND isactive = $%d", argID))
		args = append(args, *filter.IsActive)
		argID++
	}

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (email ILIKE $%d OR fullname ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	queryBuilder.WriteString(" ORDER BY createdat DESC, id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	var users []*auth.User
	total := 0

	for rows.Next() {
		user := &auth.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.FullName,
			&user.Role,
			&user.IsActive,
			&user.PasswordChangedAt,
			&user.LastLoginAt,
			&user.CreatedAt,
			&user.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("user_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	return users, total, nil
}

// FindByID retrieves a single account by its UUID.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	user := &auth.User{}

	err := repository.pool.QueryRow(ctx, `
		SELECT id, email, passwordhash, fullname, role, isactive,
			passwordchangedat, lastloginat, createdat, updatedat
		FROM core.account WHERE id = $1`, id,
	).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.IsActive,
		&user.PasswordChangedAt,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}

	return user, nil
}

// Create persists a new account and its audit entry in one transaction.
// A duplicate email surfaces as a client-safe Conflict.
func (repository *PostgresRepository) Create(ctx context.Context, user *auth.User, entry *audit.Entry) error {
	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO core.account (
				id, email, passwordhash, fullname, role, isactive,
				passwordchangedat, createdat, updatedat
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FullName,
			user.Role,
			user.IsActive,
			user.PasswordChangedAt,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return dberr.Wrap(err, conflictEmailMessage)
		}

		return audit.InsertTx(ctx, tx, entry)
	})
}

// Update persists the mutable account fields and the audit entry atomically.
// Email is immutable after creation and is intentionally absent here.
func (repository *PostgresRepository) Update(ctx context.Context, user *auth.User, entry *audit.Entry) error {
	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		commandTag, err := tx.Exec(ctx, `
			UPDATE core.account
				SET fullname = $1, role = $2, isactive = $3, updatedat = NOW()
				WHERE id = $4`,
			user.FullName,
			user.Role,
			user.IsActive,
			user.ID,
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

// Delete hard-removes the account and writes the audit entry atomically.
// Projects owned by the account keep existing with ownerid set NULL (FK).
func (repository *PostgresRepository) Delete(ctx context.Context, id string, entry *audit.Entry) error {
	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		commandTag, err := tx.Exec(ctx, `DELETE FROM core.account WHERE id = $1`, id)
		if err != nil {
			return dberr.Wrap(err, "")
		}
		if commandTag.RowsAffected() == 0 {
			return dberr.Wrap(pgx.ErrNoRows, "")
		}

		return audit.InsertTx(ctx, tx, entry)
	})
}
