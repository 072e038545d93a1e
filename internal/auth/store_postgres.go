// Copyright (c) 2026 Adminkit. All rights reserved.

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huyld/adminkit/internal/audit"
	"github.com/huyld/adminkit/internal/platform/dberr"
	"github.com/huyld/adminkit/internal/platform/postgres"
)

// accountColumns is the canonical select list for core.account.
const accountColumns = `
	id, email, passwordhash, fullname, role, isactive,
	passwordchangedat, lastloginat, createdat, updatedat`

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
FindByID retrieves a single account by its UUID.

Returns:
  - *User: The matched entity
  - err: apperr.NotFound if no row matches
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + accountColumns + ` FROM core.account WHERE id = $1`
	return repository.scanOne(repository.pool.QueryRow(ctx, query, id))
}

/*
FindByEmail retrieves a single account by its unique email.

Lookup is case-insensitive: emails are stored lowercased and the input is
folded before comparison.
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + accountColumns + ` FROM core.account WHERE email = $1`
	return repository.scanOne(repository.pool.QueryRow(ctx, query, strings.ToLower(email)))
}

/*
RecordLogin stamps the last successful login time.

The timestamp update and the login audit entry commit in one transaction, so
the trail never shows a login the account table does not reflect.
*/
func (repository *PostgresUserRepository) RecordLogin(ctx context.Context, userID string, loginAt time.Time, entry *audit.Entry) error {
	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		commandTag, err := tx.Exec(ctx,
			`UPDATE core.account SET lastloginat = $1, updatedat = NOW() WHERE id = $2`,
			loginAt, userID,
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

/*
UpdatePassword swaps the stored hash and bumps passwordchangedat.

Bumping passwordchangedat is what invalidates every token issued before this
moment; the audit entry commits in the same transaction.
*/
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string, changedAt time.Time, entry *audit.Entry) error {
	return postgres.WithTx(ctx, repository.pool, func(tx pgx.Tx) error {
		commandTag, err := tx.Exec(ctx,
			`UPDATE core.account
				SET passwordhash = $1, passwordchangedat = $2, updatedat = NOW()
				WHERE id = $3`,
			passwordHash, changedAt, userID,
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

// scanOne maps a single account row onto the [User] entity.
func (repository *PostgresUserRepository) scanOne(row pgx.Row) (*User, error) {
	user := &User{}

	err := row.Scan(
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
