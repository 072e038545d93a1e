// Copyright (c) 2026 Adminkit. All rights reserved.

package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huyld/adminkit/internal/platform/dberr"
)

// insertQuery is shared by the standalone and the transactional writer.
const insertQuery = `
	INSERT INTO audit.entry (
		id, action, actorid, resourcetype, resourceid, ipaddress, detail, createdat
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// InsertTx appends an audit entry inside a caller-owned transaction.
//
// Domain stores call this right after their own write so that the mutation
// and its audit record commit together: if this insert fails, the caller's
// transaction rolls back and the mutation never becomes visible.
func InsertTx(context context.Context, tx pgx.Tx, entry *Entry) error {
	detailJSON, err := marshalDetail(entry.Detail)
	if err != nil {
		return err
	}

	_, err = tx.Exec(context, insertQuery,
		entry.ID,
		entry.Action,
		entry.ActorID,
		entry.ResourceType,
		entry.ResourceID,
		entry.IPAddress,
		detailJSON,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit_insert_tx_failed: %w", err)
	}

	return nil
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the audit Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Record appends a single entry outside any surrounding transaction.

Used for actions whose only mutation IS the audit record (none today) and by
tests; everything else goes through [InsertTx].
*/
func (repository *PostgresRepository) Record(context context.Context, entry *Entry) error {
	detailJSON, err := marshalDetail(entry.Detail)
	if err != nil {
		return err
	}

	_, err = repository.pool.Exec(context, insertQuery,
		entry.ID,
		entry.Action,
		entry.ActorID,
		entry.ResourceType,
		entry.ResourceID,
		entry.IPAddress,
		detailJSON,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit_record_failed: %w", err)
	}

	return nil
}

/*
List returns a filtered, newest-first page of entries and the total count.

Uses COUNT(*) OVER() so the total arrives with the page in one round-trip.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`
		SELECT id, action, actorid, resourcetype, resourceid, ipaddress, detail, createdat,
			COUNT(*) OVER() AS total_count
		FROM audit.entry
		WHERE TRUE
	`)

	if filter.Action != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND action = $%d", argID))
		args = append(args, filter.Action)
		argID++
	}

	if filter.ResourceType != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND resourcetype = $%d", argID))
		args = append(args, filter.ResourceType)
		argID++
	}

	if filter.ActorID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND actorid = $%d", argID))
		args = append(args, filter.ActorID)
		argID++
	}

	queryBuilder.WriteString(" ORDER BY createdat DESC, id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}
	defer rows.Close()

	var entries []*Entry
	total := 0

	for rows.Next() {
		entry := &Entry{}
		var detailJSON []byte

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.ActorID,
			&entry.ResourceType,
			&entry.ResourceID,
			&entry.IPAddress,
			&detailJSON,
			&entry.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("audit_list_scan_failed: %w", err)
		}

		if len(detailJSON) > 0 {
			if err := json.Unmarshal(detailJSON, &entry.Detail); err != nil {
				return nil, 0, fmt.Errorf("audit_list_detail_decode_failed: %w", err)
			}
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "")
	}

	return entries, total, nil
}

// marshalDetail encodes the detail blob for the JSONB column.
// An empty detail is stored as an empty JSON object, never NULL.
func marshalDetail(detail map[string]any) ([]byte, error) {
	if len(detail) == 0 {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("audit_detail_encode_failed: %w", err)
	}
	return data, nil
}
