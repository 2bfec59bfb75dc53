package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// PostgresStore persists entries in an activity_log table with JSONB details.
// Deployments that outgrow the snapshot cache point the service here instead.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by the operator or a migration step before first use.
const Schema = `
CREATE TABLE IF NOT EXISTS activity_log (
	id            TEXT PRIMARY KEY,
	identity_id   TEXT NOT NULL,
	identity_name TEXT NOT NULL,
	action        TEXT NOT NULL,
	module        TEXT NOT NULL,
	details       JSONB,
	ts            TIMESTAMPTZ NOT NULL,
	seq           BIGSERIAL
);
CREATE INDEX IF NOT EXISTS activity_log_identity_idx ON activity_log (identity_id);
CREATE INDEX IF NOT EXISTS activity_log_ts_idx ON activity_log (ts);
`

// likePattern wraps the term in wildcards and escapes LIKE metacharacters so
// user input matches literally, same contract as the in-memory store's
// substring filter.
func likePattern(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
	}
	const query = `
		INSERT INTO activity_log (id, identity_id, identity_name, action, module, details, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.IdentityID, entry.IdentityName, entry.Action, entry.Module, details, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}
	return nil
}

// Query pushes the filter into SQL. Ordering by the insertion sequence keeps
// the same stable-order contract as the in-memory store.
func (s *PostgresStore) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.IdentityID != "" {
		conds = append(conds, "identity_id = "+arg(filter.IdentityID))
	}
	if filter.Module != "" {
		conds = append(conds, "module ILIKE "+arg(likePattern(filter.Module)))
	}
	if filter.Action != "" {
		conds = append(conds, "action ILIKE "+arg(likePattern(filter.Action)))
	}
	if filter.Search != "" {
		p := arg(likePattern(filter.Search))
		conds = append(conds, fmt.Sprintf("(identity_name ILIKE %s OR action ILIKE %s OR module ILIKE %s)", p, p, p))
	}
	if !filter.Since.IsZero() {
		conds = append(conds, "ts >= "+arg(filter.Since))
	}

	query := "SELECT id, identity_id, identity_name, action, module, details, ts FROM activity_log"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.IdentityID, &e.IdentityName, &e.Action, &e.Module, &details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal details: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity log: %w", err)
	}
	return entries, nil
}
