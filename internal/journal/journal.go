// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package journal

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-session-keeper/migrations"
	"github.com/MKhiriev/go-session-keeper/models"
)

const eventsTable = "session_events"

// sqliteJournal is the sqlite-backed implementation of [Journal].
type sqliteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the journal database at path and runs
// pending migrations. Returns an error if the database cannot be opened or
// migrated.
func NewSQLiteJournal(path string) (Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	if err := migrations.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqliteJournal{db: db}, nil
}

// NewJournalWithDB wraps an already-open database handle. Used by tests to
// inject a mock; migrations are not run.
func NewJournalWithDB(db *sql.DB) Journal {
	return &sqliteJournal{db: db}
}

// Record implements [Journal].
func (j *sqliteJournal) Record(ctx context.Context, account, event, detail string) error {
	query, args, err := sq.Insert(eventsTable).
		Columns("account", "event", "detail").
		Values(account, event, detail).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := j.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session event: %w", err)
	}

	return nil
}

// RecentEvents implements [Journal].
func (j *sqliteJournal) RecentEvents(ctx context.Context, account string, limit uint64) ([]models.SessionEvent, error) {
	query, args, err := sq.Select("id", "account", "event", "detail", "created_at").
		From(eventsTable).
		Where(sq.Eq{"account": account}).
		OrderBy("id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select session events: %w", err)
	}
	defer rows.Close()

	var events []models.SessionEvent
	for rows.Next() {
		var e models.SessionEvent
		if err := rows.Scan(&e.ID, &e.Account, &e.Event, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}

	return events, nil
}

// Close implements [Journal].
func (j *sqliteJournal) Close() error {
	return j.db.Close()
}
