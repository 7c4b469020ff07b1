// Package metastore persists the local shadow copy of directory entities:
// one row per (entity type, name) holding the last observed fingerprint and
// snapshot. Rows are written only by reconciliation.
//
// Storage is the shared dirctl SQLite database (see internal/database),
// alongside the audit log.
package metastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/dirctl/internal/database"
	"nathanbeddoewebdev/dirctl/internal/domain"
)

// Reader looks up metadata entries.
type Reader interface {
	// Get returns the entry for (t, name), or nil if none exists.
	Get(ctx context.Context, t domain.EntityType, name string) (*Entry, error)
}

// Tx is a batch of metadata writes that become visible together on Commit.
type Tx interface {
	Reader
	// Upsert inserts or replaces the entry keyed by (EntityType, EntityName).
	Upsert(ctx context.Context, e *Entry) error
	Commit() error
	Rollback() error
}

// Store is the persistence interface consumed by the reconciler and the
// meta commands.
type Store interface {
	Reader
	List(ctx context.Context, t domain.EntityType) ([]Entry, error)
	Begin(ctx context.Context) (Tx, error)

	// AcquireLease claims the sync lease for t on behalf of holder. It
	// returns false when another holder owns an unexpired lease.
	AcquireLease(ctx context.Context, t domain.EntityType, holder string, ttl time.Duration) (bool, error)
	// ReleaseLease drops the lease if holder still owns it.
	ReleaseLease(ctx context.Context, t domain.EntityType, holder string) error

	Close() error
}

// SQLiteRepository implements Store backed by a local SQLite database.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("metastore: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("metastore: %w", err)
	}

	r := &SQLiteRepository{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS entity_meta (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			entity_type   TEXT NOT NULL,
			entity_name   TEXT NOT NULL,
			fingerprint   TEXT NOT NULL,
			snapshot_json TEXT NOT NULL DEFAULT '{}',
			last_sync     TEXT NOT NULL,
			UNIQUE(entity_type, entity_name)
		);
		CREATE TABLE IF NOT EXISTS sync_lease (
			entity_type TEXT PRIMARY KEY,
			holder      TEXT NOT NULL,
			expires_at  INTEGER NOT NULL
		);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("metastore: migration failed: %w", err)
	}
	return nil
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Get returns the entry for (t, name), or nil if not found.
func (r *SQLiteRepository) Get(ctx context.Context, t domain.EntityType, name string) (*Entry, error) {
	return get(ctx, r.db, t, name)
}

// List returns all entries of type t ordered by name.
func (r *SQLiteRepository) List(ctx context.Context, t domain.EntityType) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, entity_type, entity_name, fingerprint, snapshot_json, last_sync
		FROM entity_meta WHERE entity_type = ? ORDER BY entity_name`, string(t))
	if err != nil {
		return nil, fmt.Errorf("metastore: query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Begin starts a write batch.
func (r *SQLiteRepository) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("metastore: begin failed: %w", err)
	}
	return &sqliteTx{tx: tx}, nil
}

// AcquireLease claims the sync lease for t. An expired lease, or one already
// held by holder, is taken over.
func (r *SQLiteRepository) AcquireLease(ctx context.Context, t domain.EntityType, holder string, ttl time.Duration) (bool, error) {
	now := r.now().UTC()
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_lease (entity_type, holder, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(entity_type) DO UPDATE SET
			holder = excluded.holder,
			expires_at = excluded.expires_at
		WHERE sync_lease.expires_at <= ? OR sync_lease.holder = excluded.holder`,
		string(t), holder, now.Add(ttl).UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return false, fmt.Errorf("metastore: acquire lease failed: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("metastore: acquire lease failed: %w", err)
	}
	return n == 1, nil
}

// ReleaseLease drops the lease for t if holder owns it.
func (r *SQLiteRepository) ReleaseLease(ctx context.Context, t domain.EntityType, holder string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_lease WHERE entity_type = ? AND holder = ?`, string(t), holder)
	if err != nil {
		return fmt.Errorf("metastore: release lease failed: %w", err)
	}
	return nil
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) Get(ctx context.Context, et domain.EntityType, name string) (*Entry, error) {
	return get(ctx, t.tx, et, name)
}

func (t *sqliteTx) Upsert(ctx context.Context, e *Entry) error {
	if e.LastSync.IsZero() {
		e.LastSync = time.Now().UTC()
	}
	result, err := t.tx.ExecContext(ctx, `
		INSERT INTO entity_meta (entity_type, entity_name, fingerprint, snapshot_json, last_sync)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(entity_type, entity_name) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			snapshot_json = excluded.snapshot_json,
			last_sync = excluded.last_sync`,
		string(e.EntityType), e.EntityName, e.Fingerprint, e.SnapshotJSON, e.LastSync.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("metastore: upsert failed: %w", err)
	}
	if e.ID == 0 {
		if id, err := result.LastInsertId(); err == nil {
			e.ID = id
		}
	}
	return nil
}

func (t *sqliteTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("metastore: commit failed: %w", err)
	}
	return nil
}

func (t *sqliteTx) Rollback() error {
	err := t.tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("metastore: rollback failed: %w", err)
	}
	return nil
}

func get(ctx context.Context, q queryer, t domain.EntityType, name string) (*Entry, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, entity_type, entity_name, fingerprint, snapshot_json, last_sync
		FROM entity_meta WHERE entity_type = ? AND entity_name = ?`, string(t), name)
	e, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*Entry, error) {
	var e Entry
	var entityType, lastSync string
	err := s.Scan(&e.ID, &entityType, &e.EntityName, &e.Fingerprint, &e.SnapshotJSON, &lastSync)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("metastore: scan failed: %w", err)
	}
	e.EntityType = domain.EntityType(entityType)
	e.LastSync, _ = time.Parse(time.RFC3339Nano, lastSync)
	return &e, nil
}
