package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/dirctl/internal/database"
)

// Sink is the write-only view of the audit log used by services and the
// reconciler.
type Sink interface {
	Record(ctx context.Context, entry *AuditEntry) error
}

// Discard is a Sink that drops every entry.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(context.Context, *AuditEntry) error { return nil }

// Filter narrows a Query. Zero-valued fields match every row.
type Filter struct {
	ObjectType string
	ObjectID   string
	Actor      string
	Action     string
	Outcome    string
	Since      time.Time
	Limit      int
}

// DefaultLimit caps a Query whose Filter has no Limit.
const DefaultLimit = 25

func (f Filter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	eq := func(col, v string) {
		if v != "" {
			clauses = append(clauses, col+" = ?")
			args = append(args, v)
		}
	}
	eq("object_type", f.ObjectType)
	eq("object_id", f.ObjectID)
	eq("actor", f.Actor)
	eq("action", f.Action)
	eq("outcome", f.Outcome)
	if !f.Since.IsZero() {
		clauses = append(clauses, "recorded_at >= ?")
		args = append(args, f.Since.UnixNano())
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Log stores audit entries in the shared SQLite database.
type Log struct {
	db *sql.DB
}

// Open opens the audit log in the default database.
func Open() (*Log, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt opens the audit log in the database at path, creating the table on
// first use.
func OpenAt(path string) (*Log, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("auditlog: creating schema: %w", err)
	}
	return &Log{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_entries (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    recorded_at INTEGER NOT NULL,
    actor       TEXT    NOT NULL DEFAULT '',
    action      TEXT    NOT NULL,
    object_type TEXT    NOT NULL DEFAULT '',
    object_id   TEXT    NOT NULL DEFAULT '',
    outcome     TEXT    NOT NULL DEFAULT '',
    detail      TEXT    NOT NULL DEFAULT '',
    duration_ms INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS audit_entries_recorded_at ON audit_entries(recorded_at);
CREATE INDEX IF NOT EXISTS audit_entries_object ON audit_entries(object_type, object_id);
`

const (
	insertColumns = "recorded_at, actor, action, object_type, object_id, outcome, detail, duration_ms"
	columns       = "id, " + insertColumns
)

// Record inserts entry, assigning its ID. Actor defaults to the one carried
// by ctx and Timestamp to now.
func (l *Log) Record(ctx context.Context, entry *AuditEntry) error {
	if entry.Actor == "" {
		entry.Actor = ActorFromContext(ctx)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	res, err := l.db.ExecContext(ctx,
		"INSERT INTO audit_entries ("+insertColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		entry.Timestamp.UnixNano(), entry.Actor, entry.Action, entry.ObjectType,
		entry.ObjectID, entry.Outcome, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("auditlog: recording %s: %w", entry.Action, err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("auditlog: %w", err)
	}
	return nil
}

// Query returns entries matching f, newest first.
func (l *Log) Query(ctx context.Context, f Filter) ([]AuditEntry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	where, args := f.where()
	rows, err := l.db.QueryContext(ctx,
		"SELECT "+columns+" FROM audit_entries"+where+" ORDER BY recorded_at DESC, id DESC LIMIT ?",
		append(args, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query: %w", err)
	}
	defer rows.Close()

	entries := []AuditEntry{}
	for rows.Next() {
		var (
			e  AuditEntry
			ns int64
		)
		if err := rows.Scan(&e.ID, &ns, &e.Actor, &e.Action, &e.ObjectType, &e.ObjectID, &e.Outcome, &e.Detail, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("auditlog: scan: %w", err)
		}
		e.Timestamp = time.Unix(0, ns).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PruneBefore deletes entries recorded before cutoff and reports how many
// were removed.
func (l *Log) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx, "DELETE FROM audit_entries WHERE recorded_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("auditlog: prune: %w", err)
	}
	return res.RowsAffected()
}

func (l *Log) Close() error {
	return l.db.Close()
}
