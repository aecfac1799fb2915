package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/seopilot/seopilot/app/errs"
)

// SchemaStatus describes the outcome of an EnsureSchema call.
type SchemaStatus string

const (
	SchemaCreated SchemaStatus = "created"
	SchemaUpdated SchemaStatus = "updated"
	SchemaExists  SchemaStatus = "exists"
)

// SchemaResult reports what EnsureSchema did.
type SchemaResult struct {
	Status  SchemaStatus
	Details string
}

// requiredTables maps each domain table to standalone DDL used when the
// schema is only partially present. The full-creation path goes through the
// embedded migrations instead; these statements must stay in sync with them.
var requiredTables = map[string]string{
	"campaigns": `CREATE TABLE campaigns (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    frequency INTEGER NOT NULL DEFAULT 1,
    publish_time TEXT NOT NULL DEFAULT '10:00',
    website_url TEXT NOT NULL DEFAULT '',
    channels TEXT NOT NULL DEFAULT '[]',
    auto_approve INTEGER NOT NULL DEFAULT 0,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	"keywords": `CREATE TABLE keywords (
    id TEXT PRIMARY KEY,
    keyword TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'Available',
    created_at TEXT NOT NULL
)`,
	"content": `CREATE TABLE content (
    id TEXT PRIMARY KEY,
    campaign_id TEXT NOT NULL,
    keyword TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL DEFAULT '',
    meta_description TEXT NOT NULL DEFAULT '',
    schema_markup TEXT NOT NULL DEFAULT '',
    social_snippet TEXT NOT NULL DEFAULT '',
    images TEXT NOT NULL DEFAULT '[]',
    platforms TEXT NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'Pending',
    scheduled_at TEXT,
    due_now INTEGER NOT NULL DEFAULT 0,
    live_url TEXT NOT NULL DEFAULT '',
    published_at TEXT,
    error_detail TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
}

const schemaRemediation = "grant write access to the database file, or create the three tables " +
	"(campaigns, keywords, content) by hand and restart"

// Provisioner ensures the backing store carries the three domain tables.
type Provisioner struct {
	db *DB
}

// NewProvisioner creates a schema provisioner over an open database.
func NewProvisioner(db *DB) *Provisioner {
	return &Provisioner{db: db}
}

// CheckPath verifies that the directory holding the database file resolves.
// A previously-recorded path whose directory vanished yields a NotFoundError
// so the caller can fall back to creating the store at the default location.
func CheckPath(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return errs.NewNotFound("base", path)
	} else if err != nil {
		return fmt.Errorf("failed to stat database directory: %w", err)
	}
	return nil
}

// EnsureSchema makes sure all required tables exist. Idempotent: a second
// call on a fully-provisioned store performs no writes and reports "exists".
// Schema changes are additive only; existing tables are never altered.
func (p *Provisioner) EnsureSchema(ctx context.Context) (*SchemaResult, error) {
	existing, err := p.listTables(ctx)
	if err != nil {
		return nil, p.classify("schema introspection", err)
	}

	var missing []string
	for name := range requiredTables {
		if !existing[name] {
			missing = append(missing, name)
		}
	}

	switch {
	case len(missing) == 0:
		return &SchemaResult{
			Status:  SchemaExists,
			Details: "all tables already provisioned",
		}, nil

	case len(missing) == len(requiredTables):
		// Fresh store: let the migrations build it so the migrate
		// bookkeeping is in place for future versions.
		version, dirty, err := RunMigrations(p.db)
		if err != nil {
			return nil, p.classify("schema creation", err)
		}
		return &SchemaResult{
			Status:  SchemaCreated,
			Details: fmt.Sprintf("created schema at migration version %d (dirty=%t)", version, dirty),
		}, nil

	default:
		// Partially provisioned (externally managed store): fill the gaps
		// without touching what is already there.
		for _, name := range missing {
			if _, err := p.db.ExecContext(ctx, requiredTables[name]); err != nil {
				return nil, p.classify(fmt.Sprintf("creating table %s", name), err)
			}
		}
		return &SchemaResult{
			Status:  SchemaUpdated,
			Details: fmt.Sprintf("created missing tables: %s", strings.Join(missing, ", ")),
		}, nil
	}
}

func (p *Provisioner) listTables(ctx context.Context) (map[string]bool, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		  AND name != 'schema_migrations'
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables[name] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table names: %w", err)
	}
	return tables, nil
}

// classify maps low-level sqlite failures onto the error taxonomy. Write
// failures on a read-only store are permission problems with a manual-setup
// remediation, not transient errors.
func (p *Provisioner) classify(op string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "readonly database") ||
		strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "unable to open database") {
		return errs.NewPermissionError(op, schemaRemediation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
