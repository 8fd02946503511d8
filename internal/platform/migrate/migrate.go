// Package migrate applies the embedded Postgres schema migrations.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

const migrationTable = "schema_migrations"

//go:embed sql/*.sql
var migrationFS embed.FS

// Apply executes every embedded migration at most once, in file name order.
// Each file runs in its own transaction together with its bookkeeping row.
func Apply(ctx context.Context, db *sql.DB) ([]string, error) {
	return ApplyFS(ctx, db, migrationFS, "sql")
}

// ApplyFS is Apply over an arbitrary filesystem.
func ApplyFS(ctx context.Context, db *sql.DB, fsys fs.FS, root string) ([]string, error) {
	if db == nil {
		return nil, fmt.Errorf("sql db is required")
	}

	files, err := Files(fsys, root)
	if err != nil {
		return nil, err
	}

	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, migrationTable)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return nil, fmt.Errorf("ensure migration table: %w", err)
	}

	var applied []string
	for _, file := range files {
		content, err := fs.ReadFile(fsys, root+"/"+file)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := ExtractUp(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		ran, err := applyOne(ctx, db, file, upSQL)
		if err != nil {
			return applied, err
		}
		if ran {
			applied = append(applied, file)
		}
	}
	return applied, nil
}

func applyOne(ctx context.Context, db *sql.DB, name, upSQL string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin migration transaction %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	// Serialise concurrent migrators (several replicas starting at once).
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(727001)`); err != nil {
		return false, fmt.Errorf("lock migrations: %w", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+migrationTable+` WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", name, err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, upSQL); err != nil {
		return false, fmt.Errorf("exec migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+migrationTable+` (name) VALUES ($1)`, name); err != nil {
		return false, fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit migration %s: %w", name, err)
	}
	return true, nil
}

// Files lists the .sql files under root in apply order.
func Files(fsys fs.FS, root string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// ExtractUp returns the SQL in the -- +migrate Up section, or the whole file.
func ExtractUp(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	upIdx := strings.Index(content, up)
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, down)
	if downIdx == -1 {
		return content[upIdx+len(up):]
	}
	return content[upIdx+len(up) : downIdx]
}
