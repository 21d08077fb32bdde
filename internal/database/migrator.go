package database

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrator handles database schema migrations
type Migrator struct {
	pool  *pgxpool.Pool
	files fs.FS
}

// NewMigratorWithFS creates a migration runner reading *.sql files from files
//
// Parameters:
//   - pool: PostgreSQL connection pool
//   - files: filesystem holding the migration scripts at its root (usually migrations.FS)
//
// Returns:
//   - *Migrator: New migrator instance
func NewMigratorWithFS(pool *pgxpool.Pool, files fs.FS) *Migrator {
	return &Migrator{
		pool:  pool,
		files: files,
	}
}

// RunMigrations executes all pending database migrations
//
// This function:
//  1. Creates a migrations tracking table if it doesn't exist
//  2. Reads all migration files from the filesystem
//  3. Skips migrations that have already been run
//  4. Executes new migrations in alphabetical order, each in its own transaction
//  5. Records successful migrations in the tracking table
//
// Returns:
//   - int: number of migrations applied by this call
//   - error: If any migration fails
func (m *Migrator) RunMigrations(ctx context.Context) (int, error) {
	log.Println("[Migrator] Starting database migrations...")

	if err := m.createMigrationsTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	appliedMigrations, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrationFiles, err := PendingFiles(m.files, appliedMigrations)
	if err != nil {
		return 0, err
	}

	migrationsRun := 0
	for _, filename := range migrationFiles {
		content, err := fs.ReadFile(m.files, filename)
		if err != nil {
			return migrationsRun, fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		log.Printf("[Migrator]   → Running: %s", filename)
		if err := m.apply(ctx, filename, string(content)); err != nil {
			return migrationsRun, err
		}

		migrationsRun++
	}

	if migrationsRun > 0 {
		log.Printf("[Migrator] ✓ Successfully ran %d new migration(s)", migrationsRun)
	} else {
		log.Println("[Migrator] ✓ All migrations already applied - database is up to date")
	}

	return migrationsRun, nil
}

// PendingFiles lists the *.sql files in files that are not in applied, sorted by name
//
// Files whose name contains "reset" are destructive scripts and are never returned.
func PendingFiles(files fs.FS, applied map[string]bool) ([]string, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var pending []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if strings.Contains(name, "reset") {
			log.Printf("[Migrator]   ⊘ Skipping: %s (reset script)", name)
			continue
		}
		if applied[name] {
			continue
		}
		pending = append(pending, name)
	}
	sort.Strings(pending)

	return pending, nil
}

// apply runs one migration and records it atomically
func (m *Migrator) apply(ctx context.Context, filename, content string) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", filename, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, content); err != nil {
		return fmt.Errorf("failed to run migration %s: %w", filename, err)
	}

	query := `
		INSERT INTO schema_migrations (filename)
		VALUES ($1)
		ON CONFLICT (filename) DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, filename); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", filename, err)
	}

	return tx.Commit(ctx)
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist
//
// Schema:
//   - id: Auto-incrementing primary key
//   - filename: Migration filename (unique)
//   - applied_at: Timestamp when migration was applied
func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := m.pool.Exec(ctx, query)
	return err
}

// getAppliedMigrations returns a map of all migrations that have been applied
func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := m.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}

	return applied, rows.Err()
}
