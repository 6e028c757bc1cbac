package database

import (
	"context"
	"fmt"
	"log"
)

// Migrate applies all pending migrations of the database's dialect
func (db *Database) Migrate(ctx context.Context) error {
	// Ensure migrations table exists
	if _, err := db.mainDB.ExecContext(ctx, db.dialect.MigrationsTableDDL()); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	migrations, err := getEmbeddedMigrationFiles(db.dialect.MigrationsDir())
	if err != nil {
		return err
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.FileName] {
			continue
		}
		if err := db.applyMigration(ctx, migration); err != nil {
			log.Printf("[DATABASE] Failed to apply migration %s: %v", migration.FileName, err)
			return err
		}
		log.Printf("[DATABASE] Applied migration %s", migration.FileName)
	}
	return nil
}

// getAppliedMigrations returns a set of applied migration filenames
func (db *Database) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := db.mainDB.QueryContext(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fname string
		if err := rows.Scan(&fname); err != nil {
			return nil, fmt.Errorf("failed to scan migration filename: %w", err)
		}
		applied[fname] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration rows: %w", err)
	}
	return applied, nil
}

// applyMigration runs the statements of one migration and records it in one transaction
func (db *Database) applyMigration(ctx context.Context, migration *MigrationFile) error {
	content, err := readEmbeddedMigrationContent(migration)
	if err != nil {
		return err
	}

	tx, err := db.mainDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", migration.FileName, err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(content) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.FileName, err)
		}
	}

	// Record the migration as applied
	if _, err := tx.ExecContext(ctx, db.dialect.Rebind(`INSERT INTO schema_migrations (filename) VALUES (?)`), migration.FileName); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.FileName, err)
	}
	return tx.Commit()
}
