package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/familyrecipes/backend/internal/database"
	"github.com/familyrecipes/backend/internal/logging"
)

const schemaTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(32) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	flag.Parse()

	logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logging.Fatal().Msg("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if _, err := db.Exec(schemaTable); err != nil {
		logging.Fatal().Err(err).Msg("failed to create migrations table")
	}

	migrations, err := database.LoadMigrations()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load migrations")
	}

	if *rollback {
		if err := rollbackLast(db, migrations); err != nil {
			logging.Fatal().Err(err).Msg("rollback failed")
		}
		return
	}

	for _, m := range migrations {
		var applied bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version).Scan(&applied)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to check migration status")
		}
		if applied {
			logging.Info().Str("migration", m.Name).Msg("Migration already applied")
			continue
		}

		if err := inTx(db, m.Up, "INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name); err != nil {
			logging.Fatal().Err(err).Str("migration", m.Name).Msg("failed to apply migration")
		}
		logging.Info().Str("migration", m.Name).Msg("Successfully applied migration")
	}

	logging.Info().Msg("All migrations applied successfully.")
}

func rollbackLast(db *sql.DB, migrations []database.Migration) error {
	var version string
	err := db.QueryRow("SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	for _, m := range migrations {
		if m.Version != version {
			continue
		}
		if m.Down == "" {
			return fmt.Errorf("migration %s has no down file", m.Name)
		}
		if err := inTx(db, m.Down, "DELETE FROM schema_migrations WHERE version = $1", m.Version); err != nil {
			return err
		}
		logging.Info().Str("migration", m.Name).Msg("Successfully rolled back migration")
		return nil
	}
	return fmt.Errorf("migration %s is recorded but not embedded", version)
}

// inTx runs script and the bookkeeping statement in one transaction.
func inTx(db *sql.DB, script, record string, args ...any) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(script); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	if _, err := tx.Exec(record, args...); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}
