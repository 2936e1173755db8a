package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresConnection opens and verifies a Postgres connection.
func NewPostgresConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the schema if it does not exist. Run once at startup.
func Migrate(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS receipts (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			merchant TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			line_items JSONB NOT NULL,
			surcharges JSONB,
			tax_type TEXT,
			tax_value DOUBLE PRECISION,
			tip_type TEXT,
			tip_value DOUBLE PRECISION,
			split_mode TEXT,
			splits JSONB,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_receipts_user_date ON receipts (user_id, date DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
