package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tandas (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    creator TEXT NOT NULL,
    amount INTEGER NOT NULL,
    max_members INTEGER NOT NULL,
    status TEXT NOT NULL,
    current_cycle INTEGER NOT NULL,
    total_cycles INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    started_at INTEGER NOT NULL,
    last_payout_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
    tanda_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    address TEXT NOT NULL,
    status TEXT NOT NULL,
    position INTEGER NOT NULL,
    has_deposited INTEGER NOT NULL,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (tanda_id, address),
    FOREIGN KEY (tanda_id) REFERENCES tandas(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS accounts (
    account TEXT PRIMARY KEY,
    balance INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_members_tanda_id ON members(tanda_id);
CREATE INDEX IF NOT EXISTS idx_tandas_status ON tandas(status);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
