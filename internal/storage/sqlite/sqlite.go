// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface, treasury ledger included.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/tandaclub/tanda/internal/models"
	"github.com/tandaclub/tanda/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser persists a new user account.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?", email))
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?", id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Config keys for the key/value config table.
const (
	keyAdmin             = "admin"
	keyCommissionAccount = "commission_account"
	keyCommissionBps     = "commission_bps"
	keyTandaCount        = "tanda_count"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getConfig(ctx context.Context, q querier) (*storage.Config, error) {
	var admin string
	err := q.QueryRowContext(ctx,
		"SELECT value FROM config WHERE key = ?", keyAdmin).Scan(&admin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not initialized yet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &storage.Config{Admin: admin}
	if err := q.QueryRowContext(ctx,
		"SELECT value FROM config WHERE key = ?", keyCommissionAccount).Scan(&cfg.CommissionAccount); err != nil {
		return nil, fmt.Errorf("failed to read commission account: %w", err)
	}
	var bps string
	if err := q.QueryRowContext(ctx,
		"SELECT value FROM config WHERE key = ?", keyCommissionBps).Scan(&bps); err != nil {
		return nil, fmt.Errorf("failed to read commission bps: %w", err)
	}
	cfg.CommissionBps, err = strconv.Atoi(bps)
	if err != nil {
		return nil, fmt.Errorf("invalid commission bps %q: %w", bps, err)
	}
	return cfg, nil
}

// GetConfig returns the admin configuration, nil if not initialized.
func (s *SQLiteStore) GetConfig(ctx context.Context) (*storage.Config, error) {
	return getConfig(ctx, s.db)
}

// SaveConfig writes the admin configuration.
func (s *SQLiteStore) SaveConfig(ctx context.Context, cfg *storage.Config) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pairs := map[string]string{
		keyAdmin:             cfg.Admin,
		keyCommissionAccount: cfg.CommissionAccount,
		keyCommissionBps:     strconv.Itoa(cfg.CommissionBps),
	}
	for key, value := range pairs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO config (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value,
		); err != nil {
			return fmt.Errorf("failed to write config %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// NextTandaID atomically increments the tanda counter and returns the
// new 8-digit identifier.
func (s *SQLiteStore) NextTandaID(ctx context.Context) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var value string
	err = tx.QueryRowContext(ctx,
		"SELECT value FROM config WHERE key = ?", keyTandaCount).Scan(&value)
	count := 0
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return "", fmt.Errorf("failed to read tanda counter: %w", err)
	default:
		count, err = strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("invalid tanda counter %q: %w", value, err)
		}
	}

	count++
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO config (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		keyTandaCount, strconv.Itoa(count),
	); err != nil {
		return "", fmt.Errorf("failed to write tanda counter: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return fmt.Sprintf("%08d", count), nil
}
