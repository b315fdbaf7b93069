// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tandaclub/tanda/internal/models"
	"github.com/tandaclub/tanda/internal/treasury"
)

var (
	ErrTandaNotFound = errors.New("tanda not found")
	ErrUserNotFound  = errors.New("user not found")
)

// Config is the global admin configuration, set once at initialization
// and adjustable by the admin afterwards.
type Config struct {
	// Admin is the user ID holding the admin role.
	Admin string

	// CommissionAccount receives the per-deposit commission.
	CommissionAccount string

	// CommissionBps is the commission in basis points (100 = 1%).
	CommissionBps int
}

// TandaView is the scratch state handed to a mutation callback by
// Store.WithTanda. Tanda and Roster are private copies the callback may
// mutate freely; Transfer is bound to the same database transaction.
// Nothing is persisted unless the callback returns nil.
type TandaView struct {
	Tanda    *models.Tanda
	Roster   models.Roster
	Config   *Config
	Transfer func(from, to string, amount int64) error
}

// Store defines the persistence interface for the tanda service.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	treasury.Ledger

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetConfig returns the admin configuration, or nil if the service
	// has not been initialized yet.
	GetConfig(ctx context.Context) (*Config, error)
	SaveConfig(ctx context.Context, cfg *Config) error

	// NextTandaID atomically increments the tanda counter and returns
	// the new 8-digit identifier.
	NextTandaID(ctx context.Context) (string, error)

	// CreateTanda persists a new tanda together with its initial roster.
	CreateTanda(ctx context.Context, tanda *models.Tanda, roster models.Roster) error

	GetTanda(ctx context.Context, id string) (*models.Tanda, error)

	// GetRoster returns the tanda's members in admission order; an empty
	// roster when none have been recorded.
	GetRoster(ctx context.Context, id string) (models.Roster, error)

	ListTandas(ctx context.Context) ([]*models.Tanda, error)

	// WithTanda runs fn inside one transaction holding the tanda, its
	// roster, and the admin config. If fn returns nil the (possibly
	// mutated) tanda and roster are written back and the transaction
	// commits; any error rolls everything back, transfers included.
	WithTanda(ctx context.Context, id string, fn func(view *TandaView) error) error

	// Close releases any resources held by the store.
	Close() error
}
