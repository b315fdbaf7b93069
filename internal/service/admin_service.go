package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tandaclub/tanda/internal/engine"
	"github.com/tandaclub/tanda/internal/storage"
)

var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotAdmin           = errors.New("admin only")
)

// AdminService gates global configuration: the admin role, the
// commission settings, and the treasury faucet. Per-tanda state is never
// touched here.
type AdminService struct {
	store storage.Store
}

// NewAdminService creates an AdminService with the given storage backend.
func NewAdminService(store storage.Store) *AdminService {
	return &AdminService{store: store}
}

// Initialize writes the initial admin configuration. Runs once;
// subsequent calls fail with ErrAlreadyInitialized.
func (s *AdminService) Initialize(ctx context.Context, admin, commissionAccount string, commissionBps int) error {
	if commissionBps < 0 || commissionBps > engine.MaxCommissionBps {
		return engine.ErrCommissionTooHigh
	}

	existing, err := s.store.GetConfig(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrAlreadyInitialized
	}

	cfg := &storage.Config{
		Admin:             admin,
		CommissionAccount: commissionAccount,
		CommissionBps:     commissionBps,
	}
	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	slog.Info("initialized", "admin", admin, "commission_bps", commissionBps)
	return nil
}

// GetConfig returns the current configuration, or ErrNotInitialized.
func (s *AdminService) GetConfig(ctx context.Context) (*storage.Config, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrNotInitialized
	}
	return cfg, nil
}

// SetCommission updates the commission sink and rate. Admin only; rate
// capped at 10%.
func (s *AdminService) SetCommission(ctx context.Context, caller, commissionAccount string, commissionBps int) error {
	if commissionBps < 0 || commissionBps > engine.MaxCommissionBps {
		return engine.ErrCommissionTooHigh
	}

	cfg, err := s.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}
	cfg.CommissionAccount = commissionAccount
	cfg.CommissionBps = commissionBps
	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	slog.Info("commission updated", "account", commissionAccount, "bps", commissionBps)
	return nil
}

// SetAdmin transfers the admin role. Admin only.
func (s *AdminService) SetAdmin(ctx context.Context, caller, newAdmin string) error {
	cfg, err := s.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}
	cfg.Admin = newAdmin
	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	slog.Info("admin transferred", "from", caller, "to", newAdmin)
	return nil
}

// Mint credits an account from outside the tanda system. Admin only.
func (s *AdminService) Mint(ctx context.Context, caller, account string, amount int64) error {
	if _, err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := s.store.Credit(ctx, account, amount); err != nil {
		return err
	}
	slog.Info("minted", "account", account, "amount", amount)
	return nil
}

func (s *AdminService) requireAdmin(ctx context.Context, caller string) (*storage.Config, error) {
	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrNotInitialized
	}
	if cfg.Admin != caller {
		return nil, ErrNotAdmin
	}
	return cfg, nil
}
