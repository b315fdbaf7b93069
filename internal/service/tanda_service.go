// Package service orchestrates the tanda engine over persistent storage:
// each operation is one atomic read-modify-write against a tanda and its
// roster, with events and metrics emitted after the write commits.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tandaclub/tanda/internal/engine"
	"github.com/tandaclub/tanda/internal/metrics"
	"github.com/tandaclub/tanda/internal/models"
	"github.com/tandaclub/tanda/internal/notify"
	"github.com/tandaclub/tanda/internal/storage"
)

// ErrNotInitialized means no admin configuration exists yet; deposits
// cannot run without a commission sink.
var ErrNotInitialized = errors.New("service not initialized")

// TandaService runs the tanda lifecycle against a Store.
type TandaService struct {
	store    storage.Store
	notifier notify.Notifier
	now      func() int64
}

// NewTandaService creates a TandaService with the given storage backend
// and notifier.
func NewTandaService(store storage.Store, notifier notify.Notifier) *TandaService {
	return &TandaService{
		store:    store,
		notifier: notifier,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// CreateTanda creates a Forming tanda with the creator as member 0.
func (s *TandaService) CreateTanda(ctx context.Context, creator, name string, amount int64, maxMembers int) (*models.Tanda, error) {
	slog.Info("CreateTanda", "creator", creator, "name", name, "amount", amount, "max_members", maxMembers)

	id, err := s.store.NextTandaID(ctx)
	if err != nil {
		slog.Error("CreateTanda: id allocation failed", "error", err)
		return nil, err
	}

	tanda, roster, err := engine.NewTanda(id, name, creator, amount, maxMembers, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTanda(ctx, tanda, roster); err != nil {
		slog.Error("CreateTanda failed", "tanda_id", id, "error", err)
		return nil, err
	}

	metrics.TandasCreated.Inc()
	s.notifier.Publish(ctx, notify.Event{Name: notify.EventTandaCreated, TandaID: id, Actor: creator})
	return tanda, nil
}

// JoinTanda admits the caller to a Forming tanda.
func (s *TandaService) JoinTanda(ctx context.Context, tandaID, caller string) error {
	slog.Info("JoinTanda", "tanda_id", tandaID, "caller", caller)

	err := s.store.WithTanda(ctx, tandaID, func(view *storage.TandaView) error {
		roster, err := engine.Join(view.Tanda, view.Roster, caller, s.now())
		if err != nil {
			return err
		}
		view.Roster = roster
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Publish(ctx, notify.Event{Name: notify.EventMemberJoined, TandaID: tandaID, Actor: caller})
	return nil
}

// StartTanda activates a Forming tanda. Creator only.
func (s *TandaService) StartTanda(ctx context.Context, tandaID, caller string) error {
	slog.Info("StartTanda", "tanda_id", tandaID, "caller", caller)

	err := s.store.WithTanda(ctx, tandaID, func(view *storage.TandaView) error {
		return engine.Start(view.Tanda, view.Roster, caller, s.now())
	})
	if err != nil {
		return err
	}

	s.notifier.Publish(ctx, notify.Event{Name: notify.EventTandaStarted, TandaID: tandaID, Actor: caller})
	return nil
}

// CancelTanda cancels a Forming tanda. Creator only.
func (s *TandaService) CancelTanda(ctx context.Context, tandaID, caller string) error {
	slog.Info("CancelTanda", "tanda_id", tandaID, "caller", caller)

	err := s.store.WithTanda(ctx, tandaID, func(view *storage.TandaView) error {
		return engine.Cancel(view.Tanda, caller)
	})
	if err != nil {
		return err
	}

	s.notifier.Publish(ctx, notify.Event{Name: notify.EventTandaCancelled, TandaID: tandaID, Actor: caller})
	return nil
}

// Deposit funds the caller's contribution for the current cycle.
func (s *TandaService) Deposit(ctx context.Context, tandaID, caller string) error {
	slog.Info("Deposit", "tanda_id", tandaID, "caller", caller)

	var cycle int
	var amount int64
	err := s.store.WithTanda(ctx, tandaID, func(view *storage.TandaView) error {
		if view.Config == nil {
			return ErrNotInitialized
		}
		cycle = view.Tanda.CurrentCycle
		amount = view.Tanda.Amount
		return engine.Deposit(view.Tanda, view.Roster, caller,
			view.Config.CommissionBps, view.Config.CommissionAccount, view.Transfer)
	})
	if err != nil {
		slog.Warn("Deposit rejected", "tanda_id", tandaID, "caller", caller, "error", err)
		return err
	}

	metrics.Deposits.Inc()
	s.notifier.Publish(ctx, notify.Event{
		Name: notify.EventDepositMade, TandaID: tandaID, Actor: caller, Amount: amount, Cycle: cycle,
	})
	return nil
}

// TriggerPayout pays the current beneficiary if every member has
// deposited. Permissionless: any caller may trigger it.
func (s *TandaService) TriggerPayout(ctx context.Context, tandaID string) (recipient string, payout int64, err error) {
	slog.Info("TriggerPayout", "tanda_id", tandaID)

	var cycle int
	err = s.store.WithTanda(ctx, tandaID, func(view *storage.TandaView) error {
		cycle = view.Tanda.CurrentCycle
		recipient, payout, err = engine.TriggerPayout(view.Tanda, view.Roster, s.now(), view.Transfer)
		return err
	})
	if err != nil {
		return "", 0, err
	}

	metrics.Payouts.Inc()
	s.notifier.Publish(ctx, notify.Event{
		Name: notify.EventPayoutSent, TandaID: tandaID, Actor: recipient, Amount: payout, Cycle: cycle,
	})
	return recipient, payout, nil
}

// ExpelDelinquent expels one delinquent member. Permissionless.
func (s *TandaService) ExpelDelinquent(ctx context.Context, tandaID, target string) error {
	slog.Info("ExpelDelinquent", "tanda_id", tandaID, "target", target)

	err := s.store.WithTanda(ctx, tandaID, func(view *storage.TandaView) error {
		return engine.Expel(view.Tanda, view.Roster, target, s.now())
	})
	if err != nil {
		return err
	}

	metrics.Expulsions.Inc()
	s.notifier.Publish(ctx, notify.Event{Name: notify.EventMemberExpelled, TandaID: tandaID, Actor: target})
	return nil
}

// Advance is the permissionless heartbeat: expel all current delinquents
// and fire the payout if the remaining roster is fully funded, in one
// atomic call.
func (s *TandaService) Advance(ctx context.Context, tandaID string) (engine.AdvanceResult, error) {
	slog.Info("Advance", "tanda_id", tandaID)

	var res engine.AdvanceResult
	var cycle int
	err := s.store.WithTanda(ctx, tandaID, func(view *storage.TandaView) error {
		cycle = view.Tanda.CurrentCycle
		var err error
		res, err = engine.Advance(view.Tanda, view.Roster, s.now(), view.Transfer)
		return err
	})
	if err != nil {
		return engine.AdvanceResult{}, err
	}

	outcome := "noop"
	if res.Changed() {
		outcome = "changed"
	}
	metrics.AdvanceCalls.WithLabelValues(outcome).Inc()

	for _, addr := range res.Expelled {
		metrics.Expulsions.Inc()
		s.notifier.Publish(ctx, notify.Event{Name: notify.EventMemberExpelled, TandaID: tandaID, Actor: addr})
	}
	if res.PaidOut {
		metrics.Payouts.Inc()
		s.notifier.Publish(ctx, notify.Event{
			Name: notify.EventPayoutSent, TandaID: tandaID, Actor: res.Recipient, Amount: res.Payout, Cycle: cycle,
		})
	}

	slog.Info("Advance done", "tanda_id", tandaID,
		"expelled", len(res.Expelled), "paid_out", res.PaidOut, "changed", res.Changed())
	return res, nil
}

// GetTanda returns a tanda by ID.
func (s *TandaService) GetTanda(ctx context.Context, tandaID string) (*models.Tanda, error) {
	return s.store.GetTanda(ctx, tandaID)
}

// GetRoster returns the tanda's members in admission order.
func (s *TandaService) GetRoster(ctx context.Context, tandaID string) (models.Roster, error) {
	if _, err := s.store.GetTanda(ctx, tandaID); err != nil {
		return nil, err
	}
	return s.store.GetRoster(ctx, tandaID)
}

// ListTandas returns all tandas, newest first.
func (s *TandaService) ListTandas(ctx context.Context) ([]*models.Tanda, error) {
	return s.store.ListTandas(ctx)
}

// AllDeposited reports whether every non-expelled member has funded the
// current cycle.
func (s *TandaService) AllDeposited(ctx context.Context, tandaID string) (bool, error) {
	roster, err := s.GetRoster(ctx, tandaID)
	if err != nil {
		return false, err
	}
	return engine.AllDeposited(roster), nil
}

// GetBeneficiary returns the address due to receive the current cycle's
// payout.
func (s *TandaService) GetBeneficiary(ctx context.Context, tandaID string) (string, error) {
	tanda, err := s.store.GetTanda(ctx, tandaID)
	if err != nil {
		return "", err
	}
	roster, err := s.store.GetRoster(ctx, tandaID)
	if err != nil {
		return "", err
	}
	return engine.Beneficiary(tanda, roster)
}

// CanExpel reports whether target is expellable right now.
func (s *TandaService) CanExpel(ctx context.Context, tandaID, target string) (bool, error) {
	tanda, err := s.store.GetTanda(ctx, tandaID)
	if err != nil {
		return false, err
	}
	roster, err := s.store.GetRoster(ctx, tandaID)
	if err != nil {
		return false, err
	}
	return engine.CanExpel(tanda, roster, target, s.now()), nil
}

// TimeToDeadline returns seconds until the delinquency deadline.
func (s *TandaService) TimeToDeadline(ctx context.Context, tandaID string) (int64, error) {
	tanda, err := s.store.GetTanda(ctx, tandaID)
	if err != nil {
		return 0, err
	}
	return engine.TimeToDeadline(tanda, s.now()), nil
}

// AdvanceStatus previews what Advance would do right now.
func (s *TandaService) AdvanceStatus(ctx context.Context, tandaID string) (engine.AdvancePreview, error) {
	tanda, err := s.store.GetTanda(ctx, tandaID)
	if err != nil {
		return engine.AdvancePreview{}, err
	}
	roster, err := s.store.GetRoster(ctx, tandaID)
	if err != nil {
		return engine.AdvancePreview{}, err
	}
	return engine.PreviewAdvance(tanda, roster, s.now()), nil
}
