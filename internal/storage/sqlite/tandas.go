package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tandaclub/tanda/internal/models"
	"github.com/tandaclub/tanda/internal/storage"
)

// CreateTanda persists a new tanda together with its initial roster.
func (s *SQLiteStore) CreateTanda(ctx context.Context, tanda *models.Tanda, roster models.Roster) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertTanda(ctx, tx, tanda); err != nil {
		return err
	}
	if err := writeRoster(ctx, tx, tanda.ID, roster); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTanda retrieves a tanda by ID.
func (s *SQLiteStore) GetTanda(ctx context.Context, id string) (*models.Tanda, error) {
	return scanTanda(s.db.QueryRowContext(ctx,
		`SELECT id, name, creator, amount, max_members, status,
		        current_cycle, total_cycles, created_at, started_at, last_payout_at
		 FROM tandas WHERE id = ?`, id))
}

// GetRoster retrieves the tanda's members in admission order. An empty
// roster is returned when none have been recorded.
func (s *SQLiteStore) GetRoster(ctx context.Context, id string) (models.Roster, error) {
	return readRoster(ctx, s.db, id)
}

// ListTandas retrieves all tandas, newest first.
func (s *SQLiteStore) ListTandas(ctx context.Context) ([]*models.Tanda, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, creator, amount, max_members, status,
		        current_cycle, total_cycles, created_at, started_at, last_payout_at
		 FROM tandas ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tandas: %w", err)
	}
	defer rows.Close()

	var tandas []*models.Tanda
	for rows.Next() {
		t := &models.Tanda{}
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Creator, &t.Amount, &t.MaxMembers, &t.Status,
			&t.CurrentCycle, &t.TotalCycles, &t.CreatedAt, &t.StartedAt, &t.LastPayoutAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tanda: %w", err)
		}
		tandas = append(tandas, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tandas: %w", err)
	}
	return tandas, nil
}

// WithTanda runs fn inside one transaction holding the tanda, roster and
// config. The callback mutates scratch copies; they are written back only
// when it returns nil, and any ledger transfer it issued rolls back with
// the rest on failure.
func (s *SQLiteStore) WithTanda(ctx context.Context, id string, fn func(view *storage.TandaView) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tanda, err := scanTanda(tx.QueryRowContext(ctx,
		`SELECT id, name, creator, amount, max_members, status,
		        current_cycle, total_cycles, created_at, started_at, last_payout_at
		 FROM tandas WHERE id = ?`, id))
	if err != nil {
		return err
	}
	roster, err := readRoster(ctx, tx, id)
	if err != nil {
		return err
	}
	cfg, err := getConfig(ctx, tx)
	if err != nil {
		return err
	}

	view := &storage.TandaView{
		Tanda:  tanda,
		Roster: roster,
		Config: cfg,
		Transfer: func(from, to string, amount int64) error {
			return transferTx(ctx, tx, from, to, amount)
		},
	}
	if err := fn(view); err != nil {
		return err
	}

	if err := updateTanda(ctx, tx, view.Tanda); err != nil {
		return err
	}
	// Rosters are bounded (max 12), so a full rewrite is simpler than
	// diffing member rows.
	if _, err := tx.ExecContext(ctx, "DELETE FROM members WHERE tanda_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear roster: %w", err)
	}
	if err := writeRoster(ctx, tx, id, view.Roster); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanTanda(row *sql.Row) (*models.Tanda, error) {
	t := &models.Tanda{}
	err := row.Scan(
		&t.ID, &t.Name, &t.Creator, &t.Amount, &t.MaxMembers, &t.Status,
		&t.CurrentCycle, &t.TotalCycles, &t.CreatedAt, &t.StartedAt, &t.LastPayoutAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrTandaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tanda: %w", err)
	}
	return t, nil
}

func insertTanda(ctx context.Context, tx executor, t *models.Tanda) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tandas (id, name, creator, amount, max_members, status,
		                     current_cycle, total_cycles, created_at, started_at, last_payout_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Creator, t.Amount, t.MaxMembers, t.Status,
		t.CurrentCycle, t.TotalCycles, t.CreatedAt, t.StartedAt, t.LastPayoutAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tanda: %w", err)
	}
	return nil
}

func updateTanda(ctx context.Context, tx executor, t *models.Tanda) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE tandas SET name = ?, status = ?, current_cycle = ?, total_cycles = ?,
		                   started_at = ?, last_payout_at = ?
		 WHERE id = ?`,
		t.Name, t.Status, t.CurrentCycle, t.TotalCycles,
		t.StartedAt, t.LastPayoutAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tanda: %w", err)
	}
	return nil
}

func writeRoster(ctx context.Context, tx executor, tandaID string, roster models.Roster) error {
	for seq, m := range roster {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO members (tanda_id, seq, address, status, position, has_deposited, joined_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tandaID, seq, m.Address, m.Status, m.Position, m.HasDeposited, m.JoinedAt,
		); err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

func readRoster(ctx context.Context, tx executor, tandaID string) (models.Roster, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT address, status, position, has_deposited, joined_at
		 FROM members WHERE tanda_id = ? ORDER BY seq`, tandaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var roster models.Roster
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.Address, &m.Status, &m.Position, &m.HasDeposited, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		roster = append(roster, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return roster, nil
}
