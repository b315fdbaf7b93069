package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tandaclub/tanda/internal/treasury"
)

// Treasury ledger: string-keyed accounts with int64 balances, living in
// the same database as the tanda records so a tanda mutation and its
// transfers commit or roll back together.

// Transfer moves amount between two accounts in its own transaction.
func (s *SQLiteStore) Transfer(ctx context.Context, from, to string, amount int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := transferTx(ctx, tx, from, to, amount); err != nil {
		return err
	}
	return tx.Commit()
}

// transferTx debits from and credits to inside an existing transaction.
// The debit fails with treasury.ErrInsufficientFunds when the source
// balance cannot cover the amount (missing accounts have zero balance).
func transferTx(ctx context.Context, tx *sql.Tx, from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative transfer amount %d", amount)
	}
	if amount == 0 {
		return nil
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE accounts SET balance = balance - ? WHERE account = ? AND balance >= ?",
		amount, from, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", from, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check debit: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: account %s needs %d", treasury.ErrInsufficientFunds, from, amount)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (account, balance) VALUES (?, ?)
		 ON CONFLICT(account) DO UPDATE SET balance = balance + excluded.balance`,
		to, amount,
	); err != nil {
		return fmt.Errorf("failed to credit %s: %w", to, err)
	}
	return nil
}

// Credit adds amount to an account, creating it if needed.
func (s *SQLiteStore) Credit(ctx context.Context, account string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (account, balance) VALUES (?, ?)
		 ON CONFLICT(account) DO UPDATE SET balance = balance + excluded.balance`,
		account, amount,
	)
	if err != nil {
		return fmt.Errorf("failed to credit %s: %w", account, err)
	}
	return nil
}

// Balance returns an account's balance; missing accounts are zero.
func (s *SQLiteStore) Balance(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx,
		"SELECT balance FROM accounts WHERE account = ?", account).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}
