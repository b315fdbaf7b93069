// Package treasury defines the value-transfer collaborator boundary.
//
// The engine only decides amounts and who pays whom; actual custody is
// behind the Ledger interface. The production implementation keeps
// balances in the same SQLite database as the tanda records so that a
// tanda mutation and its transfers commit or roll back together.
package treasury

import (
	"context"
	"errors"
)

// ErrInsufficientFunds aborts a transfer whose source account cannot
// cover the amount. The calling tanda operation fails with no partial
// mutation.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Ledger is an account-keyed store of int64 balances in minor units.
// Accounts are created on first credit.
type Ledger interface {
	// Transfer moves amount from one account to another, failing with
	// ErrInsufficientFunds if the source balance is too low.
	Transfer(ctx context.Context, from, to string, amount int64) error

	// Credit adds amount to an account. Admin faucet: used to fund
	// accounts from outside the tanda system.
	Credit(ctx context.Context, account string, amount int64) error

	// Balance returns an account's balance; missing accounts are zero.
	Balance(ctx context.Context, account string) (int64, error)
}
