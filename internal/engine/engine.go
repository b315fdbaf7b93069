// Package engine implements the tanda lifecycle state machine.
//
// Every function here is a pure state transition over a Tanda record and
// its member Roster: the caller supplies the current time and a transfer
// callback, the engine validates preconditions, requests value transfers,
// and mutates the records it was given. Nothing in this package touches
// storage, transport, or wall clocks, which keeps the protocol rules
// deterministic and independently testable.
//
// Callers are expected to run each operation against scratch copies of
// the records and persist them only when the operation returns nil; any
// error means the persisted state must remain untouched.
package engine

import "github.com/tandaclub/tanda/internal/models"

const (
	// DelinquencyDays is how long members have to deposit after a payout
	// before anyone may expel them.
	DelinquencyDays = 6

	secondsPerDay = 86400

	// MinMembers and MaxMembers bound the capacity chosen at creation.
	MinMembers = 2
	MaxMembers = 12

	// MaxCommissionBps caps the admin-configurable commission at 10%.
	MaxCommissionBps = 1000

	bpsDenominator = 10000
)

// TransferFunc moves amount (minor units) between two treasury accounts.
// A non-nil error aborts the calling operation with no state mutation.
type TransferFunc func(from, to string, amount int64) error

// Commission returns the commission charged on top of one deposit of
// amount at the given basis points. Integer floor division, matching the
// on-ledger accounting.
func Commission(amount int64, bps int) int64 {
	return amount * int64(bps) / bpsDenominator
}

// Deadline returns the unix time at which non-depositors become
// expellable: DelinquencyDays after the last payout (or the start).
func Deadline(t *models.Tanda) int64 {
	return t.LastPayoutAt + DelinquencyDays*secondsPerDay
}

// TimeToDeadline returns seconds until the delinquency deadline,
// saturating at zero once the deadline has passed.
func TimeToDeadline(t *models.Tanda, now int64) int64 {
	d := Deadline(t)
	if now >= d {
		return 0
	}
	return d - now
}

// AllDeposited reports whether every non-expelled member has funded the
// current cycle.
func AllDeposited(roster models.Roster) bool {
	for i := range roster {
		if roster[i].Status != models.MemberExpelled && !roster[i].HasDeposited {
			return false
		}
	}
	return true
}

// Beneficiary returns the address due to receive the current cycle's
// payout: the Active member whose position matches current_cycle-1. The
// status check doubles as a guard against position/cycle drift: a
// Received member is never selected even if its position matches.
func Beneficiary(t *models.Tanda, roster models.Roster) (string, error) {
	position := t.CurrentCycle - 1
	for i := range roster {
		if roster[i].Position == position && roster[i].Status == models.MemberActive {
			return roster[i].Address, nil
		}
	}
	return "", ErrBeneficiaryNotFound
}

// renumber reassigns dense, contiguous positions to all non-expelled
// members in their existing relative order. Called once after every
// expulsion batch, never while the batch is still being decided.
func renumber(roster models.Roster) {
	next := 0
	for i := range roster {
		if roster[i].Status != models.MemberExpelled {
			roster[i].Position = next
			next++
		}
	}
}
