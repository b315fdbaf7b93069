package engine

import "github.com/tandaclub/tanda/internal/models"

// CanExpel reports whether target is expellable right now: the tanda is
// active, the delinquency deadline has passed, and target is a
// non-expelled member who has not deposited. Pure predicate, no mutation.
func CanExpel(t *models.Tanda, roster models.Roster, target string, now int64) bool {
	if t.Status != models.StatusActive {
		return false
	}
	if now < Deadline(t) {
		return false
	}
	idx := roster.Find(target)
	if idx < 0 {
		return false
	}
	return roster[idx].Status != models.MemberExpelled && !roster[idx].HasDeposited
}

// Expel removes a single delinquent member. A member expelled before
// receiving their payout shrinks total_cycles by one; a member who
// already received does not, since their payout already happened.
// Positions are renumbered afterwards.
func Expel(t *models.Tanda, roster models.Roster, target string, now int64) error {
	if t.Status != models.StatusActive {
		return ErrNotActive
	}
	if now < Deadline(t) {
		return ErrDeadlineNotReached
	}

	idx := roster.Find(target)
	if idx < 0 {
		return ErrMemberNotFound
	}
	if roster[idx].Status == models.MemberExpelled {
		return ErrAlreadyExpelled
	}
	if roster[idx].HasDeposited {
		return ErrHasDeposited
	}

	if roster[idx].Status != models.MemberReceived {
		t.TotalCycles--
	}
	roster[idx].Status = models.MemberExpelled

	renumber(roster)
	return nil
}
