package models

// MemberStatus is a participant's standing within a tanda.
type MemberStatus string

const (
	// MemberActive can deposit and is still owed a payout.
	MemberActive MemberStatus = "active"

	// MemberReceived already got their payout but must keep depositing
	// until the tanda completes.
	MemberReceived MemberStatus = "received"

	// MemberExpelled was removed for non-payment. Terminal.
	MemberExpelled MemberStatus = "expelled"
)

// Member is one participant's state within a tanda.
type Member struct {
	// Address is the participant's user ID, unique within the roster.
	Address string

	// Status is the member's standing.
	Status MemberStatus

	// Position is the 0-indexed payout order. Positions are dense and
	// contiguous among non-expelled members; expelled members keep their
	// last value but it carries no meaning.
	Position int

	// HasDeposited reports whether this member has funded the current
	// cycle. Reset to false for every non-expelled member after a payout.
	HasDeposited bool

	// JoinedAt is the unix timestamp of admission.
	JoinedAt int64
}

// Roster is the ordered collection of a tanda's members. Order is
// admission order and never changes; payout order is carried by the
// Position field.
type Roster []Member

// Find returns the index of the member with the given address, or -1.
func (r Roster) Find(address string) int {
	for i := range r {
		if r[i].Address == address {
			return i
		}
	}
	return -1
}

// ActiveCount returns the number of non-expelled members.
func (r Roster) ActiveCount() int {
	n := 0
	for i := range r {
		if r[i].Status != MemberExpelled {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the roster.
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	copy(out, r)
	return out
}
