package models

// TandaStatus is the lifecycle phase of a tanda.
type TandaStatus string

const (
	// StatusForming means the tanda is waiting for members to join.
	StatusForming TandaStatus = "forming"

	// StatusActive means the tanda is running: accepting deposits and
	// paying out one beneficiary per cycle.
	StatusActive TandaStatus = "active"

	// StatusCompleted means every remaining member has received their
	// payout (or membership shrank to one). Terminal.
	StatusCompleted TandaStatus = "completed"

	// StatusCancelled means the creator cancelled the tanda before it
	// started. Terminal.
	StatusCancelled TandaStatus = "cancelled"
)

// Tanda represents one rotating-savings group.
type Tanda struct {
	// ID is the unique identifier for the tanda (8-digit decimal string).
	ID string

	// Name is the display name of the group.
	Name string

	// Creator is the user ID that created the group. Only the creator
	// may start or cancel the tanda while it is Forming.
	Creator string

	// Amount is the fixed per-cycle contribution per member, in minor
	// units. Always positive.
	Amount int64

	// MaxMembers is the membership capacity fixed at creation (2..12).
	MaxMembers int

	// Status is the lifecycle phase.
	Status TandaStatus

	// CurrentCycle is the 1-indexed cycle counter. Zero while Forming.
	CurrentCycle int

	// TotalCycles is the number of cycles left to run, equal to the
	// number of members still owed a payout. Shrinks when a member who
	// has not yet received is expelled.
	TotalCycles int

	// CreatedAt, StartedAt and LastPayoutAt are unix seconds.
	// LastPayoutAt anchors the delinquency deadline.
	CreatedAt    int64
	StartedAt    int64
	LastPayoutAt int64
}

// PoolAccount returns the treasury account that holds this tanda's
// pooled deposits.
func (t *Tanda) PoolAccount() string {
	return "tanda:" + t.ID
}
