package engine

import "github.com/tandaclub/tanda/internal/models"

// NewTanda builds a Forming tanda with the creator admitted as the first
// member. The ID is assigned by the caller.
func NewTanda(id, name, creator string, amount int64, maxMembers int, now int64) (*models.Tanda, models.Roster, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if maxMembers < MinMembers || maxMembers > MaxMembers {
		return nil, nil, ErrInvalidMemberCap
	}

	tanda := &models.Tanda{
		ID:         id,
		Name:       name,
		Creator:    creator,
		Amount:     amount,
		MaxMembers: maxMembers,
		Status:     models.StatusForming,
		CreatedAt:  now,
	}
	roster := models.Roster{{
		Address:  creator,
		Status:   models.MemberActive,
		Position: 0,
		JoinedAt: now,
	}}
	return tanda, roster, nil
}

// Join admits a candidate to a Forming tanda. Admission order defines
// the initial payout order.
func Join(t *models.Tanda, roster models.Roster, candidate string, now int64) (models.Roster, error) {
	if t.Status != models.StatusForming {
		return roster, ErrNotForming
	}
	if len(roster) >= t.MaxMembers {
		return roster, ErrTandaFull
	}
	if roster.Find(candidate) >= 0 {
		return roster, ErrAlreadyMember
	}

	return append(roster, models.Member{
		Address:  candidate,
		Status:   models.MemberActive,
		Position: len(roster),
		JoinedAt: now,
	}), nil
}

// Start activates a Forming tanda. Only the creator may start it, and at
// least two members must have joined. Starting fixes total_cycles to the
// member count and arms the delinquency clock.
func Start(t *models.Tanda, roster models.Roster, caller string, now int64) error {
	if t.Creator != caller {
		return ErrNotCreator
	}
	if t.Status != models.StatusForming {
		return ErrNotForming
	}
	if len(roster) < MinMembers {
		return ErrInsufficientMembers
	}

	t.Status = models.StatusActive
	t.StartedAt = now
	t.LastPayoutAt = now
	t.CurrentCycle = 1
	t.TotalCycles = len(roster)
	return nil
}

// Cancel marks a Forming tanda as Cancelled. Only the creator may
// cancel, and only before the tanda starts.
func Cancel(t *models.Tanda, caller string) error {
	if t.Creator != caller {
		return ErrNotCreator
	}
	if t.Status != models.StatusForming {
		return ErrNotForming
	}
	t.Status = models.StatusCancelled
	return nil
}
