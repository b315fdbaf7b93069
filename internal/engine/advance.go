package engine

import "github.com/tandaclub/tanda/internal/models"

// AdvanceResult describes what a call to Advance actually did.
type AdvanceResult struct {
	// Expelled lists the addresses expelled in this pass, in roster order.
	Expelled []string

	// PaidOut reports whether the cycle's payout fired, and if so
	// Recipient and Payout carry the details.
	PaidOut   bool
	Recipient string
	Payout    int64

	// Completed reports whether this call drove the tanda to Completed.
	Completed bool
}

// Changed reports whether any state change occurred.
func (r AdvanceResult) Changed() bool {
	return len(r.Expelled) > 0 || r.PaidOut
}

// Advance is the permissionless heartbeat: in one atomic step it expels
// every current delinquent (once the deadline has passed), completes the
// tanda if that leaves one or zero members, and otherwise pays out the
// beneficiary if the remaining roster is fully funded. Batching matters:
// clearing the delinquents and firing the now-possible payout in the same
// call keeps the group from stalling between two separate external calls.
func Advance(t *models.Tanda, roster models.Roster, now int64, transfer TransferFunc) (AdvanceResult, error) {
	var res AdvanceResult

	if t.Status != models.StatusActive {
		return res, ErrNotActive
	}

	// Step 1: clear out every delinquent in a single pass, then renumber
	// once. Renumbering never interleaves with the expulsion scan.
	if now >= Deadline(t) {
		for i := range roster {
			if roster[i].Status == models.MemberExpelled || roster[i].HasDeposited {
				continue
			}
			if roster[i].Status != models.MemberReceived {
				t.TotalCycles--
			}
			roster[i].Status = models.MemberExpelled
			res.Expelled = append(res.Expelled, roster[i].Address)
		}
		if len(res.Expelled) > 0 {
			renumber(roster)
		}
	}

	// Step 2: a one-or-zero-member group cannot continue.
	activeCount := roster.ActiveCount()
	if activeCount <= 1 {
		t.Status = models.StatusCompleted
		res.Completed = true
		return res, nil
	}

	// Step 3: payout if the remaining roster is fully funded.
	if AllDeposited(roster) {
		recipient, err := Beneficiary(t, roster)
		if err != nil {
			return res, err
		}
		payout, err := payOut(t, roster, recipient, activeCount, now, transfer)
		if err != nil {
			return res, err
		}
		res.PaidOut = true
		res.Recipient = recipient
		res.Payout = payout
		res.Completed = t.Status == models.StatusCompleted
	}

	return res, nil
}

// AdvancePreview reports what Advance would do right now, without
// mutating anything.
type AdvancePreview struct {
	// CanAdvance is true iff a call to Advance would change state.
	CanAdvance bool

	// ExpelCount is how many members would be expelled.
	ExpelCount int

	// WillPayout is true iff the payout would fire after the expulsions.
	WillPayout bool

	// Beneficiary is the recipient if the payout fires, else empty.
	Beneficiary string
}

// PreviewAdvance simulates Advance using the same delinquency predicate,
// beneficiary selection, and remaining-count threshold, so the preview is
// never misleading about what the real call would do.
func PreviewAdvance(t *models.Tanda, roster models.Roster, now int64) AdvancePreview {
	var p AdvancePreview

	if t.Status != models.StatusActive {
		return p
	}

	deadlinePassed := now >= Deadline(t)
	position := t.CurrentCycle - 1

	remainingTotal := 0
	remainingDeposited := 0
	for i := range roster {
		m := &roster[i]
		if m.Status == models.MemberExpelled {
			continue
		}
		if deadlinePassed && !m.HasDeposited {
			p.ExpelCount++
			continue
		}
		// Survivors are renumbered before Advance selects the
		// beneficiary, so the simulated position is the survivor's rank,
		// not the stored one.
		if remainingTotal == position && m.Status == models.MemberActive {
			p.Beneficiary = m.Address
		}
		remainingTotal++
		if m.HasDeposited {
			remainingDeposited++
		}
	}

	p.WillPayout = remainingTotal > 1 && remainingDeposited == remainingTotal
	if !p.WillPayout {
		p.Beneficiary = ""
	}
	p.CanAdvance = p.ExpelCount > 0 || p.WillPayout
	return p
}
