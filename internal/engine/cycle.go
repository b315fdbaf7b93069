package engine

import "github.com/tandaclub/tanda/internal/models"

// Deposit funds the current cycle for payer: the fixed contribution goes
// to the tanda pool and the commission (if any) to the commission sink.
// Both transfers must succeed before the deposit flag is set; a transfer
// error leaves the roster untouched.
func Deposit(t *models.Tanda, roster models.Roster, payer string, commissionBps int, commissionSink string, transfer TransferFunc) error {
	if t.Status != models.StatusActive {
		return ErrNotActive
	}

	idx := roster.Find(payer)
	if idx < 0 {
		return ErrNotAMember
	}
	if roster[idx].Status == models.MemberExpelled {
		return ErrWasExpelled
	}
	if roster[idx].HasDeposited {
		return ErrAlreadyDeposited
	}

	if err := transfer(payer, t.PoolAccount(), t.Amount); err != nil {
		return err
	}
	if commission := Commission(t.Amount, commissionBps); commission > 0 {
		if err := transfer(payer, commissionSink, commission); err != nil {
			return err
		}
	}

	roster[idx].HasDeposited = true
	return nil
}

// TriggerPayout pays the current beneficiary if every non-expelled member
// has deposited. Anyone may trigger it. Returns the recipient and the
// amount paid. ErrNotReady is the normal outcome while deposits are still
// outstanding.
func TriggerPayout(t *models.Tanda, roster models.Roster, now int64, transfer TransferFunc) (string, int64, error) {
	if t.Status != models.StatusActive {
		return "", 0, ErrNotActive
	}

	activeCount := roster.ActiveCount()
	if !AllDeposited(roster) {
		return "", 0, ErrNotReady
	}

	recipient, err := Beneficiary(t, roster)
	if err != nil {
		return "", 0, err
	}

	payout, err := payOut(t, roster, recipient, activeCount, now, transfer)
	if err != nil {
		return "", 0, err
	}
	return recipient, payout, nil
}

// payOut performs the payout effect: transfer the pooled sum to the
// recipient, mark them Received, reset every deposit flag, advance the
// cycle, and complete the tanda if the last cycle just ran.
func payOut(t *models.Tanda, roster models.Roster, recipient string, activeCount int, now int64, transfer TransferFunc) (int64, error) {
	payout := t.Amount * int64(activeCount)
	if err := transfer(t.PoolAccount(), recipient, payout); err != nil {
		return 0, err
	}

	for i := range roster {
		if roster[i].Address == recipient {
			roster[i].Status = models.MemberReceived
		}
		roster[i].HasDeposited = false
	}

	t.CurrentCycle++
	t.LastPayoutAt = now
	if t.CurrentCycle > t.TotalCycles {
		t.Status = models.StatusCompleted
	}
	return payout, nil
}
