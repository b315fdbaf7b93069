package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tandaclub/tanda/internal/models"
)

const (
	testAmount = int64(100_0000000) // 100 units at 7 decimals
	testBps    = 50
	testSink   = "commission-sink"
	day        = int64(86400)
)

// recordedTransfer captures one call to the transfer callback.
type recordedTransfer struct {
	From, To string
	Amount   int64
}

// fakeLedger records transfers and can be told to fail.
type fakeLedger struct {
	transfers []recordedTransfer
	failOn    int // fail the nth call (1-indexed), 0 = never
	calls     int
}

func (l *fakeLedger) transfer(from, to string, amount int64) error {
	l.calls++
	if l.failOn != 0 && l.calls == l.failOn {
		return errors.New("insufficient funds")
	}
	l.transfers = append(l.transfers, recordedTransfer{From: from, To: to, Amount: amount})
	return nil
}

// activeTanda builds a started tanda with n members ("m0" is the
// creator) at the given start time.
func activeTanda(t *testing.T, n int, startedAt int64) (*models.Tanda, models.Roster) {
	t.Helper()

	tanda, roster, err := NewTanda("00000001", "Test Tanda", "m0", testAmount, MaxMembers, startedAt)
	if err != nil {
		t.Fatalf("NewTanda failed: %v", err)
	}
	for i := 1; i < n; i++ {
		roster, err = Join(tanda, roster, fmt.Sprintf("m%d", i), startedAt)
		if err != nil {
			t.Fatalf("Join m%d failed: %v", i, err)
		}
	}
	if err := Start(tanda, roster, "m0", startedAt); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return tanda, roster
}

// depositAll deposits for every non-expelled, non-deposited member.
func depositAll(t *testing.T, tanda *models.Tanda, roster models.Roster, ledger *fakeLedger) {
	t.Helper()
	for i := range roster {
		if roster[i].Status == models.MemberExpelled || roster[i].HasDeposited {
			continue
		}
		if err := Deposit(tanda, roster, roster[i].Address, testBps, testSink, ledger.transfer); err != nil {
			t.Fatalf("Deposit %s failed: %v", roster[i].Address, err)
		}
	}
}

// checkPositionDensity asserts non-expelled positions are exactly 0..k-1.
func checkPositionDensity(t *testing.T, roster models.Roster) {
	t.Helper()
	seen := make(map[int]string)
	for i := range roster {
		if roster[i].Status == models.MemberExpelled {
			continue
		}
		if prev, dup := seen[roster[i].Position]; dup {
			t.Errorf("position %d held by both %s and %s", roster[i].Position, prev, roster[i].Address)
		}
		seen[roster[i].Position] = roster[i].Address
	}
	for p := 0; p < len(seen); p++ {
		if _, ok := seen[p]; !ok {
			t.Errorf("position %d missing; positions not contiguous", p)
		}
	}
}

func TestNewTandaValidation(t *testing.T) {
	tests := []struct {
		name       string
		amount     int64
		maxMembers int
		wantErr    error
	}{
		{"valid", testAmount, 5, nil},
		{"zero amount", 0, 5, ErrInvalidAmount},
		{"negative amount", -1, 5, ErrInvalidAmount},
		{"too few members", testAmount, 1, ErrInvalidMemberCap},
		{"too many members", testAmount, 13, ErrInvalidMemberCap},
		{"min members", testAmount, 2, nil},
		{"max members", testAmount, 12, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tanda, roster, err := NewTanda("00000001", "T", "alice", tt.amount, tt.maxMembers, 1000)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if tanda.Status != models.StatusForming {
				t.Errorf("status = %s, want forming", tanda.Status)
			}
			if tanda.CurrentCycle != 0 || tanda.TotalCycles != 0 {
				t.Errorf("cycles = %d/%d, want 0/0 while forming", tanda.CurrentCycle, tanda.TotalCycles)
			}
			if len(roster) != 1 || roster[0].Address != "alice" || roster[0].Position != 0 {
				t.Errorf("creator not admitted as member 0: %+v", roster)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	tanda, roster, _ := NewTanda("00000001", "T", "alice", testAmount, 3, 1000)

	roster, err := Join(tanda, roster, "bob", 1001)
	if err != nil {
		t.Fatalf("Join bob: %v", err)
	}
	if roster[1].Position != 1 {
		t.Errorf("bob position = %d, want 1 (admission order)", roster[1].Position)
	}

	if _, err := Join(tanda, roster, "bob", 1002); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("duplicate join err = %v, want ErrAlreadyMember", err)
	}

	roster, _ = Join(tanda, roster, "carol", 1003)
	if _, err := Join(tanda, roster, "dave", 1004); !errors.Is(err, ErrTandaFull) {
		t.Errorf("over-capacity join err = %v, want ErrTandaFull", err)
	}

	tanda.Status = models.StatusActive
	if _, err := Join(tanda, roster, "dave", 1005); !errors.Is(err, ErrNotForming) {
		t.Errorf("join active tanda err = %v, want ErrNotForming", err)
	}
}

func TestStart(t *testing.T) {
	tanda, roster, _ := NewTanda("00000001", "T", "alice", testAmount, 5, 1000)

	if err := Start(tanda, roster, "bob", 1001); !errors.Is(err, ErrNotCreator) {
		t.Errorf("non-creator start err = %v, want ErrNotCreator", err)
	}
	if err := Start(tanda, roster, "alice", 1001); !errors.Is(err, ErrInsufficientMembers) {
		t.Errorf("solo start err = %v, want ErrInsufficientMembers", err)
	}

	roster, _ = Join(tanda, roster, "bob", 1001)
	if err := Start(tanda, roster, "alice", 2000); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if tanda.Status != models.StatusActive {
		t.Errorf("status = %s, want active", tanda.Status)
	}
	if tanda.CurrentCycle != 1 {
		t.Errorf("current_cycle = %d, want 1", tanda.CurrentCycle)
	}
	if tanda.TotalCycles != 2 {
		t.Errorf("total_cycles = %d, want 2", tanda.TotalCycles)
	}
	if tanda.StartedAt != 2000 || tanda.LastPayoutAt != 2000 {
		t.Errorf("timestamps = %d/%d, want 2000/2000", tanda.StartedAt, tanda.LastPayoutAt)
	}

	if err := Start(tanda, roster, "alice", 2001); !errors.Is(err, ErrNotForming) {
		t.Errorf("double start err = %v, want ErrNotForming", err)
	}
}

func TestCancel(t *testing.T) {
	tanda, roster, _ := NewTanda("00000001", "T", "alice", testAmount, 5, 1000)
	roster, _ = Join(tanda, roster, "bob", 1001)

	if err := Cancel(tanda, "bob"); !errors.Is(err, ErrNotCreator) {
		t.Errorf("non-creator cancel err = %v, want ErrNotCreator", err)
	}
	if err := Cancel(tanda, "alice"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if tanda.Status != models.StatusCancelled {
		t.Errorf("status = %s, want cancelled", tanda.Status)
	}

	// Terminal: cannot cancel again or start.
	if err := Cancel(tanda, "alice"); !errors.Is(err, ErrNotForming) {
		t.Errorf("double cancel err = %v, want ErrNotForming", err)
	}
	if err := Start(tanda, roster, "alice", 1002); !errors.Is(err, ErrNotForming) {
		t.Errorf("start cancelled err = %v, want ErrNotForming", err)
	}
}

func TestDeposit(t *testing.T) {
	t.Run("moves pool amount and commission", func(t *testing.T) {
		tanda, roster := activeTanda(t, 2, 1000)
		ledger := &fakeLedger{}

		if err := Deposit(tanda, roster, "m0", testBps, testSink, ledger.transfer); err != nil {
			t.Fatalf("Deposit: %v", err)
		}

		if len(ledger.transfers) != 2 {
			t.Fatalf("transfers = %d, want 2 (pool + commission)", len(ledger.transfers))
		}
		pool := ledger.transfers[0]
		if pool.From != "m0" || pool.To != tanda.PoolAccount() || pool.Amount != testAmount {
			t.Errorf("pool transfer = %+v", pool)
		}
		wantCommission := testAmount * testBps / 10000
		fee := ledger.transfers[1]
		if fee.From != "m0" || fee.To != testSink || fee.Amount != wantCommission {
			t.Errorf("commission transfer = %+v, want amount %d", fee, wantCommission)
		}
		if !roster[0].HasDeposited {
			t.Error("has_deposited not set")
		}
		if roster[1].HasDeposited {
			t.Error("other member's record must be untouched")
		}
	})

	t.Run("zero commission skips second transfer", func(t *testing.T) {
		tanda, roster := activeTanda(t, 2, 1000)
		ledger := &fakeLedger{}

		if err := Deposit(tanda, roster, "m0", 0, testSink, ledger.transfer); err != nil {
			t.Fatalf("Deposit: %v", err)
		}
		if len(ledger.transfers) != 1 {
			t.Errorf("transfers = %d, want 1", len(ledger.transfers))
		}
	})

	t.Run("failed transfer leaves no mutation", func(t *testing.T) {
		tanda, roster := activeTanda(t, 2, 1000)
		ledger := &fakeLedger{failOn: 1}

		if err := Deposit(tanda, roster, "m0", testBps, testSink, ledger.transfer); err == nil {
			t.Fatal("expected transfer error")
		}
		if roster[0].HasDeposited {
			t.Error("has_deposited set despite failed transfer")
		}
	})

	t.Run("precondition failures", func(t *testing.T) {
		tanda, roster := activeTanda(t, 3, 1000)
		ledger := &fakeLedger{}

		if err := Deposit(tanda, roster, "stranger", testBps, testSink, ledger.transfer); !errors.Is(err, ErrNotAMember) {
			t.Errorf("stranger deposit err = %v, want ErrNotAMember", err)
		}

		depositAll(t, tanda, roster, ledger)
		if err := Deposit(tanda, roster, "m0", testBps, testSink, ledger.transfer); !errors.Is(err, ErrAlreadyDeposited) {
			t.Errorf("double deposit err = %v, want ErrAlreadyDeposited", err)
		}

		roster[1].Status = models.MemberExpelled
		roster[1].HasDeposited = false
		if err := Deposit(tanda, roster, "m1", testBps, testSink, ledger.transfer); !errors.Is(err, ErrWasExpelled) {
			t.Errorf("expelled deposit err = %v, want ErrWasExpelled", err)
		}

		tanda.Status = models.StatusCompleted
		if err := Deposit(tanda, roster, "m2", testBps, testSink, ledger.transfer); !errors.Is(err, ErrNotActive) {
			t.Errorf("completed tanda deposit err = %v, want ErrNotActive", err)
		}
	})
}

// Two members deposit, the payout fires, position 0 receives and the
// cycle advances.
func TestTriggerPayout(t *testing.T) {
	tanda, roster := activeTanda(t, 2, 1000)
	ledger := &fakeLedger{}

	if _, _, err := TriggerPayout(tanda, roster, 2000, ledger.transfer); !errors.Is(err, ErrNotReady) {
		t.Fatalf("payout before deposits err = %v, want ErrNotReady", err)
	}

	depositAll(t, tanda, roster, ledger)
	ledger.transfers = nil

	recipient, payout, err := TriggerPayout(tanda, roster, 2000, ledger.transfer)
	if err != nil {
		t.Fatalf("TriggerPayout: %v", err)
	}
	if recipient != "m0" {
		t.Errorf("recipient = %s, want m0 (position 0)", recipient)
	}
	if want := testAmount * 2; payout != want {
		t.Errorf("payout = %d, want %d (amount x active_count)", payout, want)
	}
	if len(ledger.transfers) != 1 || ledger.transfers[0].From != tanda.PoolAccount() || ledger.transfers[0].To != "m0" {
		t.Errorf("payout transfer = %+v", ledger.transfers)
	}

	if tanda.CurrentCycle != 2 {
		t.Errorf("current_cycle = %d, want 2", tanda.CurrentCycle)
	}
	if tanda.LastPayoutAt != 2000 {
		t.Errorf("last_payout_at = %d, want 2000", tanda.LastPayoutAt)
	}
	if roster[0].Status != models.MemberReceived {
		t.Errorf("m0 status = %s, want received", roster[0].Status)
	}
	for i := range roster {
		if roster[i].HasDeposited {
			t.Errorf("%s has_deposited not reset", roster[i].Address)
		}
	}

	// Second (final) cycle completes the tanda and pays m1.
	depositAll(t, tanda, roster, ledger)
	recipient, _, err = TriggerPayout(tanda, roster, 3000, ledger.transfer)
	if err != nil {
		t.Fatalf("final TriggerPayout: %v", err)
	}
	if recipient != "m1" {
		t.Errorf("final recipient = %s, want m1", recipient)
	}
	if tanda.Status != models.StatusCompleted {
		t.Errorf("status = %s, want completed", tanda.Status)
	}

	if _, _, err := TriggerPayout(tanda, roster, 4000, ledger.transfer); !errors.Is(err, ErrNotActive) {
		t.Errorf("payout after completion err = %v, want ErrNotActive", err)
	}
}

// No double-pay: a Received member at the beneficiary position is never
// re-selected.
func TestBeneficiarySkipsReceived(t *testing.T) {
	tanda, roster := activeTanda(t, 2, 1000)
	roster[0].Status = models.MemberReceived

	// Position 0 still belongs to m0 but m0 already received; selection
	// must fail rather than pay twice.
	if _, err := Beneficiary(tanda, roster); !errors.Is(err, ErrBeneficiaryNotFound) {
		t.Errorf("err = %v, want ErrBeneficiaryNotFound", err)
	}
}

// Only the creator deposits, seven days pass, the other member is
// expelled and the remaining cycle count shrinks.
func TestExpelDelinquent(t *testing.T) {
	start := int64(1000)
	tanda, roster := activeTanda(t, 2, start)
	ledger := &fakeLedger{}

	if err := Deposit(tanda, roster, "m0", testBps, testSink, ledger.transfer); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	early := start + 5*day
	if CanExpel(tanda, roster, "m1", early) {
		t.Error("CanExpel true before deadline")
	}
	if err := Expel(tanda, roster, "m1", early); !errors.Is(err, ErrDeadlineNotReached) {
		t.Errorf("early expel err = %v, want ErrDeadlineNotReached", err)
	}

	late := start + 7*day
	if !CanExpel(tanda, roster, "m1", late) {
		t.Error("CanExpel false after deadline")
	}
	if CanExpel(tanda, roster, "m0", late) {
		t.Error("CanExpel true for a member who deposited")
	}

	if err := Expel(tanda, roster, "m1", late); err != nil {
		t.Fatalf("Expel: %v", err)
	}
	if roster[1].Status != models.MemberExpelled {
		t.Errorf("m1 status = %s, want expelled", roster[1].Status)
	}
	if tanda.TotalCycles != 1 {
		t.Errorf("total_cycles = %d, want 1 (m1 had not received)", tanda.TotalCycles)
	}
	if roster[0].Position != 0 {
		t.Errorf("m0 position = %d, want 0 after renumbering", roster[0].Position)
	}
	checkPositionDensity(t, roster)

	if err := Expel(tanda, roster, "m1", late); !errors.Is(err, ErrAlreadyExpelled) {
		t.Errorf("double expel err = %v, want ErrAlreadyExpelled", err)
	}
	if err := Expel(tanda, roster, "m0", late); !errors.Is(err, ErrHasDeposited) {
		t.Errorf("expel depositor err = %v, want ErrHasDeposited", err)
	}
	if err := Expel(tanda, roster, "stranger", late); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("expel stranger err = %v, want ErrMemberNotFound", err)
	}
}

// A Received member expelled for a later missed payment does not shrink
// total_cycles: their payout already happened. The asymmetry is
// deliberate.
func TestExpelReceivedKeepsTotalCycles(t *testing.T) {
	start := int64(1000)
	tanda, roster := activeTanda(t, 3, start)
	ledger := &fakeLedger{}

	depositAll(t, tanda, roster, ledger)
	payoutAt := start + day
	if _, _, err := TriggerPayout(tanda, roster, payoutAt, ledger.transfer); err != nil {
		t.Fatalf("TriggerPayout: %v", err)
	}
	// m0 has Received. In cycle 2 only m1 and m2 deposit.
	if err := Deposit(tanda, roster, "m1", testBps, testSink, ledger.transfer); err != nil {
		t.Fatalf("Deposit m1: %v", err)
	}
	if err := Deposit(tanda, roster, "m2", testBps, testSink, ledger.transfer); err != nil {
		t.Fatalf("Deposit m2: %v", err)
	}

	totalBefore := tanda.TotalCycles
	if err := Expel(tanda, roster, "m0", payoutAt+7*day); err != nil {
		t.Fatalf("Expel received member: %v", err)
	}
	if tanda.TotalCycles != totalBefore {
		t.Errorf("total_cycles = %d, want %d (received member exempt)", tanda.TotalCycles, totalBefore)
	}
	checkPositionDensity(t, roster)
}

func TestTimeToDeadline(t *testing.T) {
	start := int64(1000)
	tanda, roster := activeTanda(t, 2, start)
	ledger := &fakeLedger{}

	full := int64(DelinquencyDays * 86400)
	if got := TimeToDeadline(tanda, start); got != full {
		t.Errorf("at start = %d, want %d", got, full)
	}

	// Strictly decreasing as now increases, until it saturates at 0.
	prev := TimeToDeadline(tanda, start)
	for _, now := range []int64{start + day, start + 3*day, start + 5*day} {
		got := TimeToDeadline(tanda, now)
		if got >= prev {
			t.Errorf("TimeToDeadline(%d) = %d, not decreasing from %d", now, got, prev)
		}
		prev = got
	}
	if got := TimeToDeadline(tanda, start+6*day); got != 0 {
		t.Errorf("at deadline = %d, want 0", got)
	}
	if got := TimeToDeadline(tanda, start+9*day); got != 0 {
		t.Errorf("past deadline = %d, want 0 (saturated)", got)
	}

	// Resets to the full window immediately after a payout.
	depositAll(t, tanda, roster, ledger)
	payoutAt := start + 2*day
	if _, _, err := TriggerPayout(tanda, roster, payoutAt, ledger.transfer); err != nil {
		t.Fatalf("TriggerPayout: %v", err)
	}
	if got := TimeToDeadline(tanda, payoutAt); got != full {
		t.Errorf("after payout = %d, want %d", got, full)
	}
}

// A single advance call both expels the delinquent and fires the payout
// for the now fully-funded remainder.
func TestAdvanceExpelsAndPaysInOneCall(t *testing.T) {
	start := int64(1000)
	tanda, roster := activeTanda(t, 3, start)
	ledger := &fakeLedger{}

	// Cycle 1 completes normally; m0 receives.
	depositAll(t, tanda, roster, ledger)
	cycle1At := start + day
	if _, _, err := TriggerPayout(tanda, roster, cycle1At, ledger.transfer); err != nil {
		t.Fatalf("cycle 1 payout: %v", err)
	}

	// Cycle 2: m1 is delinquent, m0 and m2 deposit.
	if err := Deposit(tanda, roster, "m0", testBps, testSink, ledger.transfer); err != nil {
		t.Fatalf("Deposit m0: %v", err)
	}
	if err := Deposit(tanda, roster, "m2", testBps, testSink, ledger.transfer); err != nil {
		t.Fatalf("Deposit m2: %v", err)
	}

	now := cycle1At + 7*day
	preview := PreviewAdvance(tanda, roster, now)
	if !preview.CanAdvance || preview.ExpelCount != 1 || !preview.WillPayout {
		t.Errorf("preview = %+v, want expel 1 and payout", preview)
	}

	res, err := Advance(tanda, roster, now, ledger.transfer)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !res.Changed() {
		t.Error("Advance reported no change")
	}
	if len(res.Expelled) != 1 || res.Expelled[0] != "m1" {
		t.Errorf("expelled = %v, want [m1]", res.Expelled)
	}
	if !res.PaidOut {
		t.Fatal("payout did not fire in the same call")
	}
	if res.Recipient != preview.Beneficiary {
		t.Errorf("recipient = %s, preview said %s", res.Recipient, preview.Beneficiary)
	}
	if want := testAmount * 2; res.Payout != want {
		t.Errorf("payout = %d, want %d (2 remaining members)", res.Payout, want)
	}
	// m1 had not received, so one obligation disappears: 3 -> 2.
	if tanda.TotalCycles != 2 {
		t.Errorf("total_cycles = %d, want 2", tanda.TotalCycles)
	}
	checkPositionDensity(t, roster)
}

func TestAdvanceNoOp(t *testing.T) {
	start := int64(1000)
	tanda, roster := activeTanda(t, 3, start)
	ledger := &fakeLedger{}

	// Before the deadline with missing deposits nothing can happen.
	res, err := Advance(tanda, roster, start+day, ledger.transfer)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if res.Changed() {
		t.Errorf("no-op advance reported change: %+v", res)
	}

	preview := PreviewAdvance(tanda, roster, start+day)
	if preview.CanAdvance {
		t.Errorf("preview.CanAdvance = true for a no-op")
	}

	// Idempotent: calling again still changes nothing.
	res, err = Advance(tanda, roster, start+day, ledger.transfer)
	if err != nil || res.Changed() {
		t.Errorf("repeat advance: res=%+v err=%v", res, err)
	}
}

func TestAdvanceCompletesWhenOneLeft(t *testing.T) {
	start := int64(1000)
	tanda, roster := activeTanda(t, 3, start)
	ledger := &fakeLedger{}

	// Only m0 deposits; after the deadline advance expels m1 and m2,
	// leaving one member, so the tanda completes without a payout.
	if err := Deposit(tanda, roster, "m0", testBps, testSink, ledger.transfer); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	res, err := Advance(tanda, roster, start+7*day, ledger.transfer)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if len(res.Expelled) != 2 {
		t.Errorf("expelled = %v, want 2 members", res.Expelled)
	}
	if res.PaidOut {
		t.Error("payout fired for a one-member group")
	}
	if !res.Completed || tanda.Status != models.StatusCompleted {
		t.Errorf("status = %s, want completed", tanda.Status)
	}
	if !res.Changed() {
		t.Error("expulsions must count as change")
	}
}

// Termination: with deposits and elapsed time, repeated advance calls
// drive any active tanda to Completed.
func TestAdvanceTerminates(t *testing.T) {
	start := int64(1000)
	tanda, roster := activeTanda(t, 5, start)
	ledger := &fakeLedger{}

	now := start
	for i := 0; tanda.Status == models.StatusActive; i++ {
		if i > 20 {
			t.Fatal("tanda did not terminate")
		}
		// m3 stops paying after the second cycle.
		for j := range roster {
			m := &roster[j]
			if m.Status == models.MemberExpelled || m.HasDeposited {
				continue
			}
			if m.Address == "m3" && tanda.CurrentCycle > 2 {
				continue
			}
			if err := Deposit(tanda, roster, m.Address, testBps, testSink, ledger.transfer); err != nil {
				t.Fatalf("Deposit %s: %v", m.Address, err)
			}
		}
		now += 7 * day
		if _, err := Advance(tanda, roster, now, ledger.transfer); err != nil {
			t.Fatalf("Advance: %v", err)
		}
		checkPositionDensity(t, roster)
	}

	if tanda.Status != models.StatusCompleted {
		t.Errorf("status = %s, want completed", tanda.Status)
	}

	// No double-pay across the whole run: every payout had a distinct
	// recipient, so Received members must equal completed cycles.
	received := 0
	for i := range roster {
		if roster[i].Status == models.MemberReceived {
			received++
		}
	}
	if received != tanda.CurrentCycle-1 {
		t.Errorf("received members = %d, completed cycles = %d", received, tanda.CurrentCycle-1)
	}
}

func TestPreviewMatchesAdvanceAfterRenumbering(t *testing.T) {
	start := int64(1000)
	tanda, roster := activeTanda(t, 4, start)
	ledger := &fakeLedger{}

	// Cycle 1: everyone pays, m0 receives.
	depositAll(t, tanda, roster, ledger)
	cycle1At := start + day
	if _, _, err := TriggerPayout(tanda, roster, cycle1At, ledger.transfer); err != nil {
		t.Fatalf("cycle 1 payout: %v", err)
	}

	// Cycle 2: m1 (the scheduled beneficiary) goes delinquent. Expelling
	// them shifts positions, so the payout goes to the renumbered holder
	// of position 1.
	for _, addr := range []string{"m0", "m2", "m3"} {
		if err := Deposit(tanda, roster, addr, testBps, testSink, ledger.transfer); err != nil {
			t.Fatalf("Deposit %s: %v", addr, err)
		}
	}

	now := cycle1At + 7*day
	preview := PreviewAdvance(tanda, roster, now)
	res, err := Advance(tanda, roster, now, ledger.transfer)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}

	if preview.ExpelCount != len(res.Expelled) {
		t.Errorf("preview expel = %d, actual %d", preview.ExpelCount, len(res.Expelled))
	}
	if preview.WillPayout != res.PaidOut {
		t.Errorf("preview payout = %v, actual %v", preview.WillPayout, res.PaidOut)
	}
	if res.PaidOut && preview.Beneficiary != res.Recipient {
		t.Errorf("preview beneficiary = %s, actual recipient %s", preview.Beneficiary, res.Recipient)
	}
	if res.Recipient != "m2" {
		t.Errorf("recipient = %s, want m2 (renumbered into position 1)", res.Recipient)
	}
}

func TestAdvanceNotActive(t *testing.T) {
	tanda, roster := activeTanda(t, 2, 1000)
	tanda.Status = models.StatusCompleted

	if _, err := Advance(tanda, roster, 2000, (&fakeLedger{}).transfer); !errors.Is(err, ErrNotActive) {
		t.Errorf("err = %v, want ErrNotActive", err)
	}

	preview := PreviewAdvance(tanda, roster, 2000)
	if preview.CanAdvance || preview.ExpelCount != 0 || preview.WillPayout {
		t.Errorf("preview on inactive tanda = %+v, want zero value", preview)
	}
}

func TestCommission(t *testing.T) {
	tests := []struct {
		amount int64
		bps    int
		want   int64
	}{
		{100_0000000, 50, 5000000},
		{100_0000000, 0, 0},
		{100_0000000, 1000, 10_0000000},
		{999, 50, 4}, // integer floor
		{1, 50, 0},
	}
	for _, tt := range tests {
		if got := Commission(tt.amount, tt.bps); got != tt.want {
			t.Errorf("Commission(%d, %d) = %d, want %d", tt.amount, tt.bps, got, tt.want)
		}
	}
}
