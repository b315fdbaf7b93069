package engine

import "errors"

// State errors: the tanda is in the wrong lifecycle phase.
var (
	ErrNotForming = errors.New("tanda not accepting members")
	ErrNotActive  = errors.New("tanda not active")
)

// Authorization errors.
var (
	ErrNotCreator = errors.New("only the creator may do this")
)

// Membership errors.
var (
	ErrTandaFull           = errors.New("tanda is full")
	ErrAlreadyMember       = errors.New("already a member")
	ErrNotAMember          = errors.New("not a member")
	ErrMemberNotFound      = errors.New("member not found")
	ErrAlreadyExpelled     = errors.New("member already expelled")
	ErrWasExpelled         = errors.New("member was expelled")
	ErrInsufficientMembers = errors.New("need at least 2 members")
)

// Validation errors at creation time.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidMemberCap  = errors.New("members must be 2-12")
	ErrCommissionTooHigh = errors.New("commission too high (max 10%)")
)

// Timing and accounting errors.
var (
	ErrDeadlineNotReached = errors.New("delinquency period not passed")
	ErrAlreadyDeposited   = errors.New("already deposited this cycle")
	ErrHasDeposited       = errors.New("member has deposited")

	// ErrNotReady is the soft failure of a payout attempt: not every
	// member has deposited yet. Expected during normal operation.
	ErrNotReady = errors.New("not all members have deposited")
)

// ErrBeneficiaryNotFound indicates position/cycle bookkeeping corruption.
// Unreachable under correct operation; treated as fatal by callers.
var ErrBeneficiaryNotFound = errors.New("beneficiary not found")
