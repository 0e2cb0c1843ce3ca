package domain

import "errors"

var (
	// ErrInvalidAmount rejects non-positive credit/debit/consume requests.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds ends a paid call when the wallet cannot cover the
	// next billed minutes.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientAllowance is returned when a free-minutes consume request
	// exceeds the remaining allowance. No partial consumption happens.
	ErrInsufficientAllowance = errors.New("insufficient free minutes")

	// ErrAlreadyClaimedToday rejects a second streak claim on the same calendar day.
	ErrAlreadyClaimedToday = errors.New("streak already claimed today")

	// ErrCallEnded rejects any decision on a session that already reached its
	// terminal state.
	ErrCallEnded = errors.New("call already ended")

	// ErrNoPendingSwitch rejects SwitchToPaid outside the free-exhausted
	// decision point.
	ErrNoPendingSwitch = errors.New("no pending switch decision")

	// ErrCallInProgress rejects starting a second concurrent call for a user.
	ErrCallInProgress = errors.New("call already in progress")

	ErrUserNotFound = errors.New("user not found")
)
