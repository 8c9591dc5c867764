package ledger

import "errors"

// Order rejection taxonomy. All of these are recovered at the call
// site and surfaced to the user as a rejected order; none are fatal.
var (
	ErrInvalidOrder         = errors.New("invalid order")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrUnknownUser          = errors.New("unknown user")
)
