package freetime

import "errors"

// Validation failures surfaced by ComputeFreeSlots. These are input bugs,
// never retried. An empty slot list is a valid result, not an error.
var (
	ErrInvalidInterval  = errors.New("freetime: busy interval start must be before end")
	ErrInvalidWindow    = errors.New("freetime: query window start must be before end")
	ErrInvalidThreshold = errors.New("freetime: minimum duration must not be negative")
)
