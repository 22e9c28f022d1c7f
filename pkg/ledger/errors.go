package ledger

import "errors"

// Common errors returned by the ledger.
var (
	// ErrInvalidRecord is returned when a record or draft breaks a record invariant.
	ErrInvalidRecord = errors.New("invalid session record")

	// ErrCorruptLedger is returned when the stored blob is not a JSON array.
	ErrCorruptLedger = errors.New("stored session history is not a JSON array")
)
