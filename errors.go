package kessot

import "errors"

// An unknown action or an unmatched probe is never an error — it simply
// returns an empty or nil result. These sentinels cover everything that
// is an error: bad input, and failures reading or writing a persisted
// knowledge base.
var (
	// ErrMalformedInput is returned when a caller-supplied "role:value"
	// argument string is missing its colon, or has an empty role or
	// empty value half, or when AddFact is given a variable-valued
	// argument (only rule heads/subgoals may hold variables).
	ErrMalformedInput = errors.New("kessot: malformed input")

	// ErrIOError wraps an underlying filesystem failure during Save or
	// Load.
	ErrIOError = errors.New("kessot: io error")

	// ErrDecodeError is returned when a persisted payload cannot be
	// parsed.
	ErrDecodeError = errors.New("kessot: decode error")
)
