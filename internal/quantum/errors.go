package quantum

import "errors"

// Fatal, stream-corrupting errors (spec §7). These abort decoding of
// the current archive; there is no recovery path, mirroring the
// teacher's StructuralError ("bzip2 data invalid: ...") in spirit —
// a small sentinel-style value rather than an elaborately structured
// error hierarchy, since the core never needs to do more with these
// than propagate them.
var (
	// ErrModelInvariantBroken is returned when a model's cumulative
	// frequency table would become non-monotone or its total would
	// drop to zero.
	ErrModelInvariantBroken = errors.New("quantum: model invariant broken")

	// ErrDecodeOutOfRange is returned when the range decoder produces
	// a target at or beyond a model's total, or narrowing would
	// invert low/high.
	ErrDecodeOutOfRange = errors.New("quantum: range decoder target out of range")

	// ErrWindowOutOfBounds is returned when a match's offset reaches
	// further back than the window currently holds valid data for.
	ErrWindowOutOfBounds = errors.New("quantum: match offset out of window bounds")

	// ErrTruncatedInput is returned when the bit reader runs out of
	// payload before a file's declared length is satisfied.
	ErrTruncatedInput = errors.New("quantum: truncated input")

	// ErrBadTableSize is returned when a window exponent falls outside
	// [10,21] (spec §3, §7).
	ErrBadTableSize = errors.New("quantum: table size out of range")

	// ErrReservedSelector is returned when the selector model decodes
	// the 8th, unused selector symbol (spec §4.5; see the comment on
	// selReserved in decoder.go).
	ErrReservedSelector = errors.New("quantum: reserved selector symbol decoded")

	// ErrMatchExceedsRemaining is returned when a decoded match length
	// would emit more bytes than a file's declared length has left
	// (spec §4.5's boundary case on malformed streams).
	ErrMatchExceedsRemaining = errors.New("quantum: match length exceeds remaining file bytes")
)
