package gridsig

import "errors"

var (
	// ErrShape is returned when an input array has an unsupported rank,
	// an inconsistent length, no time samples, or an out-of-range time axis.
	ErrShape = errors.New("gridsig: invalid signal shape")

	// ErrTypeConstraint is returned when a render parameter has the wrong
	// arity or an unusable value (NaN, infinite, non-positive).
	ErrTypeConstraint = errors.New("gridsig: parameter violates type constraint")

	// ErrLookupMiss is returned by Permutation.Locate when a grid cell does
	// not map to a channel: padding, out-of-range coordinates or a stale
	// permutation. Callers treat it as "nothing under the pointer".
	ErrLookupMiss = errors.New("gridsig: no channel at grid cell")

	// ErrUnknownColor is returned by ParseColor for unresolvable names.
	ErrUnknownColor = errors.New("gridsig: unknown color")
)
