// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All operations return these sentinels (optionally wrapped with call-site
// context via %w); callers and tests match them with errors.Is.
// No operation panics on user-triggered error conditions.

package matrix

import (
	"errors"
	"fmt"
)

// ERROR FAMILIES
// --------------
// ErrMalformedInput is the parent of every "the input itself is broken"
// condition (shape, NaN, negative volume, broken permutation). Each specific
// sentinel wraps it, so errors.Is(err, ErrMalformedInput) holds for all of them.
// ErrDimensionMismatch is kept separate: both operands are well-formed but they
// do not describe the same number of processes/slots.

var (
	// ErrMalformedInput is the family sentinel for structurally invalid input.
	ErrMalformedInput = errors.New("matrix: malformed input")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. a communication matrix and a distance matrix of different order.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")
)

var (
	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = fmt.Errorf("%w: nil matrix", ErrMalformedInput)

	// ErrInvalidDimensions indicates that requested matrix dimensions are negative.
	ErrInvalidDimensions = fmt.Errorf("%w: dimensions must be >= 0", ErrMalformedInput)

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = fmt.Errorf("%w: matrix is not square", ErrMalformedInput)

	// ErrRagged signals row slices of unequal length at ingestion.
	ErrRagged = fmt.Errorf("%w: rows have unequal length", ErrMalformedInput)

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = fmt.Errorf("%w: index out of range", ErrMalformedInput)

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = fmt.Errorf("%w: NaN or Inf encountered", ErrMalformedInput)

	// ErrNegativeValue signals a negative volume or distance.
	ErrNegativeValue = fmt.Errorf("%w: negative value", ErrMalformedInput)

	// ErrInvalidPermutation signals a slice that is not a bijection on 0..n-1.
	ErrInvalidPermutation = fmt.Errorf("%w: not a permutation", ErrMalformedInput)

	// ErrBlockSize signals a block size that is non-positive or does not divide the order.
	ErrBlockSize = fmt.Errorf("%w: invalid block size", ErrMalformedInput)
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
