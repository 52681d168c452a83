// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for the input checks every
//    public placement operation runs before computing anything.
//  - Return sentinel errors wrapped with the validator tag so call sites can
//    still match them with errors.Is.
//
// Note:
//  - Composite validators follow a fixed sequence: NotNil → Square → Values.

package matrix

import (
	"fmt"
	"math"
)

func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
//
// Errors: ErrNilMatrix, ErrNonSquare.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf(fmt.Sprintf("ValidateSquare(%dx%d)", m.Rows(), m.Cols()), ErrNonSquare)
	}

	return nil
}

// ValidateSameOrder checks that a and b are square and of equal order.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateSameOrder(a, b Matrix) error {
	if err := ValidateSquare(a); err != nil {
		return err
	}
	if err := ValidateSquare(b); err != nil {
		return err
	}
	if a.Rows() != b.Rows() {
		return validatorErrorf(fmt.Sprintf("ValidateSameOrder(%d,%d)", a.Rows(), b.Rows()), ErrDimensionMismatch)
	}

	return nil
}

// ValidateNonNegative checks that every entry is finite and >= 0.
// Volumes and distances share this policy.
//
// Errors: ErrNaNInf, ErrNegativeValue (first violation in row-major order).
// Complexity: O(r*c).
func ValidateNonNegative(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}

	var (
		r, c = m.Rows(), m.Cols()
		i, j int
		v    float64
		err  error
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return validatorErrorf(fmt.Sprintf("ValidateNonNegative(%d,%d)", i, j), ErrNaNInf)
			}
			if v < 0 {
				return validatorErrorf(fmt.Sprintf("ValidateNonNegative(%d,%d)", i, j), ErrNegativeValue)
			}
		}
	}

	return nil
}

// ValidateVolumes is the composite check for a communication or distance
// matrix: non-nil, square, finite and non-negative.
func ValidateVolumes(m Matrix) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}

	return ValidateNonNegative(m)
}

// ValidatePermutation checks that perm is a bijection on 0..n-1.
//
// Errors: ErrDimensionMismatch when len(perm) != n, ErrInvalidPermutation
// on an out-of-range or repeated value.
// Complexity: O(n) time, O(n) space.
func ValidatePermutation(perm []int, n int) error {
	if len(perm) != n {
		return validatorErrorf(fmt.Sprintf("ValidatePermutation(len=%d,n=%d)", len(perm), n), ErrDimensionMismatch)
	}

	seen := make([]bool, n)
	var i, v int
	for i, v = range perm {
		if v < 0 || v >= n || seen[v] {
			return validatorErrorf(fmt.Sprintf("ValidatePermutation(perm[%d]=%d)", i, v), ErrInvalidPermutation)
		}
		seen[v] = true
	}

	return nil
}
