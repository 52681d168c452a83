// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Group-level views of a communication matrix used while climbing a
//     topology tree: intra-group volume, inter-group aggregation and zero
//     padding up to a multiple of the group size.
//   - Every operation returns a new matrix; inputs are never mutated.

package matrix

import (
	"fmt"
	"math"
)

const (
	opAggregate   = "Aggregate"
	opPad         = "Pad"
	opGroupVolume = "GroupVolume"
	opAddTransfer = "AddTransfer"
)

// GroupVolume returns the volume exchanged among the members of group, in
// both directions, excluding self-traffic.
//
// Complexity: O(k²) for a group of k members.
func GroupVolume(m Matrix, group []int) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opGroupVolume, err)
	}

	var (
		sum  float64
		a, b int
		v    float64
		err  error
	)
	for _, a = range group {
		for _, b = range group {
			if a == b {
				continue
			}
			if v, err = m.At(a, b); err != nil {
				return 0, matrixErrorf(opGroupVolume, err)
			}
			sum += v
		}
	}

	return sum, nil
}

// Aggregate collapses m by groups: out[g][h] is the total volume sent from
// members of groups[g] to members of groups[h], with a zero diagonal.
//
// Contract:
//   - groups are pairwise disjoint and index into m; they need not cover m.
//
// Errors: ErrNonSquare, ErrOutOfRange for a member outside 0..n-1,
// ErrInvalidPermutation for an index listed twice.
// Complexity: O(n²) over the covered entries.
func Aggregate(m Matrix, groups [][]int) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opAggregate, err)
	}
	n := m.Rows()

	owner := make([]int, n)
	var i int
	for i = range owner {
		owner[i] = -1
	}
	var (
		g, x int
		grp  []int
	)
	for g, grp = range groups {
		for _, x = range grp {
			if x < 0 || x >= n {
				return nil, matrixErrorf(fmt.Sprintf("%s(group %d, member %d)", opAggregate, g, x), ErrOutOfRange)
			}
			if owner[x] >= 0 {
				return nil, matrixErrorf(fmt.Sprintf("%s(member %d)", opAggregate, x), ErrInvalidPermutation)
			}
			owner[x] = g
		}
	}

	src, err := flatten(m)
	if err != nil {
		return nil, matrixErrorf(opAggregate, err)
	}

	k := len(groups)
	out := &Dense{r: k, c: k, data: make([]float64, k*k)}
	var (
		j      int
		oi, oj int
	)
	for i = 0; i < n; i++ {
		if oi = owner[i]; oi < 0 {
			continue
		}
		for j = 0; j < n; j++ {
			if oj = owner[j]; oj < 0 || oj == oi {
				continue
			}
			out.data[oi*k+oj] += src[i*n+j]
		}
	}

	return out, nil
}

// Pad returns a size×size copy of m with zero rows and columns appended.
// Padded entries model processes with no traffic, used only to complete
// group sizes.
//
// Errors: ErrNonSquare, ErrInvalidDimensions when size < order(m).
// Complexity: O(size²).
func Pad(m Matrix, size int) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opPad, err)
	}
	n := m.Rows()
	if size < n {
		return nil, matrixErrorf(fmt.Sprintf("%s(%d<%d)", opPad, size, n), ErrInvalidDimensions)
	}

	src, err := flatten(m)
	if err != nil {
		return nil, matrixErrorf(opPad, err)
	}

	out := &Dense{r: size, c: size, data: make([]float64, size*size)}
	var i int
	for i = 0; i < n; i++ {
		copy(out.data[i*size:i*size+n], src[i*n:(i+1)*n])
	}

	return out, nil
}

// AddTransfer accumulates amount into m[from][to]; a trace collaborator calls
// it once per observed message.
//
// Errors: ErrOutOfRange, ErrNaNInf, ErrNegativeValue.
func AddTransfer(m Matrix, from, to int, amount float64) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return matrixErrorf(opAddTransfer, ErrNaNInf)
	}
	if amount < 0 {
		return matrixErrorf(opAddTransfer, ErrNegativeValue)
	}
	v, err := m.At(from, to)
	if err != nil {
		return matrixErrorf(opAddTransfer, err)
	}

	return m.Set(from, to, v+amount)
}

// Symmetrize returns a copy where out[i][j] = out[j][i] = m[i][j] + m[j][i],
// for collaborators that record each transfer on the sending side only.
func Symmetrize(m Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf("Symmetrize", err)
	}
	n := m.Rows()
	src, err := flatten(m)
	if err != nil {
		return nil, matrixErrorf("Symmetrize", err)
	}

	out := &Dense{r: n, c: n, data: make([]float64, n*n)}
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			out.data[i*n+j] = src[i*n+j] + src[j*n+i]
		}
	}

	return out, nil
}
