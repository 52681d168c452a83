// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Placement cost measures that are independent of which solver produced
//     the permutation: total weighted cost and off-node volume.
//
// Complexity:
//   - TotalCost O(n²); OffNodeVolume O(n²).

package matrix

import "fmt"

const (
	opTotalCost     = "TotalCost"
	opOffNodeVolume = "OffNodeVolume"
)

// TotalCost returns Σ_i Σ_j comm[i][j] · dist[perm[i]][perm[j]], the traffic
// of every process pair weighted by the distance between their slots.
//
// Contract:
//   - comm and dist are square of equal order n; perm is a bijection on 0..n-1
//     mapping process → slot.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch, ErrInvalidPermutation.
func TotalCost(comm, dist Matrix, perm []int) (float64, error) {
	if err := ValidateSameOrder(comm, dist); err != nil {
		return 0, matrixErrorf(opTotalCost, err)
	}
	n := comm.Rows()
	if err := ValidatePermutation(perm, n); err != nil {
		return 0, matrixErrorf(opTotalCost, err)
	}

	c, err := flatten(comm)
	if err != nil {
		return 0, matrixErrorf(opTotalCost, err)
	}
	d, err := flatten(dist)
	if err != nil {
		return 0, matrixErrorf(opTotalCost, err)
	}

	return TotalCostFlat(c, d, perm, n), nil
}

// TotalCostFlat is TotalCost over prefetched row-major buffers. It performs
// no validation and is meant for solver hot paths.
func TotalCostFlat(comm, dist []float64, perm []int, n int) float64 {
	var (
		sum  float64
		i, j int
		row  int
		v    float64
	)
	for i = 0; i < n; i++ {
		row = perm[i] * n
		for j = 0; j < n; j++ {
			v = comm[i*n+j]
			if v == 0 {
				continue
			}
			sum += v * dist[row+perm[j]]
		}
	}

	return sum
}

// OffNodeVolume splits m into contiguous groupSize×groupSize blocks, drops the
// diagonal blocks (traffic inside one group) and returns the sum of the rest.
// Applied to Reorder(comm, perm) with groupSize = slots per node it measures
// how much traffic a placement pushes over the network.
//
// Errors: ErrNonSquare, ErrBlockSize when groupSize <= 0 or does not divide n.
// Complexity: O(n²).
func OffNodeVolume(m Matrix, groupSize int) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opOffNodeVolume, err)
	}
	n := m.Rows()
	if groupSize <= 0 || n%groupSize != 0 {
		return 0, matrixErrorf(fmt.Sprintf("%s(n=%d,group=%d)", opOffNodeVolume, n, groupSize), ErrBlockSize)
	}

	data, err := flatten(m)
	if err != nil {
		return 0, matrixErrorf(opOffNodeVolume, err)
	}

	var (
		sum  float64
		i, j int
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i/groupSize == j/groupSize {
				continue
			}
			sum += data[i*n+j]
		}
	}

	return sum, nil
}
