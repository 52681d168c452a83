// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Permutation helpers shared by the solvers, the directive codec and tests.
//   - Reorder: move row/column i of a matrix to position perm[i].
//
// Invariant:
//   - Reorder(Reorder(m, p), Invert(p)) == m for every square m and permutation p.

package matrix

const opReorder = "Reorder"

// Identity returns [0, 1, …, n-1].
func Identity(n int) []int {
	out := make([]int, n)
	var i int
	for i = range out {
		out[i] = i
	}

	return out
}

// Invert returns q with q[perm[i]] = i.
//
// Errors: ErrInvalidPermutation if perm is not a bijection on 0..len(perm)-1.
// Complexity: O(n).
func Invert(perm []int) ([]int, error) {
	if err := ValidatePermutation(perm, len(perm)); err != nil {
		return nil, err
	}

	out := make([]int, len(perm))
	var i, v int
	for i, v = range perm {
		out[v] = i
	}

	return out, nil
}

// Reorder returns a new matrix whose row and column perm[i] hold the original
// row and column i: out[perm[i]][perm[j]] = m[i][j]. With perm[process] = slot
// this lays a communication matrix out in slot order.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch, ErrInvalidPermutation.
// Complexity: O(n²).
func Reorder(m Matrix, perm []int) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opReorder, err)
	}
	n := m.Rows()
	if err := ValidatePermutation(perm, n); err != nil {
		return nil, matrixErrorf(opReorder, err)
	}

	src, err := flatten(m)
	if err != nil {
		return nil, matrixErrorf(opReorder, err)
	}

	out := &Dense{r: n, c: n, data: make([]float64, n*n)}
	var (
		i, j int
		base int
	)
	for i = 0; i < n; i++ {
		base = perm[i] * n
		for j = 0; j < n; j++ {
			out.data[base+perm[j]] = src[i*n+j]
		}
	}

	return out, nil
}
