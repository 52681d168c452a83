// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures for the placement kernels.
//   - Keep all data finite and well-formed unless a test targets validation.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/topomap/matrix"
)

// hide wraps any Matrix to hide its concrete type, forcing the generic
// (non-*Dense) paths in code under test.
type hide struct{ matrix.Matrix }

// MustRows builds a *Dense from literal rows or fails the test.
func MustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

// RandomVolumes returns an n×n matrix with a zero diagonal and integer
// volumes in [0,maxV) elsewhere, drawn from a seeded source.
func RandomVolumes(t *testing.T, n int, maxV int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m, err := matrix.NewSquare(n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			require.NoError(t, m.Set(i, j, float64(rng.Intn(maxV))))
		}
	}

	return m
}

// RandomPerm returns a seeded random permutation of 0..n-1.
func RandomPerm(n int, seed int64) []int {
	return rand.New(rand.NewSource(seed)).Perm(n)
}

// BlockDiagonal returns an n×n matrix with volume v between distinct members
// of each contiguous block of size k and zero elsewhere.
func BlockDiagonal(t *testing.T, n, k int, v float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewSquare(n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && i/k == j/k {
				require.NoError(t, m.Set(i, j, v))
			}
		}
	}

	return m
}
