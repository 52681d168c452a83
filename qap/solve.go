package qap

import "github.com/katalvlaran/topomap/matrix"

// Solve computes a process → slot permutation minimising
// Σ_i Σ_j comm[i][j] · dist[perm[i]][perm[j]].
//
// Stages:
//  1. Validate options and both matrices (square, same order, finite, ≥ 0).
//  2. Prefetch both into row-major buffers.
//  3. Greedy construction.
//  4. Pairwise-swap local search, unless opts.SkipSearch.
//
// N = 0 yields an empty permutation and N = 1 yields [0].
//
// Errors: ErrBadOptions, matrix.ErrNilMatrix, matrix.ErrNonSquare,
// matrix.ErrNaNInf, matrix.ErrNegativeValue, matrix.ErrDimensionMismatch.
// Complexity: O(N²) construction plus O(N) per swap trial.
func Solve(comm, dist matrix.Matrix, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	c, d, n, err := prefetch(comm, dist)
	if err != nil {
		return Result{}, err
	}

	perm := construct(c, d, n)
	e := &swapEngine{c: c, d: d, n: n, perm: perm, eps: opts.Eps}
	if opts.SkipSearch {
		return e.run(-1), nil
	}

	return e.run(opts.MaxIterations), nil
}

// prefetch validates both matrices and copies them into row-major buffers.
func prefetch(comm, dist matrix.Matrix) (c, d []float64, n int, err error) {
	if err = matrix.ValidateVolumes(comm); err != nil {
		return nil, nil, 0, err
	}
	if err = matrix.ValidateVolumes(dist); err != nil {
		return nil, nil, 0, err
	}
	if err = matrix.ValidateSameOrder(comm, dist); err != nil {
		return nil, nil, 0, err
	}
	if c, err = matrix.Flatten(comm); err != nil {
		return nil, nil, 0, err
	}
	if d, err = matrix.Flatten(dist); err != nil {
		return nil, nil, 0, err
	}

	return c, d, comm.Rows(), nil
}
