package qap

import (
	"errors"
	"math"
)

// ErrBadOptions is returned when Options carry a negative budget or tolerance.
var ErrBadOptions = errors.New("qap: invalid options")

// Options configures the solver.
//
// MaxIterations – swap trials in the local search. 0 means N² for N processes.
//
//	Must be ≥ 0.
//
// Eps           – minimum cost drop for a swap to be kept. Must be finite and ≥ 0.
// SkipSearch    – return the greedy construction without local search.
type Options struct {
	MaxIterations int
	Eps           float64
	SkipSearch    bool
}

// DefaultOptions returns the defaults:
//   - MaxIterations: 0 (N² swap trials).
//   - Eps:           1e-9 (absorbs floating-point noise in the swap delta).
//   - SkipSearch:    false.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 0,
		Eps:           1e-9,
	}
}

func (o Options) validate() error {
	if o.MaxIterations < 0 || o.Eps < 0 || math.IsNaN(o.Eps) || math.IsInf(o.Eps, 0) {
		return ErrBadOptions
	}

	return nil
}

// Result holds the outcome of Solve.
type Result struct {
	// Perm maps process → slot.
	Perm []int

	// Cost is TotalCost(comm, dist, Perm).
	Cost float64

	// ConstructionCost is the cost of the greedy permutation before local
	// search; Cost ≤ ConstructionCost always holds.
	ConstructionCost float64

	// Iterations counts swap trials; Improvements counts kept swaps.
	Iterations   int
	Improvements int

	// Converged is true when the search ended on a full pass without a kept
	// swap, i.e. Perm is a 2-swap local optimum. False when the iteration
	// budget ran out first or the search was skipped. The default budget of
	// N² trials covers only about two passes, so any kept swap late in the
	// run leaves Converged false: it is informational and not a quality flag
	// on its own.
	Converged bool
}
