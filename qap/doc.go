// Package qap places processes onto slots by treating placement as a
// Quadratic Assignment Problem.
//
// Given a communication matrix comm (volume sent from process i to process j)
// and a distance matrix dist (cost of moving one unit from slot s to slot t),
// Solve looks for a bijection perm (process → slot) minimising
//
//	TotalCost = Σ_i Σ_j comm[i][j] · dist[perm[i]][perm[j]]
//
// QAP is NP-hard; the solver is a two-phase heuristic:
//
//   - Construct: greedy pairing of the heaviest communicators with the most
//     central slots (construct.go).
//   - LocalSearch: cyclic pairwise swaps with O(N) delta evaluation, bounded
//     by Options.MaxIterations (search.go).
//
// Determinism: no randomness is used; equal inputs give equal permutations.
// Inputs are never mutated.
package qap
