// Package matrix holds the dense numeric storage shared by the placement
// engine and the cost utilities both solvers are measured with.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with safe accessors (At/Set return
//     errors instead of panicking). A communication matrix (volume sent from
//     process i to process j) and a distance matrix (topological cost between
//     slot u and slot v) are both plain Dense values.
//   - Validators with a single source of truth for shape, finiteness and
//     sign checks.
//   - FloydWarshall, the dense all-pairs shortest path closure used to turn a
//     weighted topology into slot distances.
//   - Placement utilities: TotalCost, Reorder, Invert, Aggregate, Pad,
//     GroupVolume and OffNodeVolume.
//
// Permutation direction: throughout this module perm[process] = slot.
// TotalCost therefore reads
//
//	Σ_i Σ_j comm[i][j] · dist[perm[i]][perm[j]]
//
// and Reorder moves row/column i of a matrix to position perm[i].
//
// Matrices of order 0 are legal and model the empty placement problem.
package matrix
