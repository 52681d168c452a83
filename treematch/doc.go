// Package treematch places processes by recursive grouping along the
// topology tree, in the manner of the TreeMatch algorithm.
//
// Starting at the slot leaves, every layer asks: given k children per parent,
// which k entries of the current working matrix should share a parent so that
// the least traffic crosses parents? The chosen groups are collapsed
// (matrix.Aggregate) into a smaller working matrix and the next layer up
// repeats the question, until the root is reached.
//
//	layer d   : m entries  ──Group(k)──►  m/k groups  ──Aggregate──►  layer d-1
//
// Group enumerates all k-subsets as candidates and searches for m/k pairwise
// disjoint candidates of minimum total weight (a minimum-weight independent
// set in the conflict graph of overlapping candidates). Candidate counts and
// search nodes are bounded by Options; when a bound is hit the layer falls
// back to the best grouping found so far, or to a greedy grouping, and the
// result is marked Degraded.
//
// Groups are formed per parent node, so a layer always yields exactly as many
// groups as the layer above has nodes. When parents differ in child count
// (servers with different slot counts, islands with different server counts)
// each parent takes entries shaped like its own children, greedily, and the
// result is marked Degraded. The final groups are laid top-down onto nodes of
// the same shape, so no node ever receives more processes than it has slots.
//
// Determinism: candidate order, search order and tie-breaks are fixed, and
// the parallel candidate weighing writes disjoint ranges, so results do not
// depend on Options.Workers.
package treematch
