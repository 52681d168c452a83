// Package topomap computes topology-aware process placements: given how much
// every pair of processes talks and where the hardware slots sit in the
// interconnect, it finds a process → slot permutation that keeps heavy
// talkers close together.
//
// 🚀 What is topomap?
//
//	An offline placement planner that brings together:
//		• Topology model: slot names → pruned island/rack/cabinet/server tree
//		• Distances: Floyd–Warshall closure of the weighted tree, or flat hop weights
//		• QAP solver: greedy construction + bounded pairwise-swap local search
//		• TreeMatch solver: bottom-up grouping with budgeted exact search
//		• Cost tools: total weighted cost, reordering, off-node volume
//		• Directive: KEY=0.s0,1.s1,... for the launching runtime
//
// ✨ Why choose topomap?
//
//   - Deterministic – identical input gives an identical permutation
//   - Bounded – every search has a budget; running out degrades, never fails
//   - Honest – degraded results say so, with a reason
//
// Under the hood, everything is organized under these subpackages:
//
//	matrix/       dense matrices, validators, Floyd–Warshall, cost & reorder helpers
//	topology/     scope extractors, layer weights, topology tree, distance matrices
//	qap/          quadratic-assignment heuristic
//	treematch/    hierarchical grouping solver
//	placement/    Planner, solver dispatch, fallback, metrics, directive codec
//	config/       typed configuration loaded through viper
//	logging/      zap logger construction
//	cmd/topomap   solve / evaluate CLI
//
// Quick ASCII example (two servers, four slots, pairs 0–2 and 1–3 talk):
//
//	    island
//	    /    \
//	  s01    s02
//	  / \    / \
//	 0   2  1   3     ← processes after placement
//
//	go install github.com/katalvlaran/topomap/cmd/topomap@latest
package topomap
