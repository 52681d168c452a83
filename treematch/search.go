// Package treematch - independent-set search.
//
// The search picks m/k pairwise disjoint candidates of minimum total weight,
// i.e. a minimum-weight independent set of size m/k in the conflict graph.
//
// Strategy:
//   - Depth-first; every level branches on the lowest uncovered entry e. Any
//     complete grouping contains exactly one candidate whose lowest member is
//     e, so only byFirst[e] is scanned and each grouping is reached once.
//   - Candidates are tried by ascending weight, so the first complete
//     grouping is already a good incumbent.
//   - Admissible bound: weight so far + Σ minShare[u] over uncovered u. A
//     candidate is skipped when its own weight plus the bound on what would
//     remain after it cannot beat the incumbent.
//   - Every visited node counts against SearchBudget; on exhaustion the
//     incumbent (if any) is returned and the grouping is marked degraded.
package treematch

import "math"

type searchEngine struct {
	cs       *candidateSet
	byFirst  [][]int
	minShare []float64

	covered bitset
	chosen  []int

	best     []int
	bestW    float64
	explored int
	budget   int
	stopped  bool
}

func newSearchEngine(cs *candidateSet, budget int) *searchEngine {
	return &searchEngine{
		cs:       cs,
		byFirst:  cs.byFirst(),
		minShare: cs.minShares(),
		covered:  make(bitset, cs.words),
		chosen:   make([]int, 0, cs.m/cs.k),
		bestW:    math.Inf(1),
		budget:   budget,
	}
}

// run searches from the empty grouping. found reports whether any complete
// grouping was reached; exhausted reports a budget stop.
func (e *searchEngine) run() (found, exhausted bool) {
	var rem float64
	for _, s := range e.minShare {
		rem += s
	}
	e.dfs(0, rem)

	return e.best != nil, e.stopped
}

func (e *searchEngine) dfs(weight, remShare float64) {
	first := e.covered.firstClear(e.cs.m)
	if first < 0 {
		if weight < e.bestW {
			e.bestW = weight
			e.best = append(e.best[:0], e.chosen...)
		}
		return
	}

	var (
		cw, rs float64
		x      int
	)
	for _, c := range e.byFirst[first] {
		if e.stopped {
			return
		}
		if e.covered.intersects(e.cs.mask(c)) {
			continue
		}
		cw = e.cs.weights[c]
		rs = remShare
		for _, x = range e.cs.group(c) {
			rs -= e.minShare[x]
		}
		if weight+cw+rs >= e.bestW {
			continue
		}
		if e.explored >= e.budget {
			e.stopped = true
			return
		}
		e.explored++

		e.covered.or(e.cs.mask(c))
		e.chosen = append(e.chosen, c)
		e.dfs(weight+cw, rs)
		e.chosen = e.chosen[:len(e.chosen)-1]
		e.covered.andNot(e.cs.mask(c))
	}
}
