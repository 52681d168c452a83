package treematch

import (
	"fmt"

	"github.com/katalvlaran/topomap/matrix"
)

// Group partitions the m entries of w into m/k groups of k, minimising the
// volume that crosses group boundaries (equivalently, maximising the volume
// kept inside groups).
//
// Dispatch:
//   - k == 1 or k >= m:          trivial grouping, not degraded.
//   - C(m,k) > MaxCandidates:    greedy grouping, degraded.
//   - otherwise:                 enumeration + independent-set search;
//     budget exhausted with an incumbent → incumbent, degraded;
//     budget exhausted without one → greedy, degraded;
//     search completed without one → ErrPlacement.
//
// The search only runs when k divides m, and then some partition into m/k
// groups always exists, so a completed search always has an incumbent:
// ErrPlacement marks a search defect rather than an input the caller could
// fix. Solve never reaches it.
//
// Errors: matrix.ErrMalformedInput family, matrix.ErrBlockSize when k < 1 or
// k does not divide m (for k < m), ErrBadOptions, ErrPlacement.
func Group(w matrix.Matrix, k int, opts Options) (Grouping, error) {
	if err := opts.validate(); err != nil {
		return Grouping{}, err
	}
	if err := matrix.ValidateVolumes(w); err != nil {
		return Grouping{}, err
	}
	m := w.Rows()
	if k < 1 || (k < m && m%k != 0) {
		return Grouping{}, fmt.Errorf("treematch: group size %d for %d entries: %w", k, m, matrix.ErrBlockSize)
	}

	switch {
	case k == 1:
		groups := make([][]int, m)
		for i := range groups {
			groups[i] = []int{i}
		}
		return Grouping{Groups: groups, Method: MethodTrivial}, nil
	case k >= m:
		return Grouping{Groups: [][]int{matrix.Identity(m)}, Method: MethodTrivial}, nil
	}

	if candidateCount(m, k) > float64(opts.MaxCandidates) {
		return greedyGrouping(w, m, k, 0)
	}

	cs := enumerate(m, k)
	if err := cs.weigh(w, opts.workers()); err != nil {
		return Grouping{}, err
	}

	e := newSearchEngine(cs, opts.SearchBudget)
	found, exhausted := e.run()
	switch {
	case found:
		groups := make([][]int, len(e.best))
		for i, c := range e.best {
			groups[i] = append([]int(nil), cs.group(c)...)
		}
		return Grouping{
			Groups:     groups,
			Weight:     e.bestW,
			Method:     MethodExact,
			Degraded:   exhausted,
			Candidates: cs.count,
			Explored:   e.explored,
		}, nil
	case exhausted:
		g, err := greedyGrouping(w, m, k, e.explored)
		g.Candidates = cs.count
		return g, err
	default:
		return Grouping{}, fmt.Errorf("%w: %d entries in groups of %d", ErrPlacement, m, k)
	}
}

func greedyGrouping(w matrix.Matrix, m, k, explored int) (Grouping, error) {
	data, err := matrix.Flatten(w)
	if err != nil {
		return Grouping{}, err
	}
	groups := greedyGroups(data, m, k)
	weight, err := groupingWeight(w, groups)
	if err != nil {
		return Grouping{}, err
	}

	return Grouping{
		Groups:   groups,
		Weight:   weight,
		Method:   MethodGreedy,
		Degraded: true,
		Explored: explored,
	}, nil
}
