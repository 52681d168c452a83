package treematch

import (
	"errors"
	"runtime"
)

// Sentinel errors of the treematch package.
var (
	// ErrPlacement is returned when an exhaustive search proves that no
	// complete grouping exists. Group only searches when k divides m, where
	// a complete grouping always exists, so valid input never produces it.
	ErrPlacement = errors.New("treematch: no valid grouping")

	// ErrBadOptions is returned for non-positive budgets or negative workers.
	ErrBadOptions = errors.New("treematch: invalid options")
)

// Options bounds the grouping search at every layer.
//
// MaxCandidates – largest C(m,k) that is enumerated; above it the layer is
//
//	grouped greedily and marked degraded. Must be ≥ 1.
//
// SearchBudget  – search nodes explored per layer before the best grouping
//
//	found so far is accepted (degraded). Must be ≥ 1.
//
// Workers       – goroutines weighing candidates; 0 means GOMAXPROCS.
type Options struct {
	MaxCandidates int
	SearchBudget  int
	Workers       int
}

// DefaultOptions returns the defaults:
//   - MaxCandidates: 1<<20 (C(64,4) = 635 376 fits).
//   - SearchBudget:  1<<18.
//   - Workers:       0 (GOMAXPROCS).
func DefaultOptions() Options {
	return Options{
		MaxCandidates: 1 << 20,
		SearchBudget:  1 << 18,
		Workers:       0,
	}
}

func (o Options) validate() error {
	if o.MaxCandidates < 1 || o.SearchBudget < 1 || o.Workers < 0 {
		return ErrBadOptions
	}

	return nil
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}

	return runtime.GOMAXPROCS(0)
}

// Method names how a layer was grouped.
type Method int

const (
	// MethodTrivial: arity 1, or every entry fits into a single group.
	MethodTrivial Method = iota
	// MethodExact: candidate enumeration and independent-set search.
	MethodExact
	// MethodGreedy: agglomerative grouping, used when enumeration is too large
	// or the search budget ran out before any grouping was found.
	MethodGreedy
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case MethodTrivial:
		return "trivial"
	case MethodExact:
		return "exact"
	case MethodGreedy:
		return "greedy"
	default:
		return "unknown"
	}
}

// Grouping partitions the entries of one working matrix into groups of
// equal size.
type Grouping struct {
	// Groups are ascending member lists, ordered by their lowest member.
	Groups [][]int
	// Weight is the sum over groups of −(intra-group volume).
	Weight float64
	// Method is how the groups were found.
	Method Method
	// Degraded is true unless the grouping is proven optimal or trivial.
	Degraded bool
	// Candidates is the number of enumerated candidate groups.
	Candidates int
	// Explored is the number of search nodes visited.
	Explored int
}

// Level records how one tree layer was processed, from the leaves upwards.
type Level struct {
	// Layer is the kept tree layer whose nodes the groups stand for.
	Layer int
	// Arity is the largest child count among the layer's nodes.
	Arity int
	// Size is the number of entries grouped.
	Size int
	// Groups is the number of groups formed, one per node of Layer.
	Groups int
	Method Method
	// Uneven is true when the layer's nodes differ in child count or their
	// children differ in shape; such layers are grouped by shape.
	Uneven bool
	// Degraded and Explored are copied from the layer's Grouping.
	Degraded bool
	Explored int
}

// Result holds the outcome of Solve.
type Result struct {
	// Perm maps process → slot.
	Perm []int
	// Levels lists the processed layers, deepest first.
	Levels []Level
	// Degraded is true when any layer is degraded.
	Degraded bool
}
