// Package treematch - candidate groups.
//
// A candidate is one k-subset of the m entries of the working matrix. All
// C(m,k) candidates are enumerated in lexicographic order, weighed by
// −(intra-group volume) and stored in flat arrays:
//
//	members[c*k : (c+1)*k]   ascending entries of candidate c
//	weights[c]               −GroupVolume(w, members of c)
//	masks[c*words : ...]     entry bitset of c
//
// Two candidates conflict (share an edge of the conflict graph) exactly when
// their bitsets intersect, so the graph itself is never materialised.
package treematch

import (
	"math/bits"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/katalvlaran/topomap/matrix"
)

// weighChunk is the smallest slice of candidates handed to one worker.
const weighChunk = 4096

type candidateSet struct {
	m, k    int
	words   int
	count   int
	members []int
	weights []float64
	masks   []uint64
}

// candidateCount returns C(m,k) as a float, so that large counts compare
// against the budget without overflow.
func candidateCount(m, k int) float64 {
	return combin.GeneralizedBinomial(float64(m), float64(k))
}

// enumerate builds every k-subset of 0..m-1 with its bitset.
func enumerate(m, k int) *candidateSet {
	count := combin.Binomial(m, k)
	cs := &candidateSet{
		m:       m,
		k:       k,
		words:   (m + 63) / 64,
		count:   count,
		members: make([]int, 0, count*k),
		weights: make([]float64, count),
	}
	cs.masks = make([]uint64, count*cs.words)

	var (
		gen = combin.NewCombinationGenerator(m, k)
		buf = make([]int, k)
		c   int
		x   int
	)
	for gen.Next() {
		buf = gen.Combination(buf)
		cs.members = append(cs.members, buf...)
		for _, x = range buf {
			cs.masks[c*cs.words+x/64] |= 1 << uint(x%64)
		}
		c++
	}

	return cs
}

// group returns the members of candidate c; callers must not modify it.
func (cs *candidateSet) group(c int) []int {
	return cs.members[c*cs.k : (c+1)*cs.k]
}

func (cs *candidateSet) mask(c int) []uint64 {
	return cs.masks[c*cs.words : (c+1)*cs.words]
}

// weigh fills weights in parallel; workers write disjoint index ranges.
func (cs *candidateSet) weigh(w matrix.Matrix, workers int) error {
	var g errgroup.Group
	g.SetLimit(workers)

	chunk := (cs.count + workers - 1) / workers
	if chunk < weighChunk {
		chunk = weighChunk
	}
	for lo := 0; lo < cs.count; lo += chunk {
		hi := min(lo+chunk, cs.count)
		g.Go(func() error {
			var (
				c   int
				v   float64
				err error
			)
			for c = lo; c < hi; c++ {
				if v, err = matrix.GroupVolume(w, cs.group(c)); err != nil {
					return err
				}
				cs.weights[c] = -v
			}

			return nil
		})
	}

	return g.Wait()
}

// byFirst indexes candidates by their lowest member, each list sorted by
// weight and then by enumeration (lexicographic) order.
func (cs *candidateSet) byFirst() [][]int {
	out := make([][]int, cs.m)
	var c int
	for c = 0; c < cs.count; c++ {
		f := cs.members[c*cs.k]
		out[f] = append(out[f], c)
	}
	for _, list := range out {
		slices.SortStableFunc(list, func(a, b int) int {
			switch {
			case cs.weights[a] < cs.weights[b]:
				return -1
			case cs.weights[a] > cs.weights[b]:
				return 1
			default:
				return a - b
			}
		})
	}

	return out
}

// minShares returns, per entry, the smallest weight/k over the candidates
// containing it: a lower bound on the entry's share of any grouping.
func (cs *candidateSet) minShares() []float64 {
	out := make([]float64, cs.m)
	seen := make([]bool, cs.m)
	var (
		c, x  int
		share float64
	)
	for c = 0; c < cs.count; c++ {
		share = cs.weights[c] / float64(cs.k)
		for _, x = range cs.group(c) {
			if !seen[x] || share < out[x] {
				out[x], seen[x] = share, true
			}
		}
	}

	return out
}

// bitset is a fixed-size set of entries.
type bitset []uint64

func (b bitset) intersects(m []uint64) bool {
	for i, w := range m {
		if b[i]&w != 0 {
			return true
		}
	}

	return false
}

func (b bitset) or(m []uint64) {
	for i, w := range m {
		b[i] |= w
	}
}

func (b bitset) andNot(m []uint64) {
	for i, w := range m {
		b[i] &^= w
	}
}

// firstClear returns the lowest entry below n not in b, or -1.
func (b bitset) firstClear(n int) int {
	for i, w := range b {
		if w == ^uint64(0) {
			continue
		}
		x := i*64 + bits.TrailingZeros64(^w)
		if x < n {
			return x
		}

		return -1
	}

	return -1
}
