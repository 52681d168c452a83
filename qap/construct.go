// Package qap - greedy construction.
//
// The heaviest communicator goes to the most central slot; then, one step at a
// time, the process with the most traffic towards already-placed processes
// takes the free slot closest to the already-used slots.
//
//	load(i)       = Σ_j c[i][j] + c[j][i]           (seed: over all j)
//	centrality(s) = Σ_t d[s][t] + d[t][s]           (seed: over all t)
//	accLoad(i)    = Σ_{a placed} c[i][a] + c[a][i]  (later steps)
//	accDist(s)    = Σ_{u used}   d[s][u]            (later steps)
//
// Ties go to the lowest index. Both accumulators are maintained incrementally,
// so construction costs O(N²) overall.
package qap

import (
	"math"

	"github.com/katalvlaran/topomap/matrix"
)

// Construct returns the greedy process → slot permutation for comm and dist.
//
// Errors: the matrix.ErrMalformedInput family and matrix.ErrDimensionMismatch.
func Construct(comm, dist matrix.Matrix) ([]int, error) {
	c, d, n, err := prefetch(comm, dist)
	if err != nil {
		return nil, err
	}

	return construct(c, d, n), nil
}

// construct runs on prefetched row-major buffers; see the package comment.
func construct(c, d []float64, n int) []int {
	perm := make([]int, n)
	if n == 0 {
		return perm
	}

	var (
		placed  = make([]bool, n)
		used    = make([]bool, n)
		accLoad = make([]float64, n)
		accDist = make([]float64, n)
		i, j    int
		p, s    int
		step    int
	)

	// Seed: global load and centrality.
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			accLoad[i] += c[i*n+j] + c[j*n+i]
			accDist[i] += d[i*n+j] + d[j*n+i]
		}
	}
	p, s = argMax(accLoad, placed), argMin(accDist, used)

	for i = 0; i < n; i++ {
		accLoad[i], accDist[i] = 0, 0
	}

	for step = 0; ; step++ {
		perm[p] = s
		placed[p], used[s] = true, true
		if step == n-1 {
			break
		}
		for i = 0; i < n; i++ {
			if !placed[i] {
				accLoad[i] += c[i*n+p] + c[p*n+i]
			}
			if !used[i] {
				accDist[i] += d[i*n+s]
			}
		}
		p, s = argMax(accLoad, placed), argMin(accDist, used)
	}

	return perm
}

// argMax returns the lowest index of the largest value among entries not taken.
func argMax(v []float64, taken []bool) int {
	var (
		idx  = -1
		best = math.Inf(-1)
		i    int
	)
	for i = range v {
		if taken[i] {
			continue
		}
		if idx < 0 || v[i] > best {
			idx, best = i, v[i]
		}
	}

	return idx
}

// argMin returns the lowest index of the smallest value among entries not taken.
func argMin(v []float64, taken []bool) int {
	var (
		idx  = -1
		best = math.Inf(1)
		i    int
	)
	for i = range v {
		if taken[i] {
			continue
		}
		if idx < 0 || v[i] < best {
			idx, best = i, v[i]
		}
	}

	return idx
}
