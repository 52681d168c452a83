// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Canonical dense APSP (Floyd–Warshall) with deterministic loop order.
//   - Used by the topology model to close a weighted tree into slot distances.
//
// Contract:
//   - Square matrix; +Inf means “no path”; diagonal must be 0 before calling.

package matrix

import "math"

const opFloydWarshall = "FloydWarshall"

// NewDistanceSeed returns an n×n matrix with a zero diagonal and +Inf
// everywhere else, ready for edges to be written in before FloydWarshall.
// Zero-weight edges stay representable, unlike an adjacency of 0/w values.
//
// Complexity: O(n²).
func NewDistanceSeed(n int) (*Dense, error) {
	d, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}

	var (
		inf  = math.Inf(1)
		i, j int
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i != j {
				d.data[i*n+j] = inf
			}
		}
	}

	return d, nil
}

// closePaths relaxes every from→to distance through each intermediate node
// via in turn, in place. Ties keep the existing value, so the result depends
// only on the input.
// Time: O(n³); extra space: O(1).
func closePaths(d *Dense) {
	var (
		n               = d.r
		dist            = d.data
		via, from, to   int
		viaRow, fromRow int
		toVia, onward   float64
		detour          float64
	)

	for via = 0; via < n; via++ {
		viaRow = via * n
		for from = 0; from < n; from++ {
			toVia = dist[from*n+via]
			if math.IsInf(toVia, 1) {
				continue // via is unreachable from here
			}
			fromRow = from * n
			for to = 0; to < n; to++ {
				if onward = dist[viaRow+to]; math.IsInf(onward, 1) {
					continue
				}
				if detour = toVia + onward; detour < dist[fromRow+to] {
					dist[fromRow+to] = detour
				}
			}
		}
	}
}

// FloydWarshall computes all-pairs shortest paths in-place on m.
//
// Contract:
//   - m must be square (n×n).
//   - +Inf denotes “no edge” off-diagonal; the diagonal MUST be 0.
//
// Complexity: Time O(n³), extra space O(1) on *Dense, O(n²) otherwise.
func FloydWarshall(m Matrix) error {
	if err := ValidateSquare(m); err != nil {
		return matrixErrorf(opFloydWarshall, err)
	}

	if d, ok := m.(*Dense); ok {
		closePaths(d)

		return nil
	}

	// Generic path: close a dense copy, then write back.
	data, err := flatten(m)
	if err != nil {
		return matrixErrorf(opFloydWarshall, err)
	}
	n := m.Rows()
	tmp := &Dense{r: n, c: n, data: data}
	closePaths(tmp)

	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if err = m.Set(i, j, data[i*n+j]); err != nil {
				return matrixErrorf(opFloydWarshall, err)
			}
		}
	}

	return nil
}
