package treematch

import (
	"golang.org/x/exp/slices"

	"github.com/katalvlaran/topomap/matrix"
)

// greedyGroups forms groups agglomeratively: the lowest ungrouped entry seeds
// a group, which then repeatedly absorbs the ungrouped entry with the most
// traffic (both directions) towards its current members. Ties go to the
// lowest index.
//
// Complexity: O(m²·k).
func greedyGroups(w []float64, m, k int) [][]int {
	var (
		taken  = make([]bool, m)
		groups = make([][]int, 0, m/k)
		seed   int
		x, g   int
		bestX  int
		bestV  float64
		v      float64
	)
	for seed = 0; seed < m; seed++ {
		if taken[seed] {
			continue
		}
		grp := make([]int, 1, k)
		grp[0], taken[seed] = seed, true
		for len(grp) < k {
			bestX = -1
			for x = 0; x < m; x++ {
				if taken[x] {
					continue
				}
				v = 0
				for _, g = range grp {
					v += w[g*m+x] + w[x*m+g]
				}
				if bestX < 0 || v > bestV {
					bestX, bestV = x, v
				}
			}
			grp = append(grp, bestX)
			taken[bestX] = true
		}
		slices.Sort(grp)
		groups = append(groups, grp)
	}

	return groups
}

// groupingWeight returns Σ −GroupVolume over groups.
func groupingWeight(w matrix.Matrix, groups [][]int) (float64, error) {
	var sum float64
	for _, grp := range groups {
		v, err := matrix.GroupVolume(w, grp)
		if err != nil {
			return 0, err
		}
		sum -= v
	}

	return sum, nil
}

// shapedGroups fills every parent p with len(need[p]) entries whose shapes
// match need[p], for layers whose parents differ in child count or whose
// entries differ in shape. Parents are served largest first (ties in layer
// order). Each parent is seeded with the matching free entry that has the
// most traffic towards all free entries and then absorbs the matching free
// entry with the most traffic towards its members. Ties go to the lowest
// index.
//
// groups[p][i] has shape need[p][i]. The shape counts of need sum to those of
// shape, so every parent can always be filled.
//
// Complexity: O(P·m²) for P parents.
func shapedGroups(w []float64, m int, shape []int, need [][]int) [][]int {
	var (
		taken  = make([]bool, m)
		groups = make([][]int, len(need))
		order  = make([]int, len(need))
		want   = make(map[int]int)
		p, x   int
		g      int
		bestX  int
		bestV  float64
		v      float64
	)
	for p = range order {
		order[p] = p
	}
	slices.SortStableFunc(order, func(a, b int) int { return len(need[b]) - len(need[a]) })

	for _, p = range order {
		clear(want)
		for _, s := range need[p] {
			want[s]++
		}
		grp := make([]int, 0, len(need[p]))
		for len(grp) < len(need[p]) {
			bestX = -1
			for x = 0; x < m; x++ {
				if taken[x] || want[shape[x]] == 0 {
					continue
				}
				v = 0
				if len(grp) == 0 {
					for g = 0; g < m; g++ {
						if !taken[g] && g != x {
							v += w[g*m+x] + w[x*m+g]
						}
					}
				} else {
					for _, g = range grp {
						v += w[g*m+x] + w[x*m+g]
					}
				}
				if bestX < 0 || v > bestV {
					bestX, bestV = x, v
				}
			}
			grp = append(grp, bestX)
			taken[bestX] = true
			want[shape[bestX]]--
		}
		groups[p] = alignShapes(grp, shape, need[p])
	}

	return groups
}

// alignShapes orders grp so that its i-th entry has shape want[i]; entries of
// equal shape keep ascending order.
func alignShapes(grp, shape, want []int) []int {
	slices.Sort(grp)
	used := make([]bool, len(grp))
	out := make([]int, len(want))
	for i, s := range want {
		for j, x := range grp {
			if !used[j] && shape[x] == s {
				out[i], used[j] = x, true
				break
			}
		}
	}

	return out
}
