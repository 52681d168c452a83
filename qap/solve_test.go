package qap_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/topomap/matrix"
	"github.com/katalvlaran/topomap/qap"
	"github.com/katalvlaran/topomap/topology"
)

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

func randomVolumes(t *testing.T, n, maxV int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m, err := matrix.NewSquare(n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				require.NoError(t, m.Set(i, j, float64(rng.Intn(maxV))))
			}
		}
	}

	return m
}

func TestSolve_HeaviestProcessTakesMostCentralSlot(t *testing.T) {
	t.Parallel()

	comm := mustRows(t, [][]float64{
		{0, 0, 0, 2},
		{2, 0, 0, 0},
		{2, 0, 0, 0},
		{2, 0, 0, 0},
	})
	dist := mustRows(t, [][]float64{
		{0, 9, 9, 0},
		{9, 0, 0, 0},
		{9, 0, 0, 0},
		{0, 0, 0, 0},
	})

	res, err := qap.Solve(comm, dist, qap.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 3, res.Perm[0], "process 0 (load 8) on slot 3 (centrality 0)")
	require.Equal(t, []int{3, 1, 2, 0}, res.Perm)
	require.Zero(t, res.Cost)
}

func TestSolve_ZeroTraffic(t *testing.T) {
	t.Parallel()

	comm, err := matrix.NewSquare(6)
	require.NoError(t, err)
	dist := randomVolumes(t, 6, 10, 3)

	res, err := qap.Solve(comm, dist, qap.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, matrix.ValidatePermutation(res.Perm, 6))
	require.Zero(t, res.Cost)
	require.Zero(t, res.Improvements)
}

func TestSolve_TrivialSizes(t *testing.T) {
	t.Parallel()

	empty, _ := matrix.NewSquare(0)
	res, err := qap.Solve(empty, empty, qap.DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, res.Perm)

	one := mustRows(t, [][]float64{{0}})
	res, err = qap.Solve(one, one, qap.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, []int{0}, res.Perm)
	require.Zero(t, res.Iterations)
	require.True(t, res.Converged)
}

// 16 servers × 4 slots; cluster c = {c, c+16, c+32, c+48} is scattered
// across the process numbering.
func TestSolve_ReproducesClusters(t *testing.T) {
	t.Parallel()

	const (
		servers = 16
		per     = 4
		n       = servers * per
	)
	slots := make([]string, 0, n)
	for s := 1; s <= servers; s++ {
		for k := 0; k < per; k++ {
			slots = append(slots, fmt.Sprintf("i01r01c01s%02d", s))
		}
	}
	_, dist, err := topology.Model(slots, topology.SuperMUCNG(), topology.DefaultWeights())
	require.NoError(t, err)

	comm, err := matrix.NewSquare(n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && i%servers == j%servers {
				require.NoError(t, comm.Set(i, j, 7))
			}
		}
	}

	res, err := qap.Solve(comm, dist, qap.DefaultOptions())
	require.NoError(t, err)

	// every server hosts exactly one cluster
	byServer := make(map[int]map[int]bool)
	for p, s := range res.Perm {
		if byServer[s/per] == nil {
			byServer[s/per] = make(map[int]bool)
		}
		byServer[s/per][p%servers] = true
	}
	require.Len(t, byServer, servers)
	for srv, clusters := range byServer {
		require.Len(t, clusters, 1, "server %d mixes clusters", srv)
	}

	reordered, err := matrix.Reorder(comm, res.Perm)
	require.NoError(t, err)
	off, err := matrix.OffNodeVolume(reordered, per)
	require.NoError(t, err)
	require.Zero(t, off)
}

func TestSolve_Properties(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 12; seed++ {
		n := 3 + int(seed)
		comm := randomVolumes(t, n, 20, seed)
		dist := randomVolumes(t, n, 9, seed*31)

		res, err := qap.Solve(comm, dist, qap.DefaultOptions())
		require.NoError(t, err)
		require.NoError(t, matrix.ValidatePermutation(res.Perm, n))
		require.LessOrEqual(t, res.Cost, res.ConstructionCost, "seed %d", seed)
		require.LessOrEqual(t, res.Iterations, n*n)

		want, err := matrix.TotalCost(comm, dist, res.Perm)
		require.NoError(t, err)
		require.InDelta(t, want, res.Cost, 1e-6)
	}
}

func TestSolve_SkipSearchMatchesConstruct(t *testing.T) {
	t.Parallel()

	comm := randomVolumes(t, 9, 20, 5)
	dist := randomVolumes(t, 9, 9, 6)

	perm, err := qap.Construct(comm, dist)
	require.NoError(t, err)

	opts := qap.DefaultOptions()
	opts.SkipSearch = true
	res, err := qap.Solve(comm, dist, opts)
	require.NoError(t, err)
	require.Equal(t, perm, res.Perm)
	require.Zero(t, res.Iterations)
	require.False(t, res.Converged)
	require.Equal(t, res.ConstructionCost, res.Cost)
}

func TestLocalSearch_FixesSplitPairs(t *testing.T) {
	t.Parallel()

	comm := mustRows(t, [][]float64{
		{0, 5, 0, 1},
		{5, 0, 1, 0},
		{0, 1, 0, 5},
		{1, 0, 5, 0},
	})
	dist := mustRows(t, [][]float64{
		{0, 1, 10, 10},
		{1, 0, 10, 10},
		{10, 10, 0, 1},
		{10, 10, 1, 0},
	})
	start := []int{0, 2, 1, 3}

	res, err := qap.LocalSearch(comm, dist, start, qap.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 240.0, res.ConstructionCost)
	require.Equal(t, 60.0, res.Cost)
	require.Positive(t, res.Improvements)
	require.True(t, res.Converged)
	require.Equal(t, []int{0, 2, 1, 3}, start, "start must not be mutated")

	opts := qap.DefaultOptions()
	opts.MaxIterations = 1
	res, err = qap.LocalSearch(comm, dist, start, opts)
	require.NoError(t, err)
	require.Equal(t, 1, res.Iterations)
	require.Equal(t, 1, res.Improvements, "first trial (0,1) is kept")
	require.Equal(t, 204.0, res.Cost)
	require.False(t, res.Converged)
}

func TestSolve_Errors(t *testing.T) {
	t.Parallel()

	a := randomVolumes(t, 3, 5, 1)
	b := randomVolumes(t, 4, 5, 2)
	neg := mustRows(t, [][]float64{{0, -1}, {1, 0}})
	ns, _ := matrix.NewDense(2, 3)

	_, err := qap.Solve(a, b, qap.DefaultOptions())
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = qap.Solve(neg, neg, qap.DefaultOptions())
	require.ErrorIs(t, err, matrix.ErrNegativeValue)
	_, err = qap.Solve(ns, ns, qap.DefaultOptions())
	require.ErrorIs(t, err, matrix.ErrNonSquare)
	_, err = qap.Solve(nil, a, qap.DefaultOptions())
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = qap.Solve(a, a, qap.Options{MaxIterations: -1})
	require.ErrorIs(t, err, qap.ErrBadOptions)
	_, err = qap.LocalSearch(a, a, []int{0, 0, 1}, qap.DefaultOptions())
	require.ErrorIs(t, err, matrix.ErrInvalidPermutation)
}
