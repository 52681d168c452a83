package placement_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/topomap/config"
	"github.com/katalvlaran/topomap/matrix"
	"github.com/katalvlaran/topomap/placement"
	"github.com/katalvlaran/topomap/topology"
	"github.com/katalvlaran/topomap/treematch"
)

// twoServers returns 4 slots on each of two servers in one cabinet. With the
// default weights slots on one server are 2 apart, across servers 10.
func twoServers() []string {
	return []string{
		"i01r01c01s01", "i01r01c01s01", "i01r01c01s01", "i01r01c01s01",
		"i01r01c01s02", "i01r01c01s02", "i01r01c01s02", "i01r01c01s02",
	}
}

// parity returns an 8×8 matrix where processes of equal parity exchange 5.
func parity(t *testing.T) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewSquare(8)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if i != j && i%2 == j%2 {
				require.NoError(t, m.Set(i, j, 5))
			}
		}
	}

	return m
}

func counter(scope tally.TestScope, name, solver string) int64 {
	for _, c := range scope.Snapshot().Counters() {
		if c.Name() == name && c.Tags()["solver"] == solver {
			return c.Value()
		}
	}

	return 0
}

type PlannerSuite struct {
	suite.Suite

	scope tally.TestScope
	logs  *observer.ObservedLogs
	opts  []placement.Option
}

func (s *PlannerSuite) SetupTest() {
	core, logs := observer.New(zapcore.InfoLevel)
	s.logs = logs
	s.scope = tally.NewTestScope("", nil)
	s.opts = []placement.Option{
		placement.WithLogger(zap.New(core)),
		placement.WithScope(s.scope),
	}
}

func (s *PlannerSuite) planner(cfg config.Config, extra ...placement.Option) *placement.Planner {
	p, err := placement.New(cfg, append(s.opts, extra...)...)
	s.Require().NoError(err)

	return p
}

func (s *PlannerSuite) TestTreeMatchSeparatesClusters() {
	p := s.planner(config.Default())
	s.Equal(placement.KindTreeMatch, p.Kind())

	prob := placement.Problem{Comm: parity(s.T()), Slots: twoServers()}
	plan, err := p.Plan(prob)
	s.Require().NoError(err)

	s.Equal(placement.KindTreeMatch, plan.Kind)
	s.False(plan.Degraded)
	s.False(plan.FellBack)
	s.InDelta(240.0, plan.Cost, 1e-9)
	for i := range plan.Perm {
		for j := range plan.Perm {
			if i%2 == j%2 {
				s.Equal(plan.Perm[i]/4, plan.Perm[j]/4, "processes %d and %d split", i, j)
			}
		}
	}

	key, perm, err := placement.ParseDirective(plan.Directive)
	s.Require().NoError(err)
	s.Equal(config.DefaultDirectiveKey, key)
	s.Equal(plan.Perm, perm)

	ev, err := p.Evaluate(prob, plan.Perm)
	s.Require().NoError(err)
	s.InDelta(plan.Cost, ev.Cost, 1e-9)
	s.Zero(ev.OffNode)

	s.EqualValues(1, counter(s.scope, "placement.runs", "treematch"))
	s.EqualValues(0, counter(s.scope, "placement.failures", "treematch"))
	entries := s.logs.FilterMessage("placement computed").All()
	s.Require().Len(entries, 1)
	s.Equal("treematch", entries[0].ContextMap()["solver"])
	s.EqualValues(8, entries[0].ContextMap()["n"])
}

func (s *PlannerSuite) TestTreeMatchUnevenServers() {
	p := s.planner(config.Default())
	slots := []string{
		"i01r01c01s02", "i01r01c01s02",
		"i01r01c01s01", "i01r01c01s01", "i01r01c01s01", "i01r01c01s01",
		"i01r01c01s03", "i01r01c01s03",
	}
	comm, err := matrix.NewSquare(8)
	s.Require().NoError(err)
	for _, cl := range [][]int{{0, 1, 2, 3}, {4, 5}, {6, 7}} {
		for _, i := range cl {
			for _, j := range cl {
				if i != j {
					s.Require().NoError(comm.Set(i, j, 10))
				}
			}
		}
	}
	prob := placement.Problem{Comm: comm, Slots: slots}

	plan, err := p.Plan(prob)
	s.Require().NoError(err)
	s.True(plan.Degraded)
	s.Contains(plan.Reason, "uneven")

	ev, err := p.Evaluate(prob, plan.Perm)
	s.Require().NoError(err)
	s.Zero(ev.OffNode)
	s.InDelta(plan.Cost, ev.Cost, 1e-9)
}

func (s *PlannerSuite) TestEvaluateIdentity() {
	p := s.planner(config.Default())
	prob := placement.Problem{Comm: parity(s.T()), Slots: twoServers()}

	ev, err := p.Evaluate(prob, matrix.Identity(8))
	s.Require().NoError(err)
	// 8 same-server entries at distance 2, 16 cross-server entries at 10.
	s.InDelta(8*5*2+16*5*10, ev.Cost, 1e-9)
	s.InDelta(16*5, ev.OffNode, 1e-9)

	_, err = p.Evaluate(prob, []int{0, 1})
	s.ErrorIs(err, placement.ErrDimensionMismatch)
}

func (s *PlannerSuite) TestQAPBudgetIsDegraded() {
	cfg := config.Default()
	cfg.Solver = config.SolverQAP
	cfg.QAP.MaxIterations = 1
	p := s.planner(cfg)

	plan, err := p.Plan(placement.Problem{Comm: parity(s.T()), Slots: twoServers()})
	s.Require().NoError(err)
	s.Equal(placement.KindQAP, plan.Kind)
	s.True(plan.Degraded)
	s.Contains(plan.Reason, "qap")
	s.EqualValues(1, counter(s.scope, "placement.degraded", "qap"))
}

func (s *PlannerSuite) TestQAPDefaultBudgetIsNotDegraded() {
	cfg := config.Default()
	cfg.Solver = config.SolverQAP
	p := s.planner(cfg)

	plan, err := p.Plan(placement.Problem{Comm: parity(s.T()), Slots: twoServers()})
	s.Require().NoError(err)
	s.False(plan.Degraded)
	s.Empty(plan.Reason)
	s.EqualValues(1, counter(s.scope, "placement.runs", "qap"))
	s.EqualValues(0, counter(s.scope, "placement.degraded", "qap"))
}

func (s *PlannerSuite) TestCustomKindHasMetrics() {
	custom := placement.Kind(7)
	identity := placement.WithHandler(custom, func(in placement.Input) (placement.Outcome, error) {
		return placement.Outcome{Perm: matrix.Identity(in.Comm.Rows())}, nil
	})
	p := s.planner(config.Default(), identity)
	prob := placement.Problem{Comm: parity(s.T()), Slots: twoServers()}

	plan, err := p.PlanWith(custom, prob)
	s.Require().NoError(err)
	s.Equal(custom, plan.Kind)
	s.Equal(matrix.Identity(8), plan.Perm)
	s.EqualValues(1, counter(s.scope, "placement.runs", "Kind(7)"))

	_, err = p.PlanWith(custom, placement.Problem{Comm: parity(s.T()), Slots: twoServers()[:3]})
	s.ErrorIs(err, placement.ErrDimensionMismatch)
	s.EqualValues(1, counter(s.scope, "placement.failures", "Kind(7)"))

	_, err = p.PlanWith(placement.Kind(8), prob)
	s.ErrorIs(err, placement.ErrUnknownKind)
}

func (s *PlannerSuite) TestHopDistances() {
	cfg := config.Default()
	cfg.Solver = config.SolverQAP
	cfg.Topology.Distance = config.DistanceHops
	p := s.planner(cfg)

	slots := twoServers()
	comm := parity(s.T())
	plan, err := p.Plan(placement.Problem{Comm: comm, Slots: slots})
	s.Require().NoError(err)

	hops, err := topology.HopDistances(slots, topology.SuperMUCNG(), cfg.Topology.Hops)
	s.Require().NoError(err)
	want, err := matrix.TotalCost(comm, hops, plan.Perm)
	s.Require().NoError(err)
	s.InDelta(want, plan.Cost, 1e-9)
}

func (s *PlannerSuite) TestFallbackToQAP() {
	failing := placement.WithHandler(placement.KindTreeMatch, func(placement.Input) (placement.Outcome, error) {
		return placement.Outcome{}, fmt.Errorf("layer 0: %w", treematch.ErrPlacement)
	})
	p := s.planner(config.Default(), failing)

	plan, err := p.Plan(placement.Problem{Comm: parity(s.T()), Slots: twoServers()})
	s.Require().NoError(err)
	s.True(plan.FellBack)
	s.True(plan.Degraded)
	s.Equal(placement.KindQAP, plan.Kind)
	s.Contains(plan.Reason, "fallback")
	s.Require().NoError(matrix.ValidatePermutation(plan.Perm, 8))

	s.EqualValues(1, counter(s.scope, "placement.fallbacks", ""))
	s.EqualValues(1, counter(s.scope, "placement.failures", "treematch"))
	s.EqualValues(1, counter(s.scope, "placement.runs", "qap"))
	s.Equal(1, s.logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func (s *PlannerSuite) TestNoFallback() {
	cfg := config.Default()
	cfg.Fallback = false
	failing := placement.WithHandler(placement.KindTreeMatch, func(placement.Input) (placement.Outcome, error) {
		return placement.Outcome{}, treematch.ErrPlacement
	})
	p := s.planner(cfg, failing)

	_, err := p.Plan(placement.Problem{Comm: parity(s.T()), Slots: twoServers()})
	s.ErrorIs(err, placement.ErrPlacement)
	s.EqualValues(0, counter(s.scope, "placement.fallbacks", ""))
}

func (s *PlannerSuite) TestHandlerReturningBadPermutation() {
	broken := placement.WithHandler(placement.KindQAP, func(in placement.Input) (placement.Outcome, error) {
		return placement.Outcome{Perm: make([]int, in.Comm.Rows())}, nil
	})
	p := s.planner(config.Default(), broken)

	_, err := p.PlanWith(placement.KindQAP, placement.Problem{Comm: parity(s.T()), Slots: twoServers()})
	s.ErrorIs(err, matrix.ErrInvalidPermutation)
}

func (s *PlannerSuite) TestEmptyProblem() {
	p := s.planner(config.Default())
	empty, err := matrix.NewSquare(0)
	s.Require().NoError(err)

	plan, err := p.Plan(placement.Problem{Comm: empty})
	s.Require().NoError(err)
	s.Empty(plan.Perm)
	s.Equal("REORDERING=", plan.Directive)
}

func (s *PlannerSuite) TestSuppliedTreeAndDistances() {
	p := s.planner(config.Default())
	slots := twoServers()
	tree, dist, err := topology.Model(slots, topology.SuperMUCNG(), topology.DefaultWeights())
	s.Require().NoError(err)

	plan, err := p.PlanWith(placement.KindQAP, placement.Problem{
		Comm: parity(s.T()), Slots: slots, Tree: tree, Distances: dist,
	})
	s.Require().NoError(err)
	s.Equal(placement.KindQAP, plan.Kind)

	other := append([]string(nil), slots...)
	other[0], other[7] = other[7], other[0]
	_, err = p.Plan(placement.Problem{Comm: parity(s.T()), Slots: other, Tree: tree})
	s.ErrorIs(err, placement.ErrTopology)
}

func (s *PlannerSuite) TestInvalidProblems() {
	p := s.planner(config.Default())
	neg := mustRows(s.T(), [][]float64{{0, -1}, {1, 0}})
	ok := mustRows(s.T(), [][]float64{{0, 1}, {1, 0}})

	cases := []struct {
		name string
		prob placement.Problem
		want error
	}{
		{"nil comm", placement.Problem{}, placement.ErrMalformedInput},
		{"negative", placement.Problem{Comm: neg, Slots: []string{"i01r01c01s01", "i01r01c01s01"}}, placement.ErrMalformedInput},
		{"slot count", placement.Problem{Comm: ok, Slots: []string{"i01r01c01s01"}}, placement.ErrDimensionMismatch},
		{"short name", placement.Problem{Comm: ok, Slots: []string{"i01", "i01"}}, topology.ErrUnresolvedSlot},
		{"distance order", placement.Problem{Comm: ok, Slots: []string{"i01r01c01s01", "i01r01c01s01"}, Distances: parity(s.T())}, placement.ErrDimensionMismatch},
	}
	for _, tc := range cases {
		_, err := p.Plan(tc.prob)
		s.ErrorIs(err, tc.want, tc.name)
	}

	_, err := p.PlanWith(placement.Kind(9), placement.Problem{Comm: ok, Slots: []string{"a", "b"}})
	s.ErrorIs(err, placement.ErrUnknownKind)
}

func TestPlannerSuite(t *testing.T) {
	suite.Run(t, new(PlannerSuite))
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Solver = "annealing"
	cfg.TreeMatch.SearchBudget = 0
	_, err := placement.New(cfg)
	require.ErrorContains(t, err, "solver")
	require.ErrorContains(t, err, "search_budget")
}

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}
