package placement

import (
	"github.com/uber-go/tally/v4"
	"golang.org/x/exp/slices"
)

// Metrics contains the planner metrics, one set per solver kind.
type Metrics struct {
	// Fallbacks counts TreeMatch failures that were re-planned with QAP.
	Fallbacks tally.Counter

	solvers map[Kind]*SolverMetrics
}

// SolverMetrics are the metrics of one solver kind, tagged solver=<kind>.
type SolverMetrics struct {
	// Runs counts successful plans; Failures counts plans that returned an error.
	Runs     tally.Counter
	Failures tally.Counter
	// Degraded counts plans accepted below the solver's full quality.
	Degraded tally.Counter
	// Cost is the total cost of the latest plan.
	Cost tally.Gauge
	// Duration times each solver run.
	Duration tally.Timer
}

// NewMetrics returns a new Metrics struct with all metrics initialized and
// rooted below the given tally scope. Metrics are built for the built-in
// Kinds plus every kind in extra.
func NewMetrics(scope tally.Scope, extra ...Kind) *Metrics {
	planScope := scope.SubScope("placement")

	m := &Metrics{
		Fallbacks: planScope.Counter("fallbacks"),
		solvers:   make(map[Kind]*SolverMetrics, len(Kinds)+len(extra)),
	}
	for _, k := range append(slices.Clone(Kinds), extra...) {
		if _, ok := m.solvers[k]; ok {
			continue
		}
		s := planScope.Tagged(map[string]string{"solver": k.String()})
		m.solvers[k] = &SolverMetrics{
			Runs:     s.Counter("runs"),
			Failures: s.Counter("failures"),
			Degraded: s.Counter("degraded"),
			Cost:     s.Gauge("cost"),
			Duration: s.Timer("duration"),
		}
	}

	return m
}

// Solver returns the metrics of kind k, nil for a kind NewMetrics was not
// given.
func (m *Metrics) Solver(k Kind) *SolverMetrics {
	return m.solvers[k]
}
