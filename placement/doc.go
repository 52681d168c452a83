// Package placement turns a communication matrix and a slot list into a
// placement directive.
//
// A Planner validates the problem, derives the topology tree and distance
// matrix from slot names, dispatches to one of the solvers (Kind) and prices
// the resulting permutation:
//
//	p, _ := placement.New(config.Default(), placement.WithLogger(logger))
//	plan, err := p.Plan(placement.Problem{Comm: comm, Slots: slots})
//	// plan.Directive == "REORDERING=0.5,1.4,..."
//
// Permutations map process → slot everywhere. A TreeMatch run that fails with
// ErrPlacement is re-planned with QAP when config.Fallback is set; budget
// limited results are returned with Plan.Degraded and a reason, never as
// errors.
//
// The directive codec (FormatDirective, ParseDirective) has no dependency on
// the planner and can be used on its own.
package placement
