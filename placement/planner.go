package placement

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/katalvlaran/topomap/config"
	"github.com/katalvlaran/topomap/matrix"
	"github.com/katalvlaran/topomap/qap"
	"github.com/katalvlaran/topomap/topology"
	"github.com/katalvlaran/topomap/treematch"
)

// Problem is one placement request.
type Problem struct {
	// Comm is the N×N communication volume matrix, rows = senders.
	Comm matrix.Matrix
	// Slots names the N placement targets; slot i is index i of every
	// permutation.
	Slots []string
	// Tree and Distances are optional. When nil they are derived from Slots
	// with the planner's extractor and weights. A supplied Tree must have
	// been built over Slots.
	Tree      *topology.Tree
	Distances matrix.Matrix
}

// Input is a validated Problem handed to a Handler.
type Input struct {
	Comm      matrix.Matrix
	Slots     []string
	Tree      *topology.Tree
	Distances matrix.Matrix
}

// Outcome is what a Handler returns: a process → slot permutation and
// whether it was accepted below the solver's full quality.
type Outcome struct {
	Perm     []int
	Degraded bool
	Reason   string
}

// Handler computes a placement for one solver kind.
type Handler func(in Input) (Outcome, error)

// Plan is the result of a planner run.
type Plan struct {
	// Kind is the solver that produced Perm.
	Kind Kind
	// Perm maps process → slot.
	Perm []int
	// Cost is matrix.TotalCost of Perm against the problem distances.
	Cost float64
	// Degraded marks a budget-limited result; Reason says why.
	Degraded bool
	Reason   string
	// FellBack is true when TreeMatch failed and QAP produced Perm.
	FellBack bool
	// Directive is Perm rendered with FormatDirective.
	Directive string
	Duration  time.Duration
}

// Evaluation rates an existing permutation.
type Evaluation struct {
	// Cost is matrix.TotalCost against the problem distances.
	Cost float64
	// OffNode is the volume exchanged between processes whose slots sit
	// under different parents in the topology tree (different servers).
	OffNode float64
}

// Planner validates problems, dispatches them to a solver and renders the
// directive. It holds no mutable state after New and is safe for concurrent use.
type Planner struct {
	cfg      config.Config
	kind     Kind
	ext      topology.Extractor
	weights  topology.Weights
	qapOpts  qap.Options
	tmOpts   treematch.Options
	handlers map[Kind]Handler

	logger  *zap.Logger
	scope   tally.Scope
	metrics *Metrics
}

// Option customizes a Planner.
type Option func(*Planner)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// WithScope roots the planner metrics at scope; the default is tally.NoopScope.
func WithScope(scope tally.Scope) Option {
	return func(p *Planner) { p.scope = scope }
}

// WithExtractor replaces the extractor derived from config.TopologyConfig.
func WithExtractor(ext topology.Extractor) Option {
	return func(p *Planner) { p.ext = ext }
}

// WithHandler registers h for kind, replacing the built-in solver if any.
// New kinds get their own metrics, tagged with kind.String().
func WithHandler(kind Kind, h Handler) Option {
	return func(p *Planner) { p.handlers[kind] = h }
}

// New builds a Planner from a validated configuration.
//
// Errors: the multierr list of cfg.Validate, ErrUnknownKind.
func New(cfg config.Config, opts ...Option) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("placement: %w", err)
	}
	kind, err := ParseKind(cfg.Solver)
	if err != nil {
		return nil, err
	}

	t := cfg.Topology
	p := &Planner{
		cfg:     cfg,
		kind:    kind,
		ext:     extractorFor(t),
		weights: topology.Weights{Up: slices.Clone(t.Weights), Peer: t.Peer},
		qapOpts: qap.Options{
			MaxIterations: cfg.QAP.MaxIterations,
			Eps:           cfg.QAP.Eps,
		},
		tmOpts: treematch.Options{
			MaxCandidates: cfg.TreeMatch.MaxCandidates,
			SearchBudget:  cfg.TreeMatch.SearchBudget,
			Workers:       cfg.TreeMatch.Workers,
		},
		logger: zap.NewNop(),
		scope:  tally.NoopScope,
	}
	if t.NoPeer {
		p.weights.Peer = math.Inf(1)
	}
	p.handlers = map[Kind]Handler{
		KindQAP:       p.solveQAP,
		KindTreeMatch: p.solveTreeMatch,
	}
	for _, o := range opts {
		o(p)
	}
	kinds := make([]Kind, 0, len(p.handlers))
	for k := range p.handlers {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	p.metrics = NewMetrics(p.scope, kinds...)

	return p, nil
}

func extractorFor(t config.TopologyConfig) topology.Extractor {
	if t.Separator != "" {
		return topology.SeparatorExtractor{Sep: t.Separator, Levels: t.Levels}
	}

	return topology.PrefixExtractor{Widths: slices.Clone(t.Widths)}
}

// Kind returns the configured solver kind.
func (p *Planner) Kind() Kind { return p.kind }

// Plan runs the configured solver.
func (p *Planner) Plan(prob Problem) (Plan, error) {
	return p.PlanWith(p.kind, prob)
}

// PlanWith runs solver kind on prob.
//
// Stages:
//  1. Validate comm (square, finite, ≥ 0) and len(Slots) == N.
//  2. Build the tree and the distance matrix unless supplied.
//  3. Run the handler, check its permutation and price it with TotalCost.
//  4. On ErrPlacement from TreeMatch with Fallback enabled, re-plan with QAP.
//  5. Render the directive under cfg.DirectiveKey.
//
// N = 0 yields an empty plan whose directive is "KEY=".
//
// Errors: ErrUnknownKind, ErrMalformedInput and ErrDimensionMismatch families,
// ErrTopology family, ErrPlacement, solver option errors.
func (p *Planner) PlanWith(kind Kind, prob Problem) (Plan, error) {
	h, ok := p.handlers[kind]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	in, err := p.prepare(prob)
	if err != nil {
		p.metrics.Solver(kind).Failures.Inc(1)
		return Plan{}, err
	}
	if in.Comm.Rows() == 0 {
		return Plan{Kind: kind, Perm: []int{}, Directive: p.cfg.DirectiveKey + "="}, nil
	}

	plan, err := p.run(kind, h, in)
	if err != nil && kind == KindTreeMatch && p.cfg.Fallback && errors.Is(err, ErrPlacement) {
		p.metrics.Fallbacks.Inc(1)
		p.logger.Warn("treematch failed, falling back to qap",
			zap.Int("n", in.Comm.Rows()),
			zap.Error(err),
		)
		reason := err.Error()
		if plan, err = p.run(KindQAP, p.handlers[KindQAP], in); err == nil {
			plan.FellBack = true
			plan.Degraded = true
			plan.Reason = joinReasons("fallback: "+reason, plan.Reason)
		}
	}
	if err != nil {
		return Plan{}, err
	}

	if plan.Directive, err = FormatDirective(p.cfg.DirectiveKey, plan.Perm); err != nil {
		return Plan{}, err
	}

	return plan, nil
}

// run executes one handler with timing, metrics and the per-run log line.
func (p *Planner) run(kind Kind, h Handler, in Input) (Plan, error) {
	var (
		m     = p.metrics.Solver(kind)
		n     = in.Comm.Rows()
		start = time.Now()
		sw    = m.Duration.Start()
	)
	out, err := h(in)
	sw.Stop()
	if err == nil {
		err = matrix.ValidatePermutation(out.Perm, n)
	}
	if err != nil {
		m.Failures.Inc(1)
		return Plan{}, fmt.Errorf("placement: %s: %w", kind, err)
	}

	cost, err := matrix.TotalCost(in.Comm, in.Distances, out.Perm)
	if err != nil {
		m.Failures.Inc(1)
		return Plan{}, fmt.Errorf("placement: %s: %w", kind, err)
	}

	elapsed := time.Since(start)
	m.Runs.Inc(1)
	m.Cost.Update(cost)
	if out.Degraded {
		m.Degraded.Inc(1)
	}
	p.logger.Info("placement computed",
		zap.Stringer("solver", kind),
		zap.Int("n", n),
		zap.Float64("cost", cost),
		zap.Bool("degraded", out.Degraded),
		zap.Duration("duration", elapsed),
	)

	return Plan{
		Kind:     kind,
		Perm:     out.Perm,
		Cost:     cost,
		Degraded: out.Degraded,
		Reason:   out.Reason,
		Duration: elapsed,
	}, nil
}

// prepare validates prob and fills in the tree and distances.
func (p *Planner) prepare(prob Problem) (Input, error) {
	if err := matrix.ValidateVolumes(prob.Comm); err != nil {
		return Input{}, fmt.Errorf("placement: comm: %w", err)
	}
	n := prob.Comm.Rows()
	if len(prob.Slots) != n {
		return Input{}, fmt.Errorf("placement: %d processes, %d slots: %w", n, len(prob.Slots), ErrDimensionMismatch)
	}
	in := Input{Comm: prob.Comm, Slots: prob.Slots, Tree: prob.Tree, Distances: prob.Distances}
	if n == 0 {
		return in, nil
	}

	var err error
	if in.Tree == nil {
		if in.Tree, err = topology.Build(prob.Slots, p.ext, p.weights); err != nil {
			return Input{}, fmt.Errorf("placement: %w", err)
		}
	} else if !slices.Equal(in.Tree.Slots(), prob.Slots) {
		return Input{}, fmt.Errorf("%w: tree built over a different slot list", ErrTopology)
	}

	if in.Distances == nil {
		if p.cfg.Topology.Distance == config.DistanceHops {
			in.Distances, err = topology.HopDistances(prob.Slots, p.ext, p.cfg.Topology.Hops)
		} else {
			in.Distances, err = in.Tree.Distances()
		}
		if err != nil {
			return Input{}, fmt.Errorf("placement: %w", err)
		}
	} else {
		if err = matrix.ValidateSameOrder(prob.Comm, in.Distances); err != nil {
			return Input{}, fmt.Errorf("placement: distances: %w", err)
		}
		if err = matrix.ValidateNonNegative(in.Distances); err != nil {
			return Input{}, fmt.Errorf("placement: distances: %w", err)
		}
	}

	return in, nil
}

// Evaluate prices perm on prob without solving anything.
//
// Errors: as for PlanWith stages 1–2, plus ErrInvalidPermutation.
func (p *Planner) Evaluate(prob Problem, perm []int) (Evaluation, error) {
	in, err := p.prepare(prob)
	if err != nil {
		return Evaluation{}, err
	}
	n := in.Comm.Rows()
	if err = matrix.ValidatePermutation(perm, n); err != nil {
		return Evaluation{}, fmt.Errorf("placement: %w", err)
	}
	if n == 0 {
		return Evaluation{}, nil
	}

	var ev Evaluation
	if ev.Cost, err = matrix.TotalCost(in.Comm, in.Distances, perm); err != nil {
		return Evaluation{}, err
	}

	parent := make([]int, n)
	var id, s int
	for id = 0; id < in.Tree.Len(); id++ {
		if s = in.Tree.SlotIndex(id); s >= 0 {
			parent[s] = in.Tree.Node(id).Parent
		}
	}
	var (
		i, j int
		v    float64
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if parent[perm[i]] == parent[perm[j]] {
				continue
			}
			if v, err = in.Comm.At(i, j); err != nil {
				return Evaluation{}, err
			}
			ev.OffNode += v
		}
	}

	return ev, nil
}

func (p *Planner) solveQAP(in Input) (Outcome, error) {
	res, err := qap.Solve(in.Comm, in.Distances, p.qapOpts)
	if err != nil {
		return Outcome{}, err
	}

	// The default budget of N² trials is the search itself; only a tighter
	// cap set by the caller can cut it short.
	out := Outcome{Perm: res.Perm}
	n, limit := in.Comm.Rows(), p.qapOpts.MaxIterations
	if !p.qapOpts.SkipSearch && limit > 0 && limit < n*n && !res.Converged {
		out.Degraded = true
		out.Reason = fmt.Sprintf("qap: stopped after %d swap trials, below the default budget of %d", res.Iterations, n*n)
	}

	return out, nil
}

func (p *Planner) solveTreeMatch(in Input) (Outcome, error) {
	res, err := treematch.Solve(in.Comm, in.Tree, in.Slots, p.tmOpts)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Perm: res.Perm, Degraded: res.Degraded}
	if res.Degraded {
		var reasons []string
		for _, l := range res.Levels {
			switch {
			case l.Degraded && l.Uneven:
				reasons = append(reasons, fmt.Sprintf("layer %d uneven, %s grouping by shape", l.Layer, l.Method))
			case l.Degraded:
				reasons = append(reasons, fmt.Sprintf("layer %d %s grouping after %d search nodes", l.Layer, l.Method, l.Explored))
			}
		}
		out.Reason = "treematch: " + strings.Join(reasons, "; ")
	}

	return out, nil
}

func joinReasons(a, b string) string {
	if b == "" {
		return a
	}

	return a + "; " + b
}
