// Package config holds the typed configuration of the placement planner.
//
// Values come from, in increasing priority: Default(), a YAML config file,
// TOPOMAP_* environment variables and command-line flags bound by the caller.
// Load merges them through viper and validates the result.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Solver names accepted in Config.Solver.
const (
	SolverQAP       = "qap"
	SolverTreeMatch = "treematch"
)

// Distance sources for the QAP solver.
const (
	DistanceTree = "tree"
	DistanceHops = "hops"
)

// DefaultDirectiveKey is the environment key the directive is emitted under.
const DefaultDirectiveKey = "REORDERING"

// EnvPrefix prefixes every environment override, e.g. TOPOMAP_QAP_MAX_ITERATIONS.
const EnvPrefix = "TOPOMAP"

// Config is the complete planner configuration.
type Config struct {
	// Solver is SolverQAP or SolverTreeMatch.
	Solver string `yaml:"solver" mapstructure:"solver"`
	// DirectiveKey is the KEY of the KEY=0.s0,1.s1,... output.
	DirectiveKey string `yaml:"directive_key" mapstructure:"directive_key"`
	// Fallback re-runs a failed TreeMatch placement with QAP.
	Fallback bool `yaml:"fallback" mapstructure:"fallback"`

	Topology  TopologyConfig  `yaml:"topology" mapstructure:"topology"`
	QAP       QAPConfig       `yaml:"qap" mapstructure:"qap"`
	TreeMatch TreeMatchConfig `yaml:"treematch" mapstructure:"treematch"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// TopologyConfig describes how slot names map onto the hardware tree.
type TopologyConfig struct {
	// Widths are prefix lengths per scope layer; ignored when Separator is set.
	Widths []int `yaml:"widths" mapstructure:"widths"`
	// Separator splits names into Levels scope components instead of prefixes.
	Separator string `yaml:"separator" mapstructure:"separator"`
	Levels    int    `yaml:"levels" mapstructure:"levels"`
	// Weights are per-layer up-edge costs, one more than the scope layers.
	Weights []float64 `yaml:"weights" mapstructure:"weights"`
	// Peer is the cost between top-layer scopes; NoPeer removes those links.
	Peer   float64 `yaml:"peer" mapstructure:"peer"`
	NoPeer bool    `yaml:"no_peer" mapstructure:"no_peer"`
	// Distance selects DistanceTree (closure of the weighted tree) or
	// DistanceHops (first differing layer) for QAP.
	Distance string    `yaml:"distance" mapstructure:"distance"`
	Hops     []float64 `yaml:"hops" mapstructure:"hops"`
}

// QAPConfig mirrors qap.Options.
type QAPConfig struct {
	MaxIterations int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	Eps           float64 `yaml:"eps" mapstructure:"eps"`
}

// TreeMatchConfig mirrors treematch.Options.
type TreeMatchConfig struct {
	MaxCandidates int `yaml:"max_candidates" mapstructure:"max_candidates"`
	SearchBudget  int `yaml:"search_budget" mapstructure:"search_budget"`
	Workers       int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`
	// Development switches to the console encoder with caller and stack traces.
	Development bool `yaml:"development" mapstructure:"development"`
}

// Default returns the SuperMUC-NG configuration.
func Default() Config {
	return Config{
		Solver:       SolverTreeMatch,
		DirectiveKey: DefaultDirectiveKey,
		Fallback:     true,
		Topology: TopologyConfig{
			Widths:   []int{3, 6, 9, 12},
			Weights:  []float64{0, 0, 0, 4, 1},
			Peer:     15,
			Distance: DistanceTree,
			Hops:     []float64{40, 10, 10, 10, 2},
		},
		QAP: QAPConfig{
			MaxIterations: 0,
			Eps:           1e-9,
		},
		TreeMatch: TreeMatchConfig{
			MaxCandidates: 1 << 20,
			SearchBudget:  1 << 18,
			Workers:       0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ScopeLayers returns the number of scope layers the topology settings describe.
func (t TopologyConfig) ScopeLayers() int {
	if t.Separator != "" {
		return t.Levels
	}

	return len(t.Widths)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var err error

	switch c.Solver {
	case SolverQAP, SolverTreeMatch:
	default:
		err = multierr.Append(err, fmt.Errorf("solver %q: want %q or %q", c.Solver, SolverQAP, SolverTreeMatch))
	}
	if c.DirectiveKey == "" || strings.ContainsAny(c.DirectiveKey, "=,. \t\n") {
		err = multierr.Append(err, fmt.Errorf("directive_key %q: must be non-empty without '=', ',', '.' or spaces", c.DirectiveKey))
	}

	t := c.Topology
	layers := t.ScopeLayers()
	if layers <= 0 {
		err = multierr.Append(err, fmt.Errorf("topology: no scope layers (widths or separator+levels)"))
	}
	if len(t.Weights) != layers+1 {
		err = multierr.Append(err, fmt.Errorf("topology.weights: %d values for %d scope layers, want %d", len(t.Weights), layers, layers+1))
	}
	err = multierr.Append(err, nonNegative("topology.weights", t.Weights))
	if math.IsNaN(t.Peer) || t.Peer < 0 {
		err = multierr.Append(err, fmt.Errorf("topology.peer: %v must be >= 0", t.Peer))
	}
	switch t.Distance {
	case DistanceTree:
	case DistanceHops:
		if len(t.Hops) != layers+1 {
			err = multierr.Append(err, fmt.Errorf("topology.hops: %d values for %d scope layers, want %d", len(t.Hops), layers, layers+1))
		}
		err = multierr.Append(err, nonNegative("topology.hops", t.Hops))
	default:
		err = multierr.Append(err, fmt.Errorf("topology.distance %q: want %q or %q", t.Distance, DistanceTree, DistanceHops))
	}

	if c.QAP.MaxIterations < 0 {
		err = multierr.Append(err, fmt.Errorf("qap.max_iterations: %d must be >= 0", c.QAP.MaxIterations))
	}
	if c.QAP.Eps < 0 || math.IsNaN(c.QAP.Eps) || math.IsInf(c.QAP.Eps, 0) {
		err = multierr.Append(err, fmt.Errorf("qap.eps: %v must be finite and >= 0", c.QAP.Eps))
	}
	if c.TreeMatch.MaxCandidates < 1 {
		err = multierr.Append(err, fmt.Errorf("treematch.max_candidates: %d must be >= 1", c.TreeMatch.MaxCandidates))
	}
	if c.TreeMatch.SearchBudget < 1 {
		err = multierr.Append(err, fmt.Errorf("treematch.search_budget: %d must be >= 1", c.TreeMatch.SearchBudget))
	}
	if c.TreeMatch.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("treematch.workers: %d must be >= 0", c.TreeMatch.Workers))
	}

	return err
}

func nonNegative(field string, xs []float64) error {
	var err error
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			err = multierr.Append(err, fmt.Errorf("%s[%d]: %v must be finite and >= 0", field, i, x))
		}
	}

	return err
}

// Load reads configuration through v: defaults, then the file at path (if
// non-empty), then TOPOMAP_* environment variables and whatever flags the
// caller bound to v. Nested keys use '_' in the environment:
// TOPOMAP_TREEMATCH_SEARCH_BUDGET overrides treematch.search_budget.
func Load(v *viper.Viper, path string) (Config, error) {
	cfg := Default()
	setDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key, which also makes AutomaticEnv see it
// during Unmarshal.
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("solver", c.Solver)
	v.SetDefault("directive_key", c.DirectiveKey)
	v.SetDefault("fallback", c.Fallback)

	v.SetDefault("topology.widths", c.Topology.Widths)
	v.SetDefault("topology.separator", c.Topology.Separator)
	v.SetDefault("topology.levels", c.Topology.Levels)
	v.SetDefault("topology.weights", c.Topology.Weights)
	v.SetDefault("topology.peer", c.Topology.Peer)
	v.SetDefault("topology.no_peer", c.Topology.NoPeer)
	v.SetDefault("topology.distance", c.Topology.Distance)
	v.SetDefault("topology.hops", c.Topology.Hops)

	v.SetDefault("qap.max_iterations", c.QAP.MaxIterations)
	v.SetDefault("qap.eps", c.QAP.Eps)

	v.SetDefault("treematch.max_candidates", c.TreeMatch.MaxCandidates)
	v.SetDefault("treematch.search_budget", c.TreeMatch.SearchBudget)
	v.SetDefault("treematch.workers", c.TreeMatch.Workers)

	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.development", c.Log.Development)
}
