package placement

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/topomap/config"
)

// Kind selects a placement solver.
type Kind int

const (
	// KindQAP is the greedy + pairwise-swap QAP heuristic.
	KindQAP Kind = iota
	// KindTreeMatch is the bottom-up grouping along the topology tree.
	KindTreeMatch
)

// Kinds lists every solver kind in registration order.
var Kinds = []Kind{KindQAP, KindTreeMatch}

// String implements fmt.Stringer; the names match config.Solver values.
func (k Kind) String() string {
	switch k {
	case KindQAP:
		return config.SolverQAP
	case KindTreeMatch:
		return config.SolverTreeMatch
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a solver name (case-insensitive) to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
