package placement

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/topomap/matrix"
	"github.com/katalvlaran/topomap/topology"
	"github.com/katalvlaran/topomap/treematch"
)

// Error kinds surfaced by the planner. The first four are the solver
// packages' family sentinels, re-exported so callers can match any failure
// with errors.Is without importing every solver package.
var (
	ErrMalformedInput    = matrix.ErrMalformedInput
	ErrDimensionMismatch = matrix.ErrDimensionMismatch
	ErrTopology          = topology.ErrTopology
	ErrPlacement         = treematch.ErrPlacement

	// ErrUnknownKind is returned for a solver name or Kind without a handler.
	ErrUnknownKind = errors.New("placement: unknown solver kind")

	// ErrBadDirective signals a directive string that cannot be parsed.
	ErrBadDirective = fmt.Errorf("%w: placement: malformed directive", matrix.ErrMalformedInput)
)
