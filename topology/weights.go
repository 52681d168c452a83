package topology

import (
	"fmt"
	"math"
)

// Weights are the per-layer interconnect cost tiers.
//
// Up[l] is the cost of the edge from a layer-l node to its parent, for
// l = 1..Depth (Up[Depth] is the slot→server hop). Up[0] belongs to the top
// layer, which has no parent, and is ignored. Peer is the cost of the direct
// link between two top-layer nodes; +Inf means there is none.
type Weights struct {
	Up   []float64
	Peer float64
}

// DefaultWeights models the SuperMUC-NG fabric: 1 inside a node, 4 between a
// server and its cabinet switch, free cabinet and rack hops (full OmniPath
// inside an island) and 15 between islands.
func DefaultWeights() Weights {
	return Weights{
		Up:   []float64{0, 0, 0, 4, 1},
		Peer: 15,
	}
}

// DefaultHops are direct slot-to-slot distances for HopDistances, indexed by
// the first layer at which two SuperMUC-NG slots differ: other island,
// other rack, other cabinet, other server, same server.
func DefaultHops() []float64 {
	return []float64{40, 10, 10, 10, 2}
}

func (w Weights) validate(depth int) error {
	if len(w.Up) != depth+1 {
		return fmt.Errorf("%w: %d up-weights for %d layers", ErrBadWeights, len(w.Up), depth+1)
	}
	for l, x := range w.Up {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return fmt.Errorf("%w: up[%d]=%v", ErrBadWeights, l, x)
		}
	}
	if math.IsNaN(w.Peer) || w.Peer < 0 {
		return fmt.Errorf("%w: peer=%v", ErrBadWeights, w.Peer)
	}

	return nil
}
