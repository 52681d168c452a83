package topology

import (
	"fmt"

	"github.com/katalvlaran/topomap/matrix"
)

// Model builds the tree and its closed distance matrix in one call.
func Model(slots []string, ext Extractor, w Weights) (*Tree, *matrix.Dense, error) {
	t, err := Build(slots, ext, w)
	if err != nil {
		return nil, nil, err
	}
	d, err := t.Distances()
	if err != nil {
		return nil, nil, err
	}

	return t, d, nil
}

// HopDistances is the flat alternative to the tree closure: the distance of
// two slots is hops[l] for the first extractor layer l at which their scopes
// differ, and hops[Depth()] when they share every scope. The diagonal is 0.
//
// Errors: ErrNoSlots, ErrBadExtractor, ErrBadWeights (wrong hops length or
// negative entries), ErrUnresolvedSlot.
// Complexity: O(S²·D).
func HopDistances(slots []string, ext Extractor, hops []float64) (*matrix.Dense, error) {
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}
	if ext == nil || ext.Depth() <= 0 {
		return nil, fmt.Errorf("%w: extractor without scope layers", ErrBadExtractor)
	}
	depth := ext.Depth()
	if err := (Weights{Up: hops}).validate(depth); err != nil {
		return nil, err
	}

	var (
		n      = len(slots)
		scopes = make([][]string, n)
		i, j   int
		err    error
	)
	for i = range slots {
		if scopes[i], err = ext.Scopes(slots[i]); err != nil {
			return nil, err
		}
	}

	out, err := matrix.NewSquare(n)
	if err != nil {
		return nil, err
	}
	var l int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			for l = 0; l < depth && scopes[i][l] == scopes[j][l]; l++ {
			}
			if err = out.Set(i, j, hops[l]); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}
