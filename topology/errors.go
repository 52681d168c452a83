package topology

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/topomap/matrix"
)

// Sentinel errors returned by the topology model.
// Every topology failure wraps ErrTopology; input that is simply broken
// (an empty slot list) wraps matrix.ErrMalformedInput instead.
var (
	// ErrTopology is the family sentinel for unusable topology descriptions.
	ErrTopology = errors.New("topology: invalid topology")

	// ErrDisconnected indicates that two slots have no path between them.
	ErrDisconnected = fmt.Errorf("%w: slots are not connected", ErrTopology)

	// ErrUnresolvedSlot indicates that a slot name cannot be mapped to a tree leaf.
	ErrUnresolvedSlot = fmt.Errorf("%w: slot name cannot be resolved", ErrTopology)

	// ErrBadWeights indicates a weight vector of the wrong length or with
	// negative/NaN entries.
	ErrBadWeights = fmt.Errorf("%w: invalid layer weights", ErrTopology)

	// ErrBadExtractor indicates an extractor without scope layers or with
	// non-increasing prefix widths.
	ErrBadExtractor = fmt.Errorf("%w: invalid scope extractor", ErrTopology)

	// ErrAmbiguousScope indicates a scope identifier that appears under two
	// different parents, which a tree cannot represent.
	ErrAmbiguousScope = fmt.Errorf("%w: scope has more than one parent", ErrTopology)

	// ErrNoSlots indicates an empty slot list.
	ErrNoSlots = fmt.Errorf("%w: topology: no slots", matrix.ErrMalformedInput)
)
