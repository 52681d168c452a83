package topology

import (
	"fmt"
	"strings"
)

// Layer indices of the SuperMUC-NG naming scheme (iNNrNNcNNsNN), coarse-to-fine.
const (
	LayerIsland = iota
	LayerRack
	LayerCabinet
	LayerServer
	LayerSlot
)

// Extractor derives the enclosing scopes of a slot from its name.
type Extractor interface {
	// Depth is the number of scope layers above the slots.
	Depth() int

	// Scopes returns Depth() identifiers for slot, ordered coarse-to-fine.
	// Identifiers must be globally unique per layer: a scope is the same
	// node wherever it appears.
	Scopes(slot string) ([]string, error)
}

// PrefixExtractor cuts fixed-width prefixes off the slot name; Widths[l] is
// the prefix length identifying the layer-l scope.
type PrefixExtractor struct {
	Widths []int
}

// SuperMUCNG returns the extractor for names like "i01r02c03s04": island
// (3 chars), rack (6), cabinet (9) and server (12). Anything after the server
// prefix (e.g. a ":rank" suffix) stays part of the slot name only.
func SuperMUCNG() PrefixExtractor {
	return PrefixExtractor{Widths: []int{3, 6, 9, 12}}
}

// Depth implements Extractor.
func (p PrefixExtractor) Depth() int { return len(p.Widths) }

// Scopes implements Extractor.
func (p PrefixExtractor) Scopes(slot string) ([]string, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if need := p.Widths[len(p.Widths)-1]; len(slot) < need {
		return nil, fmt.Errorf("%w: %q shorter than %d characters", ErrUnresolvedSlot, slot, need)
	}

	out := make([]string, len(p.Widths))
	for l, w := range p.Widths {
		out[l] = slot[:w]
	}

	return out, nil
}

func (p PrefixExtractor) validate() error {
	if len(p.Widths) == 0 {
		return fmt.Errorf("%w: no prefix widths", ErrBadExtractor)
	}
	prev := 0
	for _, w := range p.Widths {
		if w <= prev {
			return fmt.Errorf("%w: widths %v must be positive and increasing", ErrBadExtractor, p.Widths)
		}
		prev = w
	}

	return nil
}

// SeparatorExtractor splits names like "isl0/rack1/cab2/srv3/core7" on Sep;
// the layer-l scope is the first l+1 components joined back together.
type SeparatorExtractor struct {
	Sep    string
	Levels int
}

// Depth implements Extractor.
func (s SeparatorExtractor) Depth() int { return s.Levels }

// Scopes implements Extractor.
func (s SeparatorExtractor) Scopes(slot string) ([]string, error) {
	if s.Sep == "" || s.Levels <= 0 {
		return nil, fmt.Errorf("%w: separator %q, levels %d", ErrBadExtractor, s.Sep, s.Levels)
	}

	parts := strings.Split(slot, s.Sep)
	if len(parts) < s.Levels {
		return nil, fmt.Errorf("%w: %q has %d of %d scope components", ErrUnresolvedSlot, slot, len(parts), s.Levels)
	}

	out := make([]string, s.Levels)
	for l := 0; l < s.Levels; l++ {
		out[l] = strings.Join(parts[:l+1], s.Sep)
	}

	return out, nil
}
