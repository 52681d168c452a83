package topology

import (
	"fmt"
	"math"

	"github.com/katalvlaran/topomap/matrix"
)

// Node is one vertex of the topology tree: a scope (island, rack, ...) or a
// slot leaf.
type Node struct {
	// Name is the scope identifier, or the slot name for leaves.
	Name string
	// Layer is the extractor layer the node came from; leaves have Layer == Depth().
	Layer int
	// Parent is the parent node id, -1 for top-layer nodes.
	Parent int
	// Children are child node ids in order of first appearance.
	Children []int
	// Weight is the cost of the edge to Parent.
	Weight float64
	// Slot is the slot index for leaves, -1 for scopes.
	Slot int
}

// Tree is the pruned topology hierarchy over a slot list.
//
// Kept layers are numbered 0..Depth()-1 coarse-to-fine; the last one holds
// the slot leaves. Scope layers with fewer than two members whose parent
// layer also has fewer than two members carry no structure and are pruned;
// their children hang off the nearest kept ancestor.
type Tree struct {
	nodes  []Node
	layers [][]int
	origin []int
	leafOf []int
	slots  []string
	peer   float64
}

// Build derives the tree from slot names.
//
// Steps:
//  1. Split every slot into its scopes with ext.
//  2. Collect distinct scopes per layer in order of first appearance and
//     check each has exactly one parent scope.
//  3. Prune thin layers (the top layer and the leaves are always kept).
//  4. Create nodes top-down and one leaf per slot index; duplicate slot
//     names become distinct leaves.
//
// Errors: ErrNoSlots, ErrBadExtractor, ErrBadWeights, ErrUnresolvedSlot,
// ErrAmbiguousScope.
// Complexity: O(S·D) for S slots and D layers.
func Build(slots []string, ext Extractor, w Weights) (*Tree, error) {
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}
	if ext == nil || ext.Depth() <= 0 {
		return nil, fmt.Errorf("%w: extractor without scope layers", ErrBadExtractor)
	}
	depth := ext.Depth()
	if err := w.validate(depth); err != nil {
		return nil, err
	}

	var (
		scopes = make([][]string, len(slots))
		ids    = make([][]string, depth)
		parent = make([]map[string]string, depth)
		s, l   int
		err    error
	)
	for l = 0; l < depth; l++ {
		parent[l] = make(map[string]string)
	}
	for s = range slots {
		if scopes[s], err = ext.Scopes(slots[s]); err != nil {
			return nil, err
		}
		if len(scopes[s]) != depth {
			return nil, fmt.Errorf("%w: %q yields %d scopes, want %d", ErrBadExtractor, slots[s], len(scopes[s]), depth)
		}
		for l = 0; l < depth; l++ {
			id := scopes[s][l]
			up := ""
			if l > 0 {
				up = scopes[s][l-1]
			}
			prev, seen := parent[l][id]
			if !seen {
				parent[l][id] = up
				ids[l] = append(ids[l], id)
				continue
			}
			if prev != up {
				return nil, fmt.Errorf("%w: %q under %q and %q", ErrAmbiguousScope, id, prev, up)
			}
		}
	}

	keep := make([]bool, depth)
	keep[0] = true
	for l = 1; l < depth; l++ {
		keep[l] = len(ids[l]) >= 2 || len(ids[l-1]) >= 2
	}

	t := &Tree{
		leafOf: make([]int, len(slots)),
		slots:  append([]string(nil), slots...),
		peer:   w.Peer,
	}
	// byName[l] maps a kept layer-l scope to its node id.
	byName := make([]map[string]int, depth)
	for l = 0; l < depth; l++ {
		if !keep[l] {
			continue
		}
		byName[l] = make(map[string]int, len(ids[l]))
		layer := make([]int, 0, len(ids[l]))
		for _, id := range ids[l] {
			p := -1
			if l > 0 {
				p = t.keptAncestor(byName, parent, keep, l-1, parent[l][id])
			}
			layer = append(layer, t.addNode(Node{Name: id, Layer: l, Parent: p, Weight: w.Up[l], Slot: -1}))
			byName[l][id] = layer[len(layer)-1]
		}
		t.layers = append(t.layers, layer)
		t.origin = append(t.origin, l)
	}

	leaves := make([]int, len(slots))
	for s = range slots {
		p := t.keptAncestor(byName, parent, keep, depth-1, scopes[s][depth-1])
		leaves[s] = t.addNode(Node{Name: slots[s], Layer: depth, Parent: p, Weight: w.Up[depth], Slot: s})
		t.leafOf[s] = leaves[s]
	}
	t.layers = append(t.layers, leaves)
	t.origin = append(t.origin, depth)

	return t, nil
}

// keptAncestor walks up from the layer-l scope id to the first kept layer.
func (t *Tree) keptAncestor(byName []map[string]int, parent []map[string]string, keep []bool, l int, id string) int {
	for l >= 0 && !keep[l] {
		id = parent[l][id]
		l--
	}

	return byName[l][id]
}

func (t *Tree) addNode(n Node) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, n)
	if n.Parent >= 0 {
		t.nodes[n.Parent].Children = append(t.nodes[n.Parent].Children, id)
	}

	return id
}

// Depth returns the number of kept layers, leaves included.
func (t *Tree) Depth() int { return len(t.layers) }

// Layer returns the node ids of kept layer d, coarse-to-fine numbering.
func (t *Tree) Layer(d int) []int { return t.layers[d] }

// OriginLayer returns the extractor layer that kept layer d came from.
func (t *Tree) OriginLayer(d int) int { return t.origin[d] }

// Arity returns the largest child count among the nodes of kept layer d.
func (t *Tree) Arity(d int) int {
	best := 0
	for _, id := range t.layers[d] {
		if c := len(t.nodes[id].Children); c > best {
			best = c
		}
	}

	return best
}

// Node returns a copy of node id.
func (t *Tree) Node(id int) Node { return t.nodes[id] }

// Len returns the total number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Slots returns the slot list the tree was built from.
func (t *Tree) Slots() []string { return append([]string(nil), t.slots...) }

// SlotIndex returns the slot index behind leaf node id, or -1 for scopes.
func (t *Tree) SlotIndex(id int) int { return t.nodes[id].Slot }

// Leaves returns slot indices in depth-first tree order: the order in which
// a grouping of processes is laid onto the hardware.
func (t *Tree) Leaves() []int {
	out := make([]int, 0, len(t.slots))
	var walk func(id int)
	walk = func(id int) {
		n := &t.nodes[id]
		if n.Slot >= 0 {
			out = append(out, n.Slot)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, id := range t.layers[0] {
		walk(id)
	}

	return out
}

// Distances closes the tree into slot-to-slot path costs.
//
// Every child–parent edge weighs the child's Weight; top-layer nodes are
// linked pairwise with the peer weight unless it is +Inf. Shortest paths come
// from matrix.FloydWarshall and are restricted to the leaves.
//
// Errors: ErrDisconnected when two slots have no path.
// Complexity: O(V³) for V tree nodes.
func (t *Tree) Distances() (*matrix.Dense, error) {
	v := len(t.nodes)
	seed, err := matrix.NewDistanceSeed(v)
	if err != nil {
		return nil, err
	}

	var (
		id, p int
		a, b  int
		top   = t.layers[0]
	)
	for id = range t.nodes {
		if p = t.nodes[id].Parent; p < 0 {
			continue
		}
		if err = setMin(seed, id, p, t.nodes[id].Weight); err != nil {
			return nil, err
		}
	}
	if !math.IsInf(t.peer, 1) {
		for a = 0; a < len(top); a++ {
			for b = a + 1; b < len(top); b++ {
				if err = setMin(seed, top[a], top[b], t.peer); err != nil {
					return nil, err
				}
			}
		}
	}
	if err = matrix.FloydWarshall(seed); err != nil {
		return nil, err
	}

	n := len(t.slots)
	out, err := matrix.NewSquare(n)
	if err != nil {
		return nil, err
	}
	var (
		i, j int
		d    float64
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if d, err = seed.At(t.leafOf[i], t.leafOf[j]); err != nil {
				return nil, err
			}
			if math.IsInf(d, 1) {
				return nil, fmt.Errorf("%w: %q and %q", ErrDisconnected, t.slots[i], t.slots[j])
			}
			if err = out.Set(i, j, d); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// setMin writes an undirected edge, keeping the cheaper of parallel edges.
func setMin(d *matrix.Dense, a, b int, w float64) error {
	cur, err := d.At(a, b)
	if err != nil {
		return err
	}
	if w >= cur {
		return nil
	}
	if err = d.Set(a, b, w); err != nil {
		return err
	}

	return d.Set(b, a, w)
}
