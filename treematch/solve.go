package treematch

import (
	"fmt"

	"github.com/katalvlaran/topomap/matrix"
	"github.com/katalvlaran/topomap/topology"
)

// Solve maps processes onto slots by grouping them bottom-up along tree.
//
// Stages:
//  1. Validate: comm square, finite, ≥ 0; order == leaf count == len(slots).
//  2. For each kept layer d from the leaves up to 1, form one group per node
//     of layer d-1 out of the entries of the working matrix (entries of layer
//     d stand for the nodes of layer d, so the counts always match):
//     - every node of layer d alike and every parent with k children:
//     Group(k), exact within the budgets;
//     - otherwise each parent takes entries shaped like its own children,
//     greedily, and the layer is degraded unless there is a single parent
//     or every parent has a single child.
//     The groups are aggregated into the next working matrix.
//  3. Walk the tree top-down, laying every group onto a node of the same
//     shape, down to the leaves. Each leaf name is resolved against slots
//     (repeated names are consumed in order).
//
// A group never holds more processes than the node it lands on has slots,
// so servers of different sizes are filled to their own capacity.
//
// comm is never mutated; each layer produces a fresh working matrix.
//
// Errors: ErrBadOptions, matrix.ErrMalformedInput family,
// matrix.ErrDimensionMismatch, topology.ErrTopology for a nil tree,
// topology.ErrUnresolvedSlot for a leaf name missing from slots.
func Solve(comm matrix.Matrix, tree *topology.Tree, slots []string, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if err := matrix.ValidateVolumes(comm); err != nil {
		return Result{}, err
	}
	if tree == nil {
		return Result{}, fmt.Errorf("%w: nil tree", topology.ErrTopology)
	}
	n := comm.Rows()
	if leaves := tree.Leaves(); n != len(leaves) || n != len(slots) {
		return Result{}, fmt.Errorf("treematch: %d processes, %d leaves, %d slots: %w",
			n, len(leaves), len(slots), matrix.ErrDimensionMismatch)
	}

	work, err := matrix.Pad(comm, n)
	if err != nil {
		return Result{}, err
	}

	var (
		sh     = newShapes(tree)
		depth  = tree.Depth()
		groups = make([][][]int, depth)
		res    Result
	)
	for d := depth - 1; d >= 1; d-- {
		lv, err := groupLayer(work, tree, sh, d, opts)
		if err != nil {
			return Result{}, err
		}
		if work, err = matrix.Aggregate(work, lv.groups); err != nil {
			return Result{}, err
		}
		groups[d-1] = lv.groups
		res.Levels = append(res.Levels, lv.Level)
		res.Degraded = res.Degraded || lv.Degraded
	}

	leafOf := make([]int, n)
	var lay func(node, d, entry int)
	lay = func(node, d, entry int) {
		if d == depth-1 {
			leafOf[entry] = node
			return
		}
		for i, c := range sh.canon[node] {
			lay(c, d+1, groups[d][entry][i])
		}
	}
	for e, node := range tree.Layer(0) {
		lay(node, 0, e)
	}

	if res.Perm, err = mapToSlots(leafOf, tree, slots); err != nil {
		return Result{}, err
	}

	return res, nil
}

type layerGrouping struct {
	Level
	groups [][]int
}

// groupLayer groups the entries of work, which stand for the nodes of layer
// d, into one group per node of layer d-1. groups[p] belongs to the p-th node
// of layer d-1 and is ordered like that node's canonical children.
func groupLayer(work matrix.Matrix, tree *topology.Tree, sh shapes, d int, opts Options) (layerGrouping, error) {
	var (
		entries = tree.Layer(d)
		parents = tree.Layer(d - 1)
		k       = len(tree.Node(parents[0]).Children)
		regular = sh.uniform(tree, d)
	)
	for _, id := range parents[1:] {
		if len(tree.Node(id).Children) != k {
			regular = false
			break
		}
	}

	lv := layerGrouping{Level: Level{
		Layer:  d - 1,
		Arity:  tree.Arity(d - 1),
		Size:   len(entries),
		Groups: len(parents),
	}}

	if regular {
		g, err := Group(work, k, opts)
		if err != nil {
			return layerGrouping{}, fmt.Errorf("treematch: layer %d: %w", d-1, err)
		}
		lv.groups = g.Groups
		lv.Method, lv.Degraded, lv.Explored = g.Method, g.Degraded, g.Explored
		return lv, nil
	}

	data, err := matrix.Flatten(work)
	if err != nil {
		return layerGrouping{}, err
	}
	shape := make([]int, len(entries))
	for e, id := range entries {
		shape[e] = sh.sig[id]
	}
	lv.groups = shapedGroups(data, len(entries), shape, sh.need(tree, d-1))
	lv.Uneven = true
	if len(parents) == 1 || tree.Arity(d-1) == 1 {
		// one parent, or one child each: nothing to choose at this layer
		lv.Method = MethodTrivial
	} else {
		lv.Method, lv.Degraded = MethodGreedy, true
	}

	return lv, nil
}

// mapToSlots turns the leaf node of every process into a slot index of
// slots, resolving leaves by name. Repeated names are consumed in tree slot
// order.
func mapToSlots(leafOf []int, tree *topology.Tree, slots []string) ([]int, error) {
	queue := make(map[string][]int, len(slots))
	for s, name := range slots {
		queue[name] = append(queue[name], s)
	}

	at := make([]int, len(leafOf))
	for p, leaf := range leafOf {
		at[tree.SlotIndex(leaf)] = p
	}

	names := tree.Slots()
	perm := make([]int, len(leafOf))
	for t, p := range at {
		q := queue[names[t]]
		if len(q) == 0 {
			return nil, fmt.Errorf("%w: %q", topology.ErrUnresolvedSlot, names[t])
		}
		perm[p], queue[names[t]] = q[0], q[1:]
	}

	return perm, nil
}
