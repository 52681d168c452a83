package treematch

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/katalvlaran/topomap/topology"
)

// shapes classifies tree nodes by the shape of the subtree below them. Two
// nodes with the same sig root isomorphic subtrees, so a group formed for
// one of them can be laid onto the other.
type shapes struct {
	// sig is the shape id per node id; all leaves share one id.
	sig []int
	// canon lists each node's children ordered by sig, ties in tree order.
	// Isomorphic nodes therefore expose the same sig sequence.
	canon [][]int
}

func newShapes(tree *topology.Tree) shapes {
	var (
		s = shapes{
			sig:   make([]int, tree.Len()),
			canon: make([][]int, tree.Len()),
		}
		ids      = make(map[string]int)
		key      strings.Builder
		d, c, id int
		ok       bool
	)
	for d = tree.Depth() - 1; d >= 0; d-- {
		for _, id = range tree.Layer(d) {
			children := append([]int(nil), tree.Node(id).Children...)
			slices.SortStableFunc(children, func(a, b int) int { return s.sig[a] - s.sig[b] })
			s.canon[id] = children

			key.Reset()
			for _, c = range children {
				key.WriteString(strconv.Itoa(s.sig[c]))
				key.WriteByte(',')
			}
			if s.sig[id], ok = ids[key.String()]; !ok {
				s.sig[id] = len(ids)
				ids[key.String()] = s.sig[id]
			}
		}
	}

	return s
}

// uniform reports whether every node of layer d has the same shape.
func (s shapes) uniform(tree *topology.Tree, d int) bool {
	layer := tree.Layer(d)
	for _, id := range layer[1:] {
		if s.sig[id] != s.sig[layer[0]] {
			return false
		}
	}

	return true
}

// need returns, per node of layer d, the shape sequence of its canonical
// children.
func (s shapes) need(tree *topology.Tree, d int) [][]int {
	layer := tree.Layer(d)
	out := make([][]int, len(layer))
	for p, id := range layer {
		out[p] = make([]int, len(s.canon[id]))
		for i, c := range s.canon[id] {
			out[p][i] = s.sig[c]
		}
	}

	return out
}
