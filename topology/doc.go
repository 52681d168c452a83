// Package topology models the hardware hierarchy behind a list of slots.
//
// A slot is one place a process can run on, named after the machine that
// hosts it (e.g. "i01r02c03s04" on SuperMUC-NG). An Extractor maps each slot
// name to its enclosing scopes (island, rack, cabinet, server), coarse to fine.
// Build turns those scopes into a Tree:
//
//	island
//	 └── rack            (pruned when it carries no branching)
//	      └── cabinet
//	           └── server
//	                └── slot   (one leaf per slot index)
//
// Each edge weighs Weights.Up of its lower layer and top-layer nodes are
// joined by Weights.Peer. Tree.Distances closes the weighted tree with
// Floyd–Warshall into an S×S slot distance matrix, the input of the QAP
// solver. TreeMatch walks the Tree itself.
//
// HopDistances is a flat alternative: it assigns a fixed cost to the first
// layer at which two slots differ, without building the tree.
//
// Determinism: node order follows first appearance in the slot list, so the
// same slot list always yields the same tree, leaf order and matrix.
package topology
