package graph

import (
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// Node is a non-owning handle to a node in a Graph: the owning graph plus
// the node ID. Handles are cheap values and are reconstructed on demand;
// a handle to a removed node stays valid as a value but resolves to
// nothing, so every view over it reports false from Is.
type Node struct {
	g  *Graph
	id string
}

// ID returns the node's stable identifier.
func (n Node) ID() string { return n.id }

// Graph returns the owning graph.
func (n Node) Graph() *Graph { return n.g }

// Base returns the generic handle. Views embed Node, so every view exposes
// its underlying handle through this method.
func (n Node) Base() Node { return n }

func (n Node) raw() (*store.Node, bool) {
	if n.g == nil {
		return nil, false
	}
	return n.g.s.Node(n.id)
}

// Exists reports whether the node is still present in its graph.
func (n Node) Exists() bool {
	_, ok := n.raw()
	return ok
}

// Data returns the node's live data map, or nil if the node was removed.
func (n Node) Data() Data {
	if r, ok := n.raw(); ok {
		return r.Data
	}
	return nil
}

// ScratchData returns the node's live scratch map, or nil if the node was
// removed.
func (n Node) ScratchData() Data {
	if r, ok := n.raw(); ok {
		return r.Scratch
	}
	return nil
}

// Is reports whether the node currently satisfies guard. It is false for
// removed nodes.
func (n Node) Is(guard TypeGuard) bool {
	r, ok := n.raw()
	if !ok {
		return false
	}
	return guard.IsDataCompatible(r.Data) && guard.IsScratchDataCompatible(r.Scratch)
}

// Init applies b to the node's data and scratch maps in place and returns
// the node. Prefer [InitNode], which also casts to the built view.
//
// Init on a removed node is a programming error and panics.
func (n Node) Init(b Builder) Node {
	r, ok := n.raw()
	if !ok {
		panic(errors.New(errors.ErrCodeNotFound, "init on missing node %s", n.id))
	}
	r.Data = nonNil(b.BuildData(r.Data))
	r.Scratch = nonNil(b.BuildScratchData(r.Scratch))
	return n
}

// Remove deletes the node and its incident edges from the graph.
func (n Node) Remove() bool {
	if n.g == nil {
		return false
	}
	return n.g.s.RemoveNode(n.id)
}

// Outgoing returns the node's outgoing edges in insertion order.
func (n Node) Outgoing() Collection[Edge] {
	if n.g == nil {
		return Collection[Edge]{}
	}
	return n.g.wrapEdges(n.g.s.Outgoing(n.id))
}

// Incoming returns the node's incoming edges in insertion order.
func (n Node) Incoming() Collection[Edge] {
	if n.g == nil {
		return Collection[Edge]{}
	}
	return n.g.wrapEdges(n.g.s.Incoming(n.id))
}

// Successors returns the targets of the node's outgoing edges, without
// duplicates, in edge order.
func (n Node) Successors() Collection[Node] {
	return Map(n.Outgoing(), Edge.Target)
}

// Predecessors returns the sources of the node's incoming edges.
func (n Node) Predecessors() Collection[Node] {
	return Map(n.Incoming(), Edge.Source)
}

func nonNil(d Data) Data {
	if d == nil {
		return Data{}
	}
	return d
}
