package graph

import (
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// Edge is a non-owning handle to an edge in a Graph.
type Edge struct {
	g  *Graph
	id string
}

// ID returns the edge's stable identifier.
func (e Edge) ID() string { return e.id }

// Graph returns the owning graph.
func (e Edge) Graph() *Graph { return e.g }

// Base returns the generic handle.
func (e Edge) Base() Edge { return e }

func (e Edge) raw() (*store.Edge, bool) {
	if e.g == nil {
		return nil, false
	}
	return e.g.s.Edge(e.id)
}

// Exists reports whether the edge is still present in its graph.
func (e Edge) Exists() bool {
	_, ok := e.raw()
	return ok
}

// Source returns the edge's source node. The handle is unresolvable if the
// edge was removed.
func (e Edge) Source() Node {
	r, ok := e.raw()
	if !ok {
		return Node{}
	}
	return Node{g: e.g, id: r.From}
}

// Target returns the edge's target node.
func (e Edge) Target() Node {
	r, ok := e.raw()
	if !ok {
		return Node{}
	}
	return Node{g: e.g, id: r.To}
}

// Data returns the edge's live data map, or nil if the edge was removed.
func (e Edge) Data() Data {
	if r, ok := e.raw(); ok {
		return r.Data
	}
	return nil
}

// ScratchData returns the edge's live scratch map.
func (e Edge) ScratchData() Data {
	if r, ok := e.raw(); ok {
		return r.Scratch
	}
	return nil
}

// Is reports whether the edge currently satisfies guard.
func (e Edge) Is(guard TypeGuard) bool {
	r, ok := e.raw()
	if !ok {
		return false
	}
	return guard.IsDataCompatible(r.Data) && guard.IsScratchDataCompatible(r.Scratch)
}

// Init applies b to the edge's maps in place and returns the edge.
// It panics if the edge was removed.
func (e Edge) Init(b Builder) Edge {
	r, ok := e.raw()
	if !ok {
		panic(errors.New(errors.ErrCodeNotFound, "init on missing edge %s", e.id))
	}
	r.Data = nonNil(b.BuildData(r.Data))
	r.Scratch = nonNil(b.BuildScratchData(r.Scratch))
	return e
}

// Remove deletes the edge from the graph.
func (e Edge) Remove() bool {
	if e.g == nil {
		return false
	}
	return e.g.s.RemoveEdge(e.id)
}
