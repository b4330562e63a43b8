package graph

import "github.com/matzehuels/flowgraph/pkg/errors"

// NodeClass describes a node view: the guard that recognizes it and the
// wrapper that re-types a generic handle as V. A NodeClass is itself a
// TypeGuard, so it can be passed to [Node.Is] or used as a parent guard.
type NodeClass[V any] struct {
	name  string
	guard TypeGuard
	wrap  func(Node) V
}

// NewNodeClass creates a node view description.
func NewNodeClass[V any](name string, guard TypeGuard, wrap func(Node) V) NodeClass[V] {
	return NodeClass[V]{name: name, guard: guard, wrap: wrap}
}

// Name returns the view's display name.
func (c NodeClass[V]) Name() string { return c.name }

// IsDataCompatible implements TypeGuard.
func (c NodeClass[V]) IsDataCompatible(data Data) bool { return c.guard.IsDataCompatible(data) }

// IsScratchDataCompatible implements TypeGuard.
func (c NodeClass[V]) IsScratchDataCompatible(scratch Data) bool {
	return c.guard.IsScratchDataCompatible(scratch)
}

// EdgeClass describes an edge view.
type EdgeClass[V any] struct {
	name  string
	guard TypeGuard
	wrap  func(Edge) V
}

// NewEdgeClass creates an edge view description.
func NewEdgeClass[V any](name string, guard TypeGuard, wrap func(Edge) V) EdgeClass[V] {
	return EdgeClass[V]{name: name, guard: guard, wrap: wrap}
}

// Name returns the view's display name.
func (c EdgeClass[V]) Name() string { return c.name }

// IsDataCompatible implements TypeGuard.
func (c EdgeClass[V]) IsDataCompatible(data Data) bool { return c.guard.IsDataCompatible(data) }

// IsScratchDataCompatible implements TypeGuard.
func (c EdgeClass[V]) IsScratchDataCompatible(scratch Data) bool {
	return c.guard.IsScratchDataCompatible(scratch)
}

// GraphClass describes a graph view.
type GraphClass[V any] struct {
	name  string
	guard TypeGuard
	wrap  func(*Graph) V
}

// NewGraphClass creates a graph view description.
func NewGraphClass[V any](name string, guard TypeGuard, wrap func(*Graph) V) GraphClass[V] {
	return GraphClass[V]{name: name, guard: guard, wrap: wrap}
}

// Name returns the view's display name.
func (c GraphClass[V]) Name() string { return c.name }

// IsDataCompatible implements TypeGuard.
func (c GraphClass[V]) IsDataCompatible(data Data) bool { return c.guard.IsDataCompatible(data) }

// IsScratchDataCompatible implements TypeGuard.
func (c GraphClass[V]) IsScratchDataCompatible(scratch Data) bool {
	return c.guard.IsScratchDataCompatible(scratch)
}

// TryAsNode re-types n as view V if n currently satisfies the view.
// It never mutates data.
func TryAsNode[V any](n Node, c NodeClass[V]) (V, bool) {
	if !n.Is(c) {
		var zero V
		return zero, false
	}
	return c.wrap(n), true
}

// AsNode re-types n as view V.
//
// The caller must have established n.Is(c). Casting an incompatible node
// is a programming error and panics with an INCOMPATIBLE_VIEW
// *errors.Error; use [TryAsNode] when absence is an expected outcome.
func AsNode[V any](n Node, c NodeClass[V]) V {
	v, ok := TryAsNode(n, c)
	if !ok {
		panic(errors.New(errors.ErrCodeIncompatibleView, "node %s is not a %s", n.ID(), c.Name()))
	}
	return v
}

// InitNode applies b to n and returns n re-typed as the view b builds.
func InitNode[V any](n Node, b NodeBuilder[V]) V {
	return AsNode(n.Init(b), b.NodeClass())
}

// TryAsEdge re-types e as view V if e currently satisfies the view.
func TryAsEdge[V any](e Edge, c EdgeClass[V]) (V, bool) {
	if !e.Is(c) {
		var zero V
		return zero, false
	}
	return c.wrap(e), true
}

// AsEdge re-types e as view V and panics if e does not satisfy the view.
func AsEdge[V any](e Edge, c EdgeClass[V]) V {
	v, ok := TryAsEdge(e, c)
	if !ok {
		panic(errors.New(errors.ErrCodeIncompatibleView, "edge %s is not a %s", e.ID(), c.Name()))
	}
	return v
}

// InitEdge applies b to e and returns e re-typed as the view b builds.
func InitEdge[V any](e Edge, b EdgeBuilder[V]) V {
	return AsEdge(e.Init(b), b.EdgeClass())
}

// TryAsGraph re-types g as view V if g currently satisfies the view.
func TryAsGraph[V any](g *Graph, c GraphClass[V]) (V, bool) {
	if !g.Is(c) {
		var zero V
		return zero, false
	}
	return c.wrap(g), true
}

// AsGraph re-types g as view V and panics if g does not satisfy the view.
func AsGraph[V any](g *Graph, c GraphClass[V]) V {
	v, ok := TryAsGraph(g, c)
	if !ok {
		panic(errors.New(errors.ErrCodeIncompatibleView, "graph is not a %s", c.Name()))
	}
	return v
}

// InitGraph applies b to g and returns g re-typed as the view b builds.
func InitGraph[V any](g *Graph, b GraphBuilder[V]) V {
	return AsGraph(g.Init(b), b.GraphClass())
}
