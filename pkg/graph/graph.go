package graph

import (
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// Graph is the generic graph handle every graph view wraps. It layers
// typed handles over a store.Graph and owns no data of its own.
type Graph struct {
	s *store.Graph
}

// New creates a graph over a fresh store.
func New(opts ...store.Option) *Graph {
	return &Graph{s: store.New(opts...)}
}

// FromStore wraps an existing store. Several handles over the same store
// observe the same data.
func FromStore(s *store.Graph) *Graph {
	return &Graph{s: s}
}

// Store returns the underlying storage primitive.
func (g *Graph) Store() *store.Graph { return g.s }

// Base returns the generic handle. Graph views embed *Graph.
func (g *Graph) Base() *Graph { return g }

// Data returns the graph-level data map.
func (g *Graph) Data() Data { return g.s.Data() }

// ScratchData returns the graph-level scratch map.
func (g *Graph) ScratchData() Data { return g.s.Scratch() }

// Is reports whether the graph currently satisfies guard.
func (g *Graph) Is(guard TypeGuard) bool {
	return guard.IsDataCompatible(g.s.Data()) && guard.IsScratchDataCompatible(g.s.Scratch())
}

// Init applies b to the graph-level maps in place and returns g. Prefer
// [InitGraph], which also casts to the built view.
func (g *Graph) Init(b Builder) *Graph {
	g.s.SetData(b.BuildData(g.s.Data()))
	g.s.SetScratch(b.BuildScratchData(g.s.Scratch()))
	return g
}

// AddNode allocates a node with a generated ID.
func (g *Graph) AddNode() Node {
	return Node{g: g, id: g.s.NewNode().ID}
}

// AddNodeWithID adds a node with a caller-chosen ID.
func (g *Graph) AddNodeWithID(id string) (Node, error) {
	n, err := g.s.AddNode(store.Node{ID: id})
	if err != nil {
		return Node{}, err
	}
	return Node{g: g, id: n.ID}, nil
}

// AddEdge connects two nodes of this graph with a new edge.
func (g *Graph) AddEdge(from, to Node) (Edge, error) {
	if err := g.owns(from, to); err != nil {
		return Edge{}, err
	}
	e, err := g.s.NewEdge(from.id, to.id)
	if err != nil {
		return Edge{}, err
	}
	return Edge{g: g, id: e.ID}, nil
}

// AddEdgeWithID connects two nodes with an edge carrying a caller-chosen ID.
func (g *Graph) AddEdgeWithID(id string, from, to Node) (Edge, error) {
	if err := g.owns(from, to); err != nil {
		return Edge{}, err
	}
	e, err := g.s.AddEdge(store.Edge{ID: id, From: from.id, To: to.id})
	if err != nil {
		return Edge{}, err
	}
	return Edge{g: g, id: e.ID}, nil
}

func (g *Graph) owns(nodes ...Node) error {
	for _, n := range nodes {
		if n.g != nil && n.g.s != g.s {
			return errors.New(errors.ErrCodeInvalidInput, "node %s belongs to another graph", n.id)
		}
	}
	return nil
}

// Node resolves a node by ID. It returns false if the node does not exist.
func (g *Graph) Node(id string) (Node, bool) {
	if _, ok := g.s.Node(id); !ok {
		return Node{}, false
	}
	return Node{g: g, id: id}, true
}

// Edge resolves an edge by ID.
func (g *Graph) Edge(id string) (Edge, bool) {
	if _, ok := g.s.Edge(id); !ok {
		return Edge{}, false
	}
	return Edge{g: g, id: id}, true
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() Collection[Node] {
	raw := g.s.Nodes()
	nodes := make([]Node, len(raw))
	for i, n := range raw {
		nodes[i] = Node{g: g, id: n.ID}
	}
	return Collection[Node]{items: nodes}
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() Collection[Edge] {
	return g.wrapEdges(g.s.Edges())
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return g.s.NodeCount() }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.s.EdgeCount() }

func (g *Graph) wrapEdges(raw []*store.Edge) Collection[Edge] {
	edges := make([]Edge, len(raw))
	for i, e := range raw {
		edges[i] = Edge{g: g, id: e.ID}
	}
	return Collection[Edge]{items: edges}
}
