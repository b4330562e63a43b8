package store

import (
	"errors"
	"maps"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

var (
	// ErrInvalidID is returned by [Graph.AddNode] and [Graph.AddEdge] when
	// the element ID is empty.
	ErrInvalidID = errors.New("element ID must not be empty")

	// ErrDuplicateID is returned by [Graph.AddNode] and [Graph.AddEdge] when
	// an element with the same ID already exists. Node and edge IDs share
	// one namespace so that an ID alone identifies an element.
	ErrDuplicateID = errors.New("duplicate element ID")

	// ErrUnknownSource is returned by [Graph.AddEdge] when the source node
	// does not exist.
	ErrUnknownSource = errors.New("unknown source node")

	// ErrUnknownTarget is returned by [Graph.AddEdge] when the target node
	// does not exist.
	ErrUnknownTarget = errors.New("unknown target node")
)

// Metadata maps a tag to the record stored under it. Nodes, edges and the
// graph itself each carry two of these: a persistent data map and a
// transient scratch map. Metadata maps are never nil once an element has
// been added to a graph.
type Metadata map[string]any

// Node is a vertex in the graph. The zero value is not usable; add it to a
// graph with [Graph.AddNode] or allocate one with [Graph.NewNode].
type Node struct {
	ID      string   // Stable identifier, unique within the graph
	Data    Metadata // Persistent tagged data (never nil after AddNode)
	Scratch Metadata // Transient tagged data, never persisted
}

// Edge is a directed connection between two nodes. Parallel edges and
// self-loops are allowed; control-flow graphs need both.
type Edge struct {
	ID      string   // Stable identifier, unique within the graph
	From    string   // Source node ID
	To      string   // Target node ID
	Data    Metadata // Persistent tagged data (never nil after AddEdge)
	Scratch Metadata // Transient tagged data, never persisted
}

// Option configures a [Graph] at construction time.
type Option func(*Graph)

// WithIDGenerator replaces the default UUID generator used by
// [Graph.NewNode] and [Graph.NewEdge]. The generator must not return IDs
// that are already in use; NewNode retries on collision.
func WithIDGenerator(next func() string) Option {
	return func(g *Graph) {
		if next != nil {
			g.nextID = next
		}
	}
}

// WithData sets the graph-level data map.
func WithData(data Metadata) Option {
	return func(g *Graph) {
		if data != nil {
			g.data = data
		}
	}
}

// Graph is an arena of nodes and edges addressed by string IDs.
//
// Iteration order of [Graph.Nodes] and [Graph.Edges] is insertion order.
// Removing a node removes its incident edges.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []string
	edgeOrder []string
	outgoing  map[string][]string // nodeID -> outgoing edge IDs
	incoming  map[string][]string // nodeID -> incoming edge IDs
	data      Metadata
	scratch   Metadata
	nextID    func() string
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		data:     Metadata{},
		scratch:  Metadata{},
		nextID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Data returns the graph-level persistent data map.
// The returned map is never nil and can be safely modified.
func (g *Graph) Data() Metadata { return g.data }

// Scratch returns the graph-level scratch map.
func (g *Graph) Scratch() Metadata { return g.scratch }

// SetData replaces the graph-level data map. A nil map is replaced by an
// empty one.
func (g *Graph) SetData(m Metadata) {
	if m == nil {
		m = Metadata{}
	}
	g.data = m
}

// SetScratch replaces the graph-level scratch map.
func (g *Graph) SetScratch(m Metadata) {
	if m == nil {
		m = Metadata{}
	}
	g.scratch = m
}

// AddNode adds a node to the graph.
// Returns ErrInvalidID if the ID is empty or ErrDuplicateID if the ID is
// taken. Nil Data and Scratch maps are initialized to empty maps.
func (g *Graph) AddNode(n Node) (*Node, error) {
	if n.ID == "" {
		return nil, ErrInvalidID
	}
	if g.exists(n.ID) {
		return nil, ErrDuplicateID
	}
	if n.Data == nil {
		n.Data = Metadata{}
	}
	if n.Scratch == nil {
		n.Scratch = Metadata{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.nodeOrder = append(g.nodeOrder, node.ID)
	return node, nil
}

// NewNode allocates a node with a generated ID and empty data maps.
func (g *Graph) NewNode() *Node {
	n, _ := g.AddNode(Node{ID: g.freshID()})
	return n
}

// RemoveNode deletes the node and every edge incident to it.
// It reports whether the node existed.
func (g *Graph) RemoveNode(id string) bool {
	if _, ok := g.nodes[id]; !ok {
		return false
	}
	incident := slices.Concat(g.outgoing[id], g.incoming[id])
	for _, eid := range incident {
		g.RemoveEdge(eid)
	}
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	return true
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrInvalidID or ErrDuplicateID for a bad edge ID, and
// ErrUnknownSource or ErrUnknownTarget if an endpoint is missing.
func (g *Graph) AddEdge(e Edge) (*Edge, error) {
	if e.ID == "" {
		return nil, ErrInvalidID
	}
	if g.exists(e.ID) {
		return nil, ErrDuplicateID
	}
	if _, ok := g.nodes[e.From]; !ok {
		return nil, ErrUnknownSource
	}
	if _, ok := g.nodes[e.To]; !ok {
		return nil, ErrUnknownTarget
	}
	if e.Data == nil {
		e.Data = Metadata{}
	}
	if e.Scratch == nil {
		e.Scratch = Metadata{}
	}
	edge := &e
	g.edges[edge.ID] = edge
	g.edgeOrder = append(g.edgeOrder, edge.ID)
	g.outgoing[edge.From] = append(g.outgoing[edge.From], edge.ID)
	g.incoming[edge.To] = append(g.incoming[edge.To], edge.ID)
	return edge, nil
}

// NewEdge allocates an edge with a generated ID between two existing nodes.
func (g *Graph) NewEdge(from, to string) (*Edge, error) {
	return g.AddEdge(Edge{ID: g.freshID(), From: from, To: to})
}

// RemoveEdge deletes the edge with the given ID.
// No error is returned if the edge does not exist; the result reports
// whether anything was removed.
func (g *Graph) RemoveEdge(id string) bool {
	e, ok := g.edges[id]
	if !ok {
		return false
	}
	match := func(s string) bool { return s == id }
	g.outgoing[e.From] = slices.DeleteFunc(g.outgoing[e.From], match)
	g.incoming[e.To] = slices.DeleteFunc(g.incoming[e.To], match)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, match)
	delete(g.edges, id)
	return true
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the node stored in the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID and true, or nil and false.
func (g *Graph) Edge(id string) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Nodes returns all nodes in insertion order. The slice is fresh but the
// pointers refer to the stored nodes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	return g.lookupEdges(g.edgeOrder)
}

// Outgoing returns the edges leaving the node, in insertion order.
// Returns nil if the node has no outgoing edges or doesn't exist.
func (g *Graph) Outgoing(id string) []*Edge { return g.lookupEdges(g.outgoing[id]) }

// Incoming returns the edges entering the node, in insertion order.
func (g *Graph) Incoming(id string) []*Edge { return g.lookupEdges(g.incoming[id]) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Subgraph copies the nodes keep accepts, and the edges between them, into
// a new graph built with opts. Graph data and element maps are copied;
// the records stored in them are shared with g.
func (g *Graph) Subgraph(keep func(id string) bool, opts ...Option) *Graph {
	sub := New(append([]Option{WithData(maps.Clone(g.data))}, opts...)...)
	sub.scratch = maps.Clone(g.scratch)
	for _, n := range g.Nodes() {
		if keep(n.ID) {
			_, _ = sub.AddNode(Node{ID: n.ID, Data: maps.Clone(n.Data), Scratch: maps.Clone(n.Scratch)})
		}
	}
	for _, e := range g.Edges() {
		if keep(e.From) && keep(e.To) {
			_, _ = sub.AddEdge(Edge{ID: e.ID, From: e.From, To: e.To, Data: maps.Clone(e.Data), Scratch: maps.Clone(e.Scratch)})
		}
	}
	return sub
}

func (g *Graph) lookupEdges(ids []string) []*Edge {
	if len(ids) == 0 {
		return nil
	}
	edges := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		edges = append(edges, g.edges[id])
	}
	return edges
}

func (g *Graph) exists(id string) bool {
	if _, ok := g.nodes[id]; ok {
		return true
	}
	_, ok := g.edges[id]
	return ok
}

func (g *Graph) freshID() string {
	for {
		id := g.nextID()
		if id != "" && !g.exists(id) {
			return id
		}
	}
}

// Sequential returns an ID generator producing prefix0, prefix1, ... It is
// useful for deterministic output in tests and golden files.
func Sequential(prefix string) func() string {
	next := 0
	return func() string {
		id := prefix + strconv.Itoa(next)
		next++
		return id
	}
}
