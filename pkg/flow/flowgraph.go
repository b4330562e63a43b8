package flow

import (
	"maps"
	"slices"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// Data tag and record version of the FlowGraph record.
const (
	FlowGraphTag     = "__flow__flow_graph"
	FlowGraphVersion = "1"
)

// ErrDuplicateFunction matches, via errors.Is, the error returned when a
// function name is already registered to a live FunctionNode.
var ErrDuplicateFunction = errors.Sentinel(errors.ErrCodeDuplicateFunction)

// FlowGraphRecord is the graph-level record of a FlowGraph.
type FlowGraphRecord struct {
	Version string `json:"version" msgpack:"version"`
	// Functions maps a function name to the ID of its node.
	Functions map[string]string `json:"functions" msgpack:"functions"`
	// Order lists registered names by registration time.
	Order []string `json:"order,omitempty" msgpack:"order,omitempty"`
}

// RecordVersion implements graph.Record.
func (r *FlowGraphRecord) RecordVersion() string { return r.Version }

// FlowGraph is a graph for building CFGs, DFGs and their combinations. It
// is language agnostic and may hold nodes and edges of unrelated views.
type FlowGraph struct {
	*graph.Graph
}

// FlowGraphClass matches graphs carrying a FlowGraph record.
var FlowGraphClass = graph.NewGraphClass("FlowGraph",
	graph.NewTypedTagGuard[*FlowGraphRecord](FlowGraphTag, FlowGraphVersion, nil),
	func(g *graph.Graph) FlowGraph { return FlowGraph{g} })

// FlowGraphBuilder initializes an empty function registry. Applying it to
// a graph that already is a FlowGraph resets the registry.
type FlowGraphBuilder struct{}

// NewFlowGraphBuilder returns a FlowGraphBuilder.
func NewFlowGraphBuilder() FlowGraphBuilder { return FlowGraphBuilder{} }

// BuildData writes a FlowGraph record with an empty registry.
func (FlowGraphBuilder) BuildData(data graph.Data) graph.Data {
	return graph.Extend(data, FlowGraphTag, &FlowGraphRecord{
		Version:   FlowGraphVersion,
		Functions: map[string]string{},
	})
}

// BuildScratchData copies scratch unchanged.
func (FlowGraphBuilder) BuildScratchData(scratch graph.Data) graph.Data {
	return maps.Clone(scratch)
}

// GraphClass returns FlowGraphClass.
func (FlowGraphBuilder) GraphClass() graph.GraphClass[FlowGraph] { return FlowGraphClass }

// New creates an empty FlowGraph over a fresh store.
func New(opts ...store.Option) FlowGraph {
	return graph.InitGraph(graph.New(opts...), NewFlowGraphBuilder())
}

func (fg FlowGraph) record() *FlowGraphRecord {
	r, _ := graph.RecordOf[*FlowGraphRecord](fg.Data(), FlowGraphTag)
	return r
}

// AddFunction allocates a new node and initializes it as a FunctionNode
// registered under name.
//
// It returns an error with code DUPLICATE_FUNCTION if name already
// resolves to a live FunctionNode, and INVALID_NAME for an empty or
// malformed name. A duplicate is a caller bug: rename or remove the
// existing function instead of handling the error.
func (fg FlowGraph) AddFunction(name string) (FunctionNode, error) {
	if err := fg.checkNewFunction(name); err != nil {
		return FunctionNode{}, err
	}
	return fg.register(name, fg.AddNode()), nil
}

// InitFunction is AddFunction for an existing node of this graph. A node
// that already backs a live function is rejected with INVALID_INPUT; a
// node may back one name at a time.
func (fg FlowGraph) InitFunction(name string, n graph.NodeElement) (FunctionNode, error) {
	if err := fg.checkNewFunction(name); err != nil {
		return FunctionNode{}, err
	}
	base := n.Base()
	if base.Graph() == nil || base.Graph().Store() != fg.Store() {
		return FunctionNode{}, errors.New(errors.ErrCodeInvalidInput, "node %s belongs to another graph", base.ID())
	}
	if !base.Exists() {
		return FunctionNode{}, errors.New(errors.ErrCodeNotFound, "node %s does not exist", base.ID())
	}
	if other, ok := fg.liveName(base.ID()); ok {
		return FunctionNode{}, errors.New(errors.ErrCodeInvalidInput, "node %s already backs function %s", base.ID(), other)
	}
	return fg.register(name, base), nil
}

func (fg FlowGraph) checkNewFunction(name string) error {
	if err := errors.ValidateFunctionName(name); err != nil {
		return err
	}
	if fg.HasFunction(name) {
		return errors.New(errors.ErrCodeDuplicateFunction, "function %s already exists in the graph", name)
	}
	return nil
}

func (fg FlowGraph) register(name string, n graph.Node) FunctionNode {
	rec := fg.record()
	if rec.Functions == nil {
		rec.Functions = map[string]string{}
	}
	rec.Order = slices.DeleteFunc(rec.names(), func(s string) bool { return s == name })
	rec.Functions[name] = n.ID()
	rec.Order = append(rec.Order, name)
	return graph.InitNode(n, NewFunctionNodeBuilder(name))
}

// liveName returns the live registry name backed by node id, if any.
func (fg FlowGraph) liveName(id string) (string, bool) {
	for _, name := range fg.FunctionNames() {
		if fn, _ := fg.GetFunction(name); fn.ID() == id {
			return name, true
		}
	}
	return "", false
}

// names lists registry keys in registration order. Keys missing from
// Order, as in snapshots written without one, follow in sorted order.
func (r *FlowGraphRecord) names() []string {
	names := make([]string, 0, len(r.Functions))
	seen := make(map[string]bool, len(r.Functions))
	for _, name := range r.Order {
		if _, ok := r.Functions[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(r.Functions)) {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// GetFunction resolves name to its FunctionNode. It reports false if the
// name is unknown, its node was removed, or the node is no longer a
// FunctionNode.
func (fg FlowGraph) GetFunction(name string) (FunctionNode, bool) {
	rec := fg.record()
	if rec == nil {
		return FunctionNode{}, false
	}
	id, ok := rec.Functions[name]
	if !ok {
		return FunctionNode{}, false
	}
	n, ok := fg.Node(id)
	if !ok {
		return FunctionNode{}, false
	}
	return graph.TryAsNode(n, FunctionNodeClass)
}

// HasFunction reports whether GetFunction(name) succeeds. A registry key
// alone is not enough; the node must still exist and be a FunctionNode.
func (fg FlowGraph) HasFunction(name string) bool {
	_, ok := fg.GetFunction(name)
	return ok
}

// Functions returns the live functions in registration order. Names the
// registry holds without an order entry come last, sorted. Stale registry
// entries are skipped but left in place.
func (fg FlowGraph) Functions() graph.Collection[FunctionNode] {
	rec := fg.record()
	if rec == nil {
		return graph.Collection[FunctionNode]{}
	}
	var fns []FunctionNode
	for _, name := range rec.names() {
		if fn, ok := fg.GetFunction(name); ok {
			fns = append(fns, fn)
		}
	}
	return graph.NewCollection(fns...)
}

// FunctionNames returns the names that currently resolve, sorted.
func (fg FlowGraph) FunctionNames() []string {
	rec := fg.record()
	if rec == nil {
		return nil
	}
	var names []string
	for _, name := range slices.Sorted(maps.Keys(rec.Functions)) {
		if fg.HasFunction(name) {
			names = append(names, name)
		}
	}
	return names
}

// RemoveFunction drops name from the registry and reports whether it was
// registered. The node itself is left untouched.
func (fg FlowGraph) RemoveFunction(name string) bool {
	rec := fg.record()
	if rec == nil {
		return false
	}
	if _, ok := rec.Functions[name]; !ok {
		return false
	}
	delete(rec.Functions, name)
	rec.Order = slices.DeleteFunc(rec.Order, func(s string) bool { return s == name })
	return true
}

// ControlFlowNodes returns every control-flow node in the graph, across
// all functions.
func (fg FlowGraph) ControlFlowNodes() graph.Collection[ControlFlowNode] {
	return graph.AsNodes(fg.Nodes(), ControlFlowNodeClass)
}

// ControlFlowEdges returns every control-flow edge in the graph.
func (fg FlowGraph) ControlFlowEdges() graph.Collection[ControlFlowEdge] {
	return graph.AsEdges(fg.Edges(), ControlFlowEdgeClass)
}

// Connect adds a control-flow edge of the given kind between two nodes of
// this graph.
func (fg FlowGraph) Connect(from, to graph.NodeElement, kind EdgeKind) (ControlFlowEdge, error) {
	if !kind.Valid() {
		return ControlFlowEdge{}, errors.New(errors.ErrCodeInvalidInput, "invalid control flow edge kind %q", kind)
	}
	e, err := fg.AddEdge(from.Base(), to.Base())
	if err != nil {
		return ControlFlowEdge{}, err
	}
	return graph.InitEdge(e, NewControlFlowEdgeBuilder(kind)), nil
}
