package flow

import (
	"maps"

	"github.com/matzehuels/flowgraph/pkg/graph"
)

// Data tag and record version of the FunctionNode record.
const (
	FunctionNodeTag     = "__flow__function_node"
	FunctionNodeVersion = "1"
)

// FunctionNodeRecord is the record of a FunctionNode.
type FunctionNodeRecord struct {
	Version string `json:"version" msgpack:"version"`
	Name    string `json:"name" msgpack:"name"`
}

// RecordVersion implements graph.Record.
func (r *FunctionNodeRecord) RecordVersion() string { return r.Version }

// FunctionNode represents a function. Its body is the set of control-flow
// nodes whose owning function is this node.
type FunctionNode struct {
	graph.Node
}

// FunctionNodeClass matches nodes carrying a FunctionNode record.
var FunctionNodeClass = graph.NewNodeClass("FunctionNode",
	graph.NewTypedTagGuard[*FunctionNodeRecord](FunctionNodeTag, FunctionNodeVersion, nil),
	func(n graph.Node) FunctionNode { return FunctionNode{n} })

// FunctionNodeBuilder builds a FunctionNode. Use [FlowGraph.AddFunction]
// instead of applying it directly so that the registry stays in sync.
type FunctionNodeBuilder struct {
	name string
}

// NewFunctionNodeBuilder returns a builder for a function called name.
func NewFunctionNodeBuilder(name string) FunctionNodeBuilder {
	return FunctionNodeBuilder{name: name}
}

// BuildData writes the FunctionNode record.
func (b FunctionNodeBuilder) BuildData(data graph.Data) graph.Data {
	return graph.Extend(data, FunctionNodeTag, &FunctionNodeRecord{
		Version: FunctionNodeVersion,
		Name:    b.name,
	})
}

// BuildScratchData copies scratch unchanged.
func (b FunctionNodeBuilder) BuildScratchData(scratch graph.Data) graph.Data {
	return maps.Clone(scratch)
}

// NodeClass returns FunctionNodeClass.
func (b FunctionNodeBuilder) NodeClass() graph.NodeClass[FunctionNode] { return FunctionNodeClass }

// Name returns the name the function was registered under.
func (f FunctionNode) Name() string {
	if r, ok := graph.RecordOf[*FunctionNodeRecord](f.Data(), FunctionNodeTag); ok {
		return r.Name
	}
	return ""
}

// FlowGraph returns the owning graph as a FlowGraph, if it is one.
func (f FunctionNode) FlowGraph() (FlowGraph, bool) {
	if f.Graph() == nil {
		return FlowGraph{}, false
	}
	return graph.TryAsGraph(f.Graph(), FlowGraphClass)
}

// ControlFlowNodes returns the control-flow nodes owned by this function,
// in graph insertion order.
func (f FunctionNode) ControlFlowNodes() graph.Collection[ControlFlowNode] {
	if f.Graph() == nil {
		return graph.Collection[ControlFlowNode]{}
	}
	return graph.AsNodes(f.Graph().Nodes(), ControlFlowNodeClass).Filter(func(c ControlFlowNode) bool {
		return c.FunctionID() == f.ID()
	})
}

// EndNode returns the function's ControlFlowEndNode. If several exist, the
// first one added wins.
func (f FunctionNode) EndNode() (ControlFlowEndNode, bool) {
	return graph.AsNodes(f.ControlFlowNodes(), ControlFlowEndNodeClass).First()
}

// Exits returns the function's control-flow nodes that have no outgoing
// control-flow edges. Every such node exits the function, whether or not
// it is tagged as an end node.
func (f FunctionNode) Exits() graph.Collection[ControlFlowNode] {
	return f.ControlFlowNodes().Filter(ControlFlowNode.IsExit)
}
