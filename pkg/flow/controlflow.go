package flow

import (
	"maps"

	"github.com/matzehuels/flowgraph/pkg/graph"
)

// Data tags and record versions of the control-flow node records.
const (
	ControlFlowNodeTag     = "__flow__control_flow_node"
	ControlFlowNodeVersion = "1"

	ControlFlowEndNodeTag     = "__flow__control_flow_end_node"
	ControlFlowEndNodeVersion = "1"
)

// ControlFlowNodeRecord is the record of a ControlFlowNode.
type ControlFlowNodeRecord struct {
	Version string `json:"version" msgpack:"version"`
	// Function is the ID of the owning FunctionNode.
	Function string `json:"function" msgpack:"function"`
}

// RecordVersion implements graph.Record.
func (r *ControlFlowNodeRecord) RecordVersion() string { return r.Version }

// ControlFlowNode is a node in a function's control-flow subgraph.
type ControlFlowNode struct {
	graph.Node
}

// ControlFlowNodeClass matches nodes carrying a ControlFlowNode record.
var ControlFlowNodeClass = graph.NewNodeClass("ControlFlowNode",
	graph.NewTypedTagGuard[*ControlFlowNodeRecord](ControlFlowNodeTag, ControlFlowNodeVersion, nil),
	func(n graph.Node) ControlFlowNode { return ControlFlowNode{n} })

// ControlFlowNodeBuilder builds a ControlFlowNode owned by a function. The
// source reference is stored in scratch data and returned untouched by
// [ControlFlowNode.Source].
type ControlFlowNodeBuilder struct {
	function string
	source   any
}

// NewControlFlowNodeBuilder returns a builder for a node owned by fn.
func NewControlFlowNodeBuilder(fn FunctionNode, source any) ControlFlowNodeBuilder {
	return ControlFlowNodeBuilder{function: fn.ID(), source: source}
}

// BuildData writes the ControlFlowNode record.
func (b ControlFlowNodeBuilder) BuildData(data graph.Data) graph.Data {
	return graph.Extend(data, ControlFlowNodeTag, &ControlFlowNodeRecord{
		Version:  ControlFlowNodeVersion,
		Function: b.function,
	})
}

// BuildScratchData stores the source reference.
func (b ControlFlowNodeBuilder) BuildScratchData(scratch graph.Data) graph.Data {
	return withSource(scratch, ControlFlowNodeTag, b.source)
}

// NodeClass returns ControlFlowNodeClass.
func (b ControlFlowNodeBuilder) NodeClass() graph.NodeClass[ControlFlowNode] {
	return ControlFlowNodeClass
}

// FunctionID returns the ID of the owning function node.
func (c ControlFlowNode) FunctionID() string {
	if r, ok := graph.RecordOf[*ControlFlowNodeRecord](c.Data(), ControlFlowNodeTag); ok {
		return r.Function
	}
	return ""
}

// Function resolves the owning function. It reports false if that node
// was removed or is no longer a FunctionNode.
func (c ControlFlowNode) Function() (FunctionNode, bool) {
	if c.Graph() == nil {
		return FunctionNode{}, false
	}
	n, ok := c.Graph().Node(c.FunctionID())
	if !ok {
		return FunctionNode{}, false
	}
	return graph.TryAsNode(n, FunctionNodeClass)
}

// Source returns the opaque source reference, or nil if none was given.
func (c ControlFlowNode) Source() any {
	return c.ScratchData()[ControlFlowNodeTag]
}

// ControlFlowEdges returns the outgoing control-flow edges.
func (c ControlFlowNode) ControlFlowEdges() graph.Collection[ControlFlowEdge] {
	return graph.AsEdges(c.Outgoing(), ControlFlowEdgeClass)
}

// ControlFlowSuccessors returns the control-flow nodes reached by an
// outgoing control-flow edge.
func (c ControlFlowNode) ControlFlowSuccessors() graph.Collection[ControlFlowNode] {
	targets := graph.Map(c.ControlFlowEdges(), func(e ControlFlowEdge) graph.Node { return e.Target() })
	return graph.AsNodes(targets, ControlFlowNodeClass)
}

// ControlFlowPredecessors returns the control-flow nodes with a
// control-flow edge into this node.
func (c ControlFlowNode) ControlFlowPredecessors() graph.Collection[ControlFlowNode] {
	incoming := graph.AsEdges(c.Incoming(), ControlFlowEdgeClass)
	sources := graph.Map(incoming, func(e ControlFlowEdge) graph.Node { return e.Source() })
	return graph.AsNodes(sources, ControlFlowNodeClass)
}

// IsExit reports whether the node has no outgoing control-flow edges.
func (c ControlFlowNode) IsExit() bool {
	return c.ControlFlowEdges().IsEmpty()
}

// ControlFlowEndNodeRecord marks the canonical end of a function.
type ControlFlowEndNodeRecord struct {
	Version string `json:"version" msgpack:"version"`
}

// RecordVersion implements graph.Record.
func (r *ControlFlowEndNodeRecord) RecordVersion() string { return r.Version }

// ControlFlowEndNode is the canonical exit of a function. Nothing enforces
// its edge cardinality. By convention a function has exactly one, and
// every node that leaves the function is connected to it.
type ControlFlowEndNode struct {
	ControlFlowNode
}

// ControlFlowEndNodeClass matches control-flow nodes that also carry
// an end record.
var ControlFlowEndNodeClass = graph.NewNodeClass("ControlFlowEndNode",
	graph.NewTypedTagGuard[*ControlFlowEndNodeRecord](ControlFlowEndNodeTag, ControlFlowEndNodeVersion, ControlFlowNodeClass),
	func(n graph.Node) ControlFlowEndNode { return ControlFlowEndNode{ControlFlowNode{n}} })

// ControlFlowEndNodeBuilder builds a ControlFlowEndNode, writing the
// ControlFlowNode record first.
type ControlFlowEndNodeBuilder struct {
	parent ControlFlowNodeBuilder
}

// NewControlFlowEndNodeBuilder returns a builder for the end node of fn.
func NewControlFlowEndNodeBuilder(fn FunctionNode, source any) ControlFlowEndNodeBuilder {
	return ControlFlowEndNodeBuilder{parent: NewControlFlowNodeBuilder(fn, source)}
}

// BuildData writes the ControlFlowNode record and then the end record.
func (b ControlFlowEndNodeBuilder) BuildData(data graph.Data) graph.Data {
	return graph.Extend(b.parent.BuildData(data), ControlFlowEndNodeTag, &ControlFlowEndNodeRecord{
		Version: ControlFlowEndNodeVersion,
	})
}

// BuildScratchData stores the source reference.
func (b ControlFlowEndNodeBuilder) BuildScratchData(scratch graph.Data) graph.Data {
	return b.parent.BuildScratchData(scratch)
}

// NodeClass returns ControlFlowEndNodeClass.
func (b ControlFlowEndNodeBuilder) NodeClass() graph.NodeClass[ControlFlowEndNode] {
	return ControlFlowEndNodeClass
}

// withSource returns a copy of scratch with source stored under tag. A nil
// source leaves any previous entry in place.
func withSource(scratch graph.Data, tag string, source any) graph.Data {
	out := maps.Clone(scratch)
	if out == nil {
		out = graph.Data{}
	}
	if source != nil {
		out[tag] = source
	}
	return out
}
