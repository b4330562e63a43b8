package flow

import "github.com/matzehuels/flowgraph/pkg/graph"

// Data tag and record version of the FlowNode record.
const (
	FlowNodeTag     = "__flow__flow_node"
	FlowNodeVersion = "1"
)

// FlowNodeKind is the general classification of a FlowNode. Views that
// extend FlowNode refine one of these kinds.
type FlowNodeKind string

// General FlowNode kinds.
const (
	KindInstruction FlowNodeKind = "instruction"
	KindCondition   FlowNodeKind = "condition"
	KindLoop        FlowNodeKind = "loop"
)

// Valid reports whether k is one of the defined kinds.
func (k FlowNodeKind) Valid() bool {
	switch k {
	case KindInstruction, KindCondition, KindLoop:
		return true
	}
	return false
}

// FlowNodeRecord is the record of a FlowNode.
type FlowNodeRecord struct {
	Version string       `json:"version" msgpack:"version"`
	Kind    FlowNodeKind `json:"kind" msgpack:"kind"`
}

// RecordVersion implements graph.Record.
func (r *FlowNodeRecord) RecordVersion() string { return r.Version }

// FlowNode is a node wrapping one source construct, classified by kind.
type FlowNode struct {
	graph.Node
}

// FlowNodeClass matches nodes carrying a FlowNode record of a valid kind.
var FlowNodeClass = graph.NewNodeClass("FlowNode",
	graph.AllGuards(
		graph.NewTypedTagGuard[*FlowNodeRecord](FlowNodeTag, FlowNodeVersion, nil),
		graph.DataCheck(func(data graph.Data) bool {
			r, ok := graph.RecordOf[*FlowNodeRecord](data, FlowNodeTag)
			return ok && r.Kind.Valid()
		}),
	),
	func(n graph.Node) FlowNode { return FlowNode{n} })

// FlowNodeBuilder builds a FlowNode of one general kind around an opaque
// source reference.
type FlowNodeBuilder struct {
	source any
	kind   FlowNodeKind
}

// NewFlowNodeBuilder returns a builder for a FlowNode of the given kind.
func NewFlowNodeBuilder(source any, kind FlowNodeKind) FlowNodeBuilder {
	return FlowNodeBuilder{source: source, kind: kind}
}

// BuildData writes the FlowNode record.
func (b FlowNodeBuilder) BuildData(data graph.Data) graph.Data {
	return graph.Extend(data, FlowNodeTag, &FlowNodeRecord{
		Version: FlowNodeVersion,
		Kind:    b.kind,
	})
}

// BuildScratchData stores the source reference.
func (b FlowNodeBuilder) BuildScratchData(scratch graph.Data) graph.Data {
	return withSource(scratch, FlowNodeTag, b.source)
}

// NodeClass returns FlowNodeClass.
func (b FlowNodeBuilder) NodeClass() graph.NodeClass[FlowNode] { return FlowNodeClass }

// Kind returns the general kind.
func (f FlowNode) Kind() FlowNodeKind {
	if r, ok := graph.RecordOf[*FlowNodeRecord](f.Data(), FlowNodeTag); ok {
		return r.Kind
	}
	return ""
}

// Source returns the opaque source reference, or nil if none was given.
func (f FlowNode) Source() any {
	return f.ScratchData()[FlowNodeTag]
}
