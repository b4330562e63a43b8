// Package instruction refines flow nodes of kind instruction into
// structural instruction kinds.
//
// Classification has two tiers. A node is first a [flow.FlowNode] whose
// general kind is [flow.KindInstruction]; only then may it carry an
// instruction [Kind]. The guard rejects an instruction record on a flow
// node of any other general kind.
package instruction

import (
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

// Data tag and record version of the instruction record.
const (
	Tag     = "__flow__instruction_node"
	Version = "1"
)

// Kind is the structural kind of an instruction.
type Kind string

// Instruction kinds.
const (
	FunctionEntry Kind = "function_entry"
	FunctionExit  Kind = "function_exit"
	ScopeStart    Kind = "scope_start"
	ScopeEnd      Kind = "scope_end"
	Statement     Kind = "statement"
	Comment       Kind = "comment"
)

// Kinds lists every valid Kind.
var Kinds = []Kind{FunctionEntry, FunctionExit, ScopeStart, ScopeEnd, Statement, Comment}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	switch k {
	case FunctionEntry, FunctionExit, ScopeStart, ScopeEnd, Statement, Comment:
		return true
	}
	return false
}

// Record is the instruction record stored next to the FlowNode record.
type Record struct {
	Version string `json:"version" msgpack:"version"`
	Kind    Kind   `json:"kind" msgpack:"kind"`
}

// RecordVersion implements graph.Record.
func (r *Record) RecordVersion() string { return r.Version }

// Node is a FlowNode of general kind instruction.
type Node struct {
	flow.FlowNode
}

// Class matches flow nodes of kind instruction that carry a valid
// instruction record.
var Class = graph.NewNodeClass("InstructionNode",
	graph.AllGuards(
		graph.NewTypedTagGuard[*Record](Tag, Version, flow.FlowNodeClass),
		graph.DataCheck(isInstruction),
	),
	func(n graph.Node) Node { return Node{flow.FlowNode{Node: n}} })

func isInstruction(data graph.Data) bool {
	fr, ok := graph.RecordOf[*flow.FlowNodeRecord](data, flow.FlowNodeTag)
	if !ok || fr.Kind != flow.KindInstruction {
		return false
	}
	r, ok := graph.RecordOf[*Record](data, Tag)
	return ok && r.Kind.Valid()
}

// Builder builds an instruction node, writing a FlowNode record of kind
// instruction first.
type Builder struct {
	parent flow.FlowNodeBuilder
	kind   Kind
}

// NewBuilder returns a builder for an instruction of the given kind around
// an opaque source reference. An invalid kind yields data the guard
// rejects, so [graph.InitNode] panics on it.
func NewBuilder(source any, kind Kind) Builder {
	return Builder{parent: flow.NewFlowNodeBuilder(source, flow.KindInstruction), kind: kind}
}

// BuildData writes the FlowNode record and then the instruction record.
func (b Builder) BuildData(data graph.Data) graph.Data {
	return graph.Extend(b.parent.BuildData(data), Tag, &Record{Version: Version, Kind: b.kind})
}

// BuildScratchData stores the source reference.
func (b Builder) BuildScratchData(scratch graph.Data) graph.Data {
	return b.parent.BuildScratchData(scratch)
}

// NodeClass returns Class.
func (b Builder) NodeClass() graph.NodeClass[Node] { return Class }

// Kind returns the instruction kind.
func (n Node) Kind() Kind {
	if r, ok := graph.RecordOf[*Record](n.Data(), Tag); ok {
		return r.Kind
	}
	return ""
}

// FlowKind returns the general FlowNode kind, which is always
// flow.KindInstruction for a valid instruction node.
func (n Node) FlowKind() flow.FlowNodeKind { return n.FlowNode.Kind() }

func init() {
	graph.RegisterRecord(Tag, func() graph.Record { return &Record{} })
}
