package flow

import (
	"maps"

	"github.com/matzehuels/flowgraph/pkg/graph"
)

// Data tag and record version of the ControlFlowEdge record.
const (
	ControlFlowEdgeTag     = "__flow__control_flow_edge"
	ControlFlowEdgeVersion = "1"
)

// EdgeKind classifies a control-flow edge.
type EdgeKind string

// Control-flow edge kinds.
const (
	EdgeUnconditional EdgeKind = "unconditional" // Fallthrough or jump
	EdgeTrue          EdgeKind = "true"          // Condition holds
	EdgeFalse         EdgeKind = "false"         // Condition fails
	EdgeBack          EdgeKind = "back_edge"     // Loop continuation
	EdgeBreak         EdgeKind = "break"         // Break out of a loop or switch
	EdgeContinue      EdgeKind = "continue"      // Continue to the next iteration
)

// EdgeKinds lists every valid EdgeKind.
var EdgeKinds = []EdgeKind{EdgeUnconditional, EdgeTrue, EdgeFalse, EdgeBack, EdgeBreak, EdgeContinue}

// Valid reports whether k is one of the defined kinds.
func (k EdgeKind) Valid() bool {
	switch k {
	case EdgeUnconditional, EdgeTrue, EdgeFalse, EdgeBack, EdgeBreak, EdgeContinue:
		return true
	}
	return false
}

// ControlFlowEdgeRecord is the record of a ControlFlowEdge.
type ControlFlowEdgeRecord struct {
	Version string   `json:"version" msgpack:"version"`
	Kind    EdgeKind `json:"kind" msgpack:"kind"`
}

// RecordVersion implements graph.Record.
func (r *ControlFlowEdgeRecord) RecordVersion() string { return r.Version }

// ControlFlowEdge is a transfer of control between two control-flow nodes.
type ControlFlowEdge struct {
	graph.Edge
}

// ControlFlowEdgeClass matches edges carrying a ControlFlowEdge record
// of a valid kind.
var ControlFlowEdgeClass = graph.NewEdgeClass("ControlFlowEdge",
	graph.AllGuards(
		graph.NewTypedTagGuard[*ControlFlowEdgeRecord](ControlFlowEdgeTag, ControlFlowEdgeVersion, nil),
		graph.DataCheck(func(data graph.Data) bool {
			r, ok := graph.RecordOf[*ControlFlowEdgeRecord](data, ControlFlowEdgeTag)
			return ok && r.Kind.Valid()
		}),
	),
	func(e graph.Edge) ControlFlowEdge { return ControlFlowEdge{e} })

// ControlFlowEdgeBuilder builds a ControlFlowEdge of one kind.
type ControlFlowEdgeBuilder struct {
	kind EdgeKind
}

// NewControlFlowEdgeBuilder returns a builder for edges of the given kind.
func NewControlFlowEdgeBuilder(kind EdgeKind) ControlFlowEdgeBuilder {
	return ControlFlowEdgeBuilder{kind: kind}
}

// BuildData writes the ControlFlowEdge record.
func (b ControlFlowEdgeBuilder) BuildData(data graph.Data) graph.Data {
	return graph.Extend(data, ControlFlowEdgeTag, &ControlFlowEdgeRecord{
		Version: ControlFlowEdgeVersion,
		Kind:    b.kind,
	})
}

// BuildScratchData copies scratch unchanged.
func (b ControlFlowEdgeBuilder) BuildScratchData(scratch graph.Data) graph.Data {
	return maps.Clone(scratch)
}

// EdgeClass returns ControlFlowEdgeClass.
func (b ControlFlowEdgeBuilder) EdgeClass() graph.EdgeClass[ControlFlowEdge] {
	return ControlFlowEdgeClass
}

// Kind returns the edge kind.
func (e ControlFlowEdge) Kind() EdgeKind {
	if r, ok := graph.RecordOf[*ControlFlowEdgeRecord](e.Data(), ControlFlowEdgeTag); ok {
		return r.Kind
	}
	return ""
}

// From returns the source as a ControlFlowNode, if it is one.
func (e ControlFlowEdge) From() (ControlFlowNode, bool) {
	return graph.TryAsNode(e.Source(), ControlFlowNodeClass)
}

// To returns the target as a ControlFlowNode, if it is one.
func (e ControlFlowEdge) To() (ControlFlowNode, bool) {
	return graph.TryAsNode(e.Target(), ControlFlowNodeClass)
}
