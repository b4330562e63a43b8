package dot

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/flow/instruction"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

// FlowFormatter formats the views of package flow.
//
// Labels of nodes whose source reference implements fmt.Stringer show the
// source text; other nodes show their view name or kind.
type FlowFormatter struct {
	// Detailed appends the node ID and its tags to each label.
	Detailed bool
	// MaxLabel truncates source text labels to this many runes. Zero
	// means 60; a negative value disables truncation.
	MaxLabel int
}

// FormatNode implements Formatter.
func (f FlowFormatter) FormatNode(n graph.Node) Node {
	label, shape := f.describe(n)
	attrs := Attrs{"label": label, "shape": shape}
	switch {
	case n.Is(flow.FunctionNodeClass):
		attrs["style"] = "filled"
		attrs["fillcolor"] = "lightblue"
	case n.Is(flow.ControlFlowEndNodeClass):
		attrs["style"] = "filled"
		attrs["fillcolor"] = "lightgrey"
	}
	if f.Detailed {
		attrs["label"] = label + "\n" + detail(n)
	}
	return Node{ID: n.ID(), Attrs: attrs}
}

func (f FlowFormatter) describe(n graph.Node) (label, shape string) {
	if fn, ok := graph.TryAsNode(n, flow.FunctionNodeClass); ok {
		return "function " + fn.Name(), "doubleoctagon"
	}
	if in, ok := graph.TryAsNode(n, instruction.Class); ok {
		switch in.Kind() {
		case instruction.FunctionEntry:
			return "entry", "oval"
		case instruction.FunctionExit:
			return "exit", "oval"
		case instruction.ScopeStart:
			return "{", "circle"
		case instruction.ScopeEnd:
			return "}", "circle"
		case instruction.Comment:
			return f.sourceLabel(in.Source(), "comment"), "note"
		default:
			return f.sourceLabel(in.Source(), string(in.Kind())), "box"
		}
	}
	if fl, ok := graph.TryAsNode(n, flow.FlowNodeClass); ok {
		switch fl.Kind() {
		case flow.KindCondition:
			return f.sourceLabel(fl.Source(), "condition"), "diamond"
		case flow.KindLoop:
			return f.sourceLabel(fl.Source(), "loop"), "hexagon"
		}
	}
	if n.Is(flow.ControlFlowEndNodeClass) {
		return "end", "doublecircle"
	}
	if c, ok := graph.TryAsNode(n, flow.ControlFlowNodeClass); ok {
		return f.sourceLabel(c.Source(), c.ID()), "box"
	}
	return n.ID(), "box"
}

func (f FlowFormatter) sourceLabel(source any, fallback string) string {
	s, ok := source.(fmt.Stringer)
	if !ok {
		return fallback
	}
	text := strings.TrimSpace(s.String())
	if text == "" {
		return fallback
	}
	limit := f.MaxLabel
	if limit == 0 {
		limit = 60
	}
	if r := []rune(text); limit > 0 && len(r) > limit {
		text = string(r[:limit]) + "..."
	}
	return text
}

func detail(n graph.Node) string {
	tags := slices.Sorted(maps.Keys(n.Data()))
	return n.ID() + "\n" + strings.Join(tags, "\n")
}

// FormatEdge implements Formatter. Control-flow edges are labeled with
// their kind unless unconditional; other edges are drawn dashed.
func (f FlowFormatter) FormatEdge(e graph.Edge) Edge {
	out := Edge{Source: e.Source().ID(), Target: e.Target().ID(), Attrs: Attrs{}}
	cf, ok := graph.TryAsEdge(e, flow.ControlFlowEdgeClass)
	if !ok {
		out.Attrs["style"] = "dashed"
		return out
	}
	switch cf.Kind() {
	case flow.EdgeTrue:
		out.Attrs["label"] = "true"
		out.Attrs["color"] = "darkgreen"
	case flow.EdgeFalse:
		out.Attrs["label"] = "false"
		out.Attrs["color"] = "red"
	case flow.EdgeBack:
		out.Attrs["label"] = "back"
		out.Attrs["style"] = "dashed"
	case flow.EdgeBreak, flow.EdgeContinue:
		out.Attrs["label"] = string(cf.Kind())
		out.Attrs["style"] = "dotted"
	}
	return out
}
