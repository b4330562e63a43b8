// Package dot renders graphs as Graphviz DOT text and SVG.
//
// # Overview
//
// Rendering is a presentation layer over the generic graph. A [Formatter]
// turns each node and edge into an ID plus attribute pairs, and [Format]
// assembles them into a digraph:
//
//	text := dot.Format(g, dot.FlowFormatter{}, "main")
//	svg, err := dot.RenderSVG(ctx, text)
//
// [FlowFormatter] knows the flow views: functions, control-flow end nodes,
// instruction kinds, condition and loop nodes, and control-flow edge kinds.
// Elements it does not recognize fall back to their ID as label.
//
// # Escaping
//
// Attribute values are always double-quoted. Double quotes inside values
// are escaped and newlines become the DOT "\n" escape, so labels may carry
// arbitrary source text. Attributes are emitted in sorted key order so the
// output is deterministic.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package dot
