package dot

import (
	"bytes"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/flowgraph/pkg/graph"
)

// DefaultGraphName is used when Format is called without a name.
const DefaultGraphName = "flow_graph"

// Attrs holds DOT attributes of one element.
type Attrs map[string]string

// Node is the formatted form of a graph node.
type Node struct {
	ID    string
	Attrs Attrs
}

// Edge is the formatted form of a graph edge.
type Edge struct {
	Source string
	Target string
	Attrs  Attrs
}

// Formatter decides how nodes and edges look. Node attributes should
// include at least "label" and "shape".
type Formatter interface {
	FormatNode(n graph.Node) Node
	FormatEdge(e graph.Edge) Edge
}

// Options configures the digraph header.
type Options struct {
	// Name is the digraph name. Empty means DefaultGraphName.
	Name string
	// RankDir sets the layout direction (TB, LR, BT, RL). Empty omits it.
	RankDir string
}

// Format renders every node and edge of g with f as a DOT digraph named
// name, or DefaultGraphName if name is empty.
func Format(g *graph.Graph, f Formatter, name string) string {
	return FormatOptions(g, f, Options{Name: name})
}

// FormatOptions is Format with header options.
func FormatOptions(g *graph.Graph, f Formatter, opts Options) string {
	name := opts.Name
	if name == "" {
		name = DefaultGraphName
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", graphID(name))
	if opts.RankDir != "" {
		fmt.Fprintf(&buf, "rankdir=%s;\n", quote(opts.RankDir))
	}
	for n := range g.Nodes().All() {
		fn := f.FormatNode(n)
		fmt.Fprintf(&buf, "%s [%s];\n", quote(fn.ID), formatAttrs(fn.Attrs))
	}
	for e := range g.Edges().All() {
		fe := f.FormatEdge(e)
		fmt.Fprintf(&buf, "%s -> %s [%s];\n", quote(fe.Source), quote(fe.Target), formatAttrs(fe.Attrs))
	}
	buf.WriteString("}\n")
	return buf.String()
}

var idRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func graphID(name string) string {
	if idRe.MatchString(name) {
		return name
	}
	return quote(name)
}

var sanitizer = strings.NewReplacer(`"`, `\"`, "\r\n", `\n`, "\n", `\n`)

// Escape makes s safe inside a double-quoted DOT string.
func Escape(s string) string { return sanitizer.Replace(s) }

func quote(s string) string { return `"` + Escape(s) + `"` }

func formatAttrs(attrs Attrs) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	return strings.Join(parts, " ")
}
