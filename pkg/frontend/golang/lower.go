package golang

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/flow/instruction"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

// exit is a dangling control-flow edge waiting for its target.
type exit struct {
	from graph.Node
	kind flow.EdgeKind
}

func fallsFrom(n graph.Node) []exit { return []exit{{n, flow.EdgeUnconditional}} }

// frame is an enclosing statement that break, and for loops continue,
// can leave.
type frame struct {
	label     string
	loop      bool
	breaks    []exit
	continues []exit
}

type pendingGoto struct {
	from  graph.Node
	label string
}

type lowerer struct {
	fg   flow.FlowGraph
	fn   flow.FunctionNode
	end  graph.Node
	src  []byte
	opts Options

	frames []*frame
	labels map[string]graph.Node
	gotos  []pendingGoto
	err    error
}

func lowerFunction(fg flow.FlowGraph, decl *sitter.Node, src []byte, opts Options) error {
	name := uniqueName(fg, functionName(decl, src))
	fn, err := fg.AddFunction(name)
	if err != nil {
		return fmt.Errorf("function %s: %w", name, err)
	}
	l := &lowerer{fg: fg, fn: fn, src: src, opts: opts, labels: map[string]graph.Node{}}

	entry := l.instruction(l.ref(decl, "func "+name), instruction.FunctionEntry)

	endRef := l.closingRef(decl, "end "+name)
	l.end = fg.AddNode()
	graph.InitNode(l.end, instruction.NewBuilder(endRef, instruction.FunctionExit))
	graph.InitNode(l.end, flow.NewControlFlowEndNodeBuilder(fn, endRef))

	out := fallsFrom(entry)
	if body := decl.ChildByFieldName("body"); body != nil {
		out = l.lowerList(statements(body), out)
	}
	l.connect(out, l.end)
	l.resolveGotos()

	if l.err != nil {
		return fmt.Errorf("function %s: %w", name, l.err)
	}
	if lg := opts.Logger; lg != nil {
		lg.Debug("lowered function", "name", name, "nodes", fn.ControlFlowNodes().Len())
	}
	return nil
}

func functionName(decl *sitter.Node, src []byte) string {
	name := decl.ChildByFieldName("name").Content(src)
	if decl.Type() != "method_declaration" {
		return name
	}
	if recv := receiverType(decl.ChildByFieldName("receiver"), src); recv != "" {
		return recv + "." + name
	}
	return name
}

func uniqueName(fg flow.FlowGraph, name string) string {
	if !fg.HasFunction(name) {
		return name
	}
	for i := 2; ; i++ {
		if c := fmt.Sprintf("%s#%d", name, i); !fg.HasFunction(c) {
			return c
		}
	}
}

func (l *lowerer) ref(n *sitter.Node, text string) SourceRef {
	return SourceRef{
		File:      l.opts.File,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		Text:      text,
	}
}

// closingRef points at the last byte of n, the closing brace of a block.
func (l *lowerer) closingRef(n *sitter.Node, text string) SourceRef {
	line := int(n.EndPoint().Row) + 1
	end := int(n.EndByte())
	return SourceRef{File: l.opts.File, StartLine: line, EndLine: line, StartByte: max(end-1, 0), EndByte: end, Text: text}
}

func (l *lowerer) instruction(ref SourceRef, kind instruction.Kind) graph.Node {
	n := l.fg.AddNode()
	graph.InitNode(n, instruction.NewBuilder(ref, kind))
	graph.InitNode(n, flow.NewControlFlowNodeBuilder(l.fn, ref))
	return n
}

func (l *lowerer) flowNode(ref SourceRef, kind flow.FlowNodeKind) graph.Node {
	n := l.fg.AddNode()
	graph.InitNode(n, flow.NewFlowNodeBuilder(ref, kind))
	graph.InitNode(n, flow.NewControlFlowNodeBuilder(l.fn, ref))
	return n
}

func (l *lowerer) statement(s *sitter.Node, in []exit) graph.Node {
	n := l.instruction(l.ref(s, collapse(s.Content(l.src))), instruction.Statement)
	l.connect(in, n)
	return n
}

func (l *lowerer) connect(in []exit, to graph.Node) {
	for _, e := range in {
		if _, err := l.fg.Connect(e.from, to, e.kind); err != nil && l.err == nil {
			l.err = err
		}
	}
}

func (l *lowerer) debug(msg string, kv ...any) {
	if l.opts.Logger != nil {
		l.opts.Logger.Debug(msg, append([]any{"function", l.fn.Name()}, kv...)...)
	}
}

func (l *lowerer) lowerList(stmts []*sitter.Node, in []exit) []exit {
	for _, s := range stmts {
		_, in = l.lower(s, in)
	}
	return in
}

// lower adds the nodes of one statement, wiring in to its first node. It
// returns that first node, or the zero Node if the statement produced
// none, and the edges leaving the statement.
func (l *lowerer) lower(s *sitter.Node, in []exit) (graph.Node, []exit) {
	switch s.Type() {
	case "comment":
		if !l.opts.IncludeComments {
			return graph.Node{}, in
		}
		n := l.instruction(l.ref(s, collapse(s.Content(l.src))), instruction.Comment)
		l.connect(in, n)
		return n, fallsFrom(n)

	case "empty_statement":
		return graph.Node{}, in

	case "block":
		return l.lowerScope(s, "{", statements(s), in)

	case "if_statement":
		return l.lowerIf(s, in)

	case "for_statement":
		return l.lowerFor(s, "", in)

	case "expression_switch_statement", "type_switch_statement", "select_statement":
		return l.lowerCases(s, "", in)

	case "labeled_statement":
		return l.lowerLabeled(s, in)

	case "return_statement":
		n := l.statement(s, in)
		l.connect(fallsFrom(n), l.end)
		return n, nil

	case "break_statement":
		n := l.statement(s, in)
		if f := l.target(labelName(s, l.src), false); f != nil {
			f.breaks = append(f.breaks, exit{n, flow.EdgeBreak})
		} else {
			l.debug("break outside of a breakable statement", "line", s.StartPoint().Row+1)
		}
		return n, nil

	case "continue_statement":
		n := l.statement(s, in)
		if f := l.target(labelName(s, l.src), true); f != nil {
			f.continues = append(f.continues, exit{n, flow.EdgeContinue})
		} else {
			l.debug("continue outside of a loop", "line", s.StartPoint().Row+1)
		}
		return n, nil

	case "goto_statement":
		n := l.statement(s, in)
		l.gotos = append(l.gotos, pendingGoto{from: n, label: labelName(s, l.src)})
		return n, nil

	default:
		n := l.statement(s, in)
		return n, fallsFrom(n)
	}
}

// lowerScope brackets stmts with scope_start and scope_end. The end node
// is only added when control can reach it.
func (l *lowerer) lowerScope(n *sitter.Node, text string, stmts []*sitter.Node, in []exit) (graph.Node, []exit) {
	start := l.instruction(l.ref(n, text), instruction.ScopeStart)
	l.connect(in, start)
	out := l.lowerList(stmts, fallsFrom(start))
	if len(out) == 0 {
		return start, nil
	}
	end := l.instruction(l.closingRef(n, "}"), instruction.ScopeEnd)
	l.connect(out, end)
	return start, fallsFrom(end)
}

func (l *lowerer) lowerIf(s *sitter.Node, in []exit) (graph.Node, []exit) {
	var head graph.Node
	if init := s.ChildByFieldName("initializer"); init != nil {
		head, in = l.lower(init, in)
	}

	text, at := "if", s
	if cond := s.ChildByFieldName("condition"); cond != nil {
		text, at = "if "+collapse(cond.Content(l.src)), cond
	}
	c := l.flowNode(l.ref(at, text), flow.KindCondition)
	l.connect(in, c)
	if head == (graph.Node{}) {
		head = c
	}

	var out []exit
	if cons := s.ChildByFieldName("consequence"); cons != nil {
		_, out = l.lower(cons, []exit{{c, flow.EdgeTrue}})
	} else {
		out = []exit{{c, flow.EdgeTrue}}
	}
	alt := s.ChildByFieldName("alternative")
	if alt == nil {
		return head, append(out, exit{c, flow.EdgeFalse})
	}
	_, altOut := l.lower(alt, []exit{{c, flow.EdgeFalse}})
	return head, append(out, altOut...)
}

func (l *lowerer) lowerFor(s *sitter.Node, label string, in []exit) (graph.Node, []exit) {
	var head graph.Node
	var update *sitter.Node
	text, at := "for", s
	conditional := true

	switch h := forHeader(s); {
	case h == nil:
		conditional = false
	case h.Type() == "for_clause":
		if init := h.ChildByFieldName("initializer"); init != nil {
			head, in = l.lower(init, in)
		}
		update = h.ChildByFieldName("update")
		if cond := h.ChildByFieldName("condition"); cond != nil {
			text, at = "for "+collapse(cond.Content(l.src)), cond
		} else {
			conditional = false
		}
	default:
		text, at = "for "+collapse(h.Content(l.src)), h
	}

	loop := l.flowNode(l.ref(at, text), flow.KindLoop)
	l.connect(in, loop)
	if head == (graph.Node{}) {
		head = loop
	}

	bodyKind := flow.EdgeTrue
	if !conditional {
		bodyKind = flow.EdgeUnconditional
	}
	f := &frame{label: label, loop: true}
	l.frames = append(l.frames, f)
	var out []exit
	if body := s.ChildByFieldName("body"); body != nil {
		_, out = l.lower(body, []exit{{loop, bodyKind}})
	} else {
		out = []exit{{loop, bodyKind}}
	}
	l.frames = l.frames[:len(l.frames)-1]

	if update != nil {
		u := l.statement(update, out)
		l.connect(f.continues, u)
		l.connect([]exit{{u, flow.EdgeBack}}, loop)
	} else {
		l.connect(retag(out, flow.EdgeBack), loop)
		l.connect(f.continues, loop)
	}

	var exits []exit
	if conditional {
		exits = append(exits, exit{loop, flow.EdgeFalse})
	}
	return head, append(exits, f.breaks...)
}

// lowerCases lowers switch and select statements. Each clause is a scope
// entered from the header over a true edge, or a false edge for default.
// A switch without default also leaves the header over a false edge.
func (l *lowerer) lowerCases(s *sitter.Node, label string, in []exit) (graph.Node, []exit) {
	var head graph.Node
	if init := s.ChildByFieldName("initializer"); init != nil {
		head, in = l.lower(init, in)
	}
	c := l.flowNode(l.ref(s, switchHeader(s, l.src)), flow.KindCondition)
	l.connect(in, c)
	if head == (graph.Node{}) {
		head = c
	}

	f := &frame{label: label}
	l.frames = append(l.frames, f)
	var out, fall []exit
	hasDefault := false
	for i := 0; i < int(s.NamedChildCount()); i++ {
		cc := s.NamedChild(i)
		if !isCase(cc) {
			continue
		}
		kind := flow.EdgeTrue
		if cc.Type() == "default_case" {
			kind, hasDefault = flow.EdgeFalse, true
		}
		body := caseBody(cc)
		_, caseOut := l.lowerScope(cc, caseHeader(cc, l.src), body, append([]exit{{c, kind}}, fall...))
		fall = nil
		if endsWithFallthrough(body) {
			fall = caseOut
		} else {
			out = append(out, caseOut...)
		}
	}
	l.frames = l.frames[:len(l.frames)-1]

	out = append(out, fall...)
	if !hasDefault && s.Type() != "select_statement" {
		out = append(out, exit{c, flow.EdgeFalse})
	}
	return head, append(out, f.breaks...)
}

func endsWithFallthrough(body []*sitter.Node) bool {
	for i := len(body) - 1; i >= 0; i-- {
		switch body[i].Type() {
		case "comment":
			continue
		case "fallthrough_statement":
			return true
		}
		return false
	}
	return false
}

func (l *lowerer) lowerLabeled(s *sitter.Node, in []exit) (graph.Node, []exit) {
	var name string
	if lbl := s.ChildByFieldName("label"); lbl != nil {
		name = lbl.Content(l.src)
	}

	var head graph.Node
	var out []exit
	switch inner := labeledInner(s); {
	case inner == nil:
		out = in
	case inner.Type() == "for_statement":
		head, out = l.lowerFor(inner, name, in)
	case inner.Type() == "expression_switch_statement", inner.Type() == "type_switch_statement", inner.Type() == "select_statement":
		head, out = l.lowerCases(inner, name, in)
	default:
		head, out = l.lower(inner, in)
	}
	if head == (graph.Node{}) {
		head = l.instruction(l.ref(s, name+":"), instruction.Statement)
		l.connect(out, head)
		out = fallsFrom(head)
	}
	l.labels[name] = head
	return head, out
}

// target finds the frame a break or continue leaves.
func (l *lowerer) target(label string, loop bool) *frame {
	for i := len(l.frames) - 1; i >= 0; i-- {
		f := l.frames[i]
		if label != "" {
			if f.label != label {
				continue
			}
			if loop && !f.loop {
				return nil
			}
			return f
		}
		if !loop || f.loop {
			return f
		}
	}
	return nil
}

func (l *lowerer) resolveGotos() {
	for _, g := range l.gotos {
		to, ok := l.labels[g.label]
		if !ok {
			l.debug("goto to unknown label", "label", g.label)
			continue
		}
		l.connect(fallsFrom(g.from), to)
	}
}

func retag(in []exit, kind flow.EdgeKind) []exit {
	out := make([]exit, len(in))
	for i, e := range in {
		out[i] = exit{e.from, kind}
	}
	return out
}
