package golang

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/flow/instruction"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/store"
)

func parse(t *testing.T, src string, opts Options) flow.FlowGraph {
	t.Helper()
	if opts.File == "" {
		opts.File = "x.go"
	}
	opts.StoreOptions = []store.Option{store.WithIDGenerator(store.Sequential("n"))}
	fg, err := Parse(context.Background(), []byte(src), opts)
	require.NoError(t, err)
	return fg
}

func function(t *testing.T, fg flow.FlowGraph, name string) flow.FunctionNode {
	t.Helper()
	fn, ok := fg.GetFunction(name)
	require.True(t, ok, "function %s not found; have %v", name, fg.FunctionNames())
	return fn
}

func textOf(c flow.ControlFlowNode) string {
	if ref, ok := c.Source().(SourceRef); ok {
		return ref.Text
	}
	return "?" + c.ID()
}

// byText returns the single node of fn whose source text is text.
func byText(t *testing.T, fn flow.FunctionNode, text string) flow.ControlFlowNode {
	t.Helper()
	matches := fn.ControlFlowNodes().Filter(func(c flow.ControlFlowNode) bool { return textOf(c) == text })
	require.Equal(t, 1, matches.Len(), "nodes with text %q", text)
	return matches.At(0)
}

// succ lists outgoing edges as "target [kind]", sorted.
func succ(c flow.ControlFlowNode) []string {
	var out []string
	for e := range c.ControlFlowEdges().All() {
		to, _ := e.To()
		out = append(out, textOf(to)+" ["+string(e.Kind())+"]")
	}
	slices.Sort(out)
	return out
}

func preds(c flow.ControlFlowNode) int { return c.ControlFlowPredecessors().Len() }

func instructions(fn flow.FunctionNode, kind instruction.Kind) int {
	return graph.AsNodes(fn.ControlFlowNodes(), instruction.Class).
		Filter(func(n instruction.Node) bool { return n.Kind() == kind }).Len()
}

func TestStraightLine(t *testing.T) {
	fg := parse(t, `package p

func f() {
	a := 1
	b := a
	_ = b
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"a := 1 [unconditional]"}, succ(byText(t, fn, "func f")))
	assert.Equal(t, []string{"b := a [unconditional]"}, succ(byText(t, fn, "a := 1")))
	assert.Equal(t, []string{"end f [unconditional]"}, succ(byText(t, fn, "_ = b")))

	end, ok := fn.EndNode()
	require.True(t, ok)
	assert.Equal(t, "end f", textOf(end.ControlFlowNode))
	assert.Equal(t, []string{end.ID()}, fn.Exits().IDs())

	ref := byText(t, fn, "a := 1").Source().(SourceRef)
	assert.Equal(t, "x.go", ref.File)
	assert.Equal(t, 4, ref.StartLine)
	assert.Equal(t, 4, ref.EndLine)
	assert.Equal(t, "a := 1", ref.String())
}

func TestNodeViews(t *testing.T) {
	fg := parse(t, `package p

func f(x int) {
	for x > 0 {
		if x%2 == 0 {
			x--
		}
		x--
	}
}
`, Options{})
	fn := function(t, fg, "f")

	for c := range fn.ControlFlowNodes().All() {
		assert.Equal(t, fn.ID(), c.FunctionID())
		fl, ok := graph.TryAsNode(c.Base(), flow.FlowNodeClass)
		require.True(t, ok, "node %s is not a FlowNode", textOf(c))
		if fl.Kind() == flow.KindInstruction {
			assert.True(t, c.Is(instruction.Class), "node %s lacks an instruction kind", textOf(c))
		}
	}

	end, _ := fn.EndNode()
	in := graph.AsNode(end.Base(), instruction.Class)
	assert.Equal(t, instruction.FunctionExit, in.Kind())

	assert.Equal(t, flow.KindLoop, graph.AsNode(byText(t, fn, "for x > 0").Base(), flow.FlowNodeClass).Kind())
	assert.Equal(t, flow.KindCondition, graph.AsNode(byText(t, fn, "if x%2 == 0").Base(), flow.FlowNodeClass).Kind())
	assert.Equal(t, 1, instructions(fn, instruction.FunctionEntry))
	assert.Equal(t, 2, instructions(fn, instruction.ScopeStart))
	assert.Equal(t, 2, instructions(fn, instruction.ScopeEnd))
}

func TestIfElse(t *testing.T) {
	fg := parse(t, `package p

func f(x int) int {
	if x > 0 {
		x = 1
	} else {
		x = 2
	}
	return x
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"{ [false]", "{ [true]"}, succ(byText(t, fn, "if x > 0")))
	assert.Equal(t, []string{"} [unconditional]"}, succ(byText(t, fn, "x = 1")))
	assert.Equal(t, 2, preds(byText(t, fn, "return x")))
	assert.Equal(t, []string{"end f [unconditional]"}, succ(byText(t, fn, "return x")))
}

func TestIfWithoutElse(t *testing.T) {
	fg := parse(t, `package p

func f() {
	if err := g(); err != nil {
		return
	}
	h()
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"if err != nil [unconditional]"}, succ(byText(t, fn, "err := g()")))
	assert.Equal(t, []string{"h() [false]", "{ [true]"}, succ(byText(t, fn, "if err != nil")))
	assert.Equal(t, []string{"end f [unconditional]"}, succ(byText(t, fn, "return")))
	assert.Zero(t, instructions(fn, instruction.ScopeEnd), "scope end emitted for a block that always returns")

	end, _ := fn.EndNode()
	assert.Equal(t, 2, preds(end.ControlFlowNode))
}

func TestElseIf(t *testing.T) {
	fg := parse(t, `package p

func f(x int) {
	if x > 0 {
		a()
	} else if x < 0 {
		b()
	}
	c()
}
`, Options{})
	fn := function(t, fg, "f")

	outer := byText(t, fn, "if x > 0")
	assert.Contains(t, succ(outer), "if x < 0 [false]")
	assert.Contains(t, succ(byText(t, fn, "if x < 0")), "c() [false]")
	assert.Equal(t, 3, preds(byText(t, fn, "c()")))
}

func TestForClause(t *testing.T) {
	fg := parse(t, `package p

func f(xs []int) {
	for i := 0; i < len(xs); i++ {
		if xs[i] < 0 {
			continue
		}
		if xs[i] > 9 {
			break
		}
		use(xs[i])
	}
	done()
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"for i < len(xs) [unconditional]"}, succ(byText(t, fn, "i := 0")))
	assert.Equal(t, []string{"done() [false]", "{ [true]"}, succ(byText(t, fn, "for i < len(xs)")))
	assert.Equal(t, []string{"i++ [continue]"}, succ(byText(t, fn, "continue")))
	assert.Equal(t, []string{"done() [break]"}, succ(byText(t, fn, "break")))
	assert.Equal(t, []string{"for i < len(xs) [back_edge]"}, succ(byText(t, fn, "i++")))
	assert.Equal(t, []string{"} [unconditional]"}, succ(byText(t, fn, "use(xs[i])")))
	assert.Equal(t, 2, preds(byText(t, fn, "i++")))
}

func TestRangeLoop(t *testing.T) {
	fg := parse(t, `package p

func f(m map[string]int) {
	for k, v := range m {
		use(k, v)
	}
}
`, Options{})
	fn := function(t, fg, "f")

	loop := byText(t, fn, "for k, v := range m")
	assert.Equal(t, []string{"end f [false]", "{ [true]"}, succ(loop))
	assert.Equal(t, []string{"for k, v := range m [back_edge]"}, succ(byText(t, fn, "}")))
}

func TestInfiniteLoop(t *testing.T) {
	fg := parse(t, `package p

func f() {
	for {
		work()
	}
	unreachable()
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"{ [unconditional]"}, succ(byText(t, fn, "for")))
	assert.Equal(t, []string{"for [back_edge]"}, succ(byText(t, fn, "}")))
	assert.Zero(t, preds(byText(t, fn, "unreachable()")))
}

func TestLabeledLoops(t *testing.T) {
	fg := parse(t, `package p

func f(grid [][]int) {
outer:
	for _, row := range grid {
		for _, v := range row {
			if v == 0 {
				break outer
			}
			if v < 0 {
				continue outer
			}
		}
	}
	done()
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"done() [break]"}, succ(byText(t, fn, "break outer")))
	assert.Equal(t, []string{"for _, row := range grid [continue]"}, succ(byText(t, fn, "continue outer")))
	assert.Equal(t, []string{"for _, row := range grid [unconditional]"}, succ(byText(t, fn, "func f")))
}

func TestSwitchFallthrough(t *testing.T) {
	fg := parse(t, `package p

func f(x int) {
	switch x {
	case 1:
		a()
		fallthrough
	case 2:
		b()
	}
	c()
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"c() [false]", "case 1: [true]", "case 2: [true]"}, succ(byText(t, fn, "switch x")))
	assert.Equal(t, 2, preds(byText(t, fn, "case 2:")))
	assert.Equal(t, 2, preds(byText(t, fn, "c()")))
}

func TestTypeSwitchDefaultBreak(t *testing.T) {
	fg := parse(t, `package p

func f(v any) {
	switch t := v.(type) {
	case int:
		if t > 0 {
			break
		}
		g()
	default:
		h()
	}
	done()
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"case int: [true]", "default: [false]"}, succ(byText(t, fn, "switch t := v.(type)")))
	assert.Equal(t, []string{"done() [break]"}, succ(byText(t, fn, "break")))
	assert.Equal(t, 3, preds(byText(t, fn, "done()")))
}

func TestSwitchInitializer(t *testing.T) {
	fg := parse(t, `package p

func f() {
	switch x := g(); {
	case x > 1:
		a()
	}
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"switch [unconditional]"}, succ(byText(t, fn, "x := g()")))
}

func TestSelect(t *testing.T) {
	fg := parse(t, `package p

func f(ch chan int, quit chan struct{}) {
	select {
	case v := <-ch:
		use(v)
	case <-quit:
		return
	}
	after()
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"case <-quit: [true]", "case v := <-ch: [true]"}, succ(byText(t, fn, "select")))
	assert.Equal(t, 1, preds(byText(t, fn, "after()")))
}

func TestGoto(t *testing.T) {
	fg := parse(t, `package p

func f() {
	goto done
	skipped()
done:
	finish()
}
`, Options{})
	fn := function(t, fg, "f")

	assert.Equal(t, []string{"finish() [unconditional]"}, succ(byText(t, fn, "goto done")))
	assert.Zero(t, preds(byText(t, fn, "skipped()")))
	assert.Equal(t, 2, preds(byText(t, fn, "finish()")))
}

func TestFunctionNames(t *testing.T) {
	fg := parse(t, `package p

type S struct{}

func (s *S) Start() {}

func (l List[T]) Len() int { return 0 }

func init() {}

func init() {}

func F()
`, Options{})

	assert.Equal(t, []string{"F", "List.Len", "S.Start", "init", "init#2"}, fg.FunctionNames())

	var order []string
	for fn := range fg.Functions().All() {
		order = append(order, fn.Name())
	}
	assert.Equal(t, []string{"S.Start", "List.Len", "init", "init#2", "F"}, order)

	decl := function(t, fg, "F")
	assert.Equal(t, []string{"end F [unconditional]"}, succ(byText(t, decl, "func F")))
}

func TestComments(t *testing.T) {
	src := `package p

func f() {
	// first
	a()
}
`
	without := function(t, parse(t, src, Options{}), "f")
	assert.Equal(t, []string{"a() [unconditional]"}, succ(byText(t, without, "func f")))
	assert.Zero(t, instructions(without, instruction.Comment))

	with := function(t, parse(t, src, Options{IncludeComments: true}), "f")
	assert.Equal(t, []string{"// first [unconditional]"}, succ(byText(t, with, "func f")))
	assert.Equal(t, 1, instructions(with, instruction.Comment))
}

func TestSyntaxError(t *testing.T) {
	_, err := Parse(context.Background(), []byte("package p\n\nfunc f( {\n"), Options{File: "bad.go"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
	assert.Contains(t, err.Error(), "bad.go")
}

func TestParseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, []byte("package p\n"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {\n\tprintln(1)\n}\n"), 0o644))

	fg, err := ParseFile(context.Background(), path, Options{})
	require.NoError(t, err)
	fn := function(t, fg, "main")
	ref := byText(t, fn, "println(1)").Source().(SourceRef)
	assert.Equal(t, path, ref.File)

	_, err = ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.go"), Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

type recordingHooks struct {
	observability.NoopFrontendHooks
	started   []string
	functions int
	nodes     int
	err       error
}

func (h *recordingHooks) OnParseStart(_ context.Context, language, file string) {
	h.started = append(h.started, language+":"+file)
}

func (h *recordingHooks) OnParseComplete(_ context.Context, _, _ string, functions, nodes int, _ time.Duration, err error) {
	h.functions, h.nodes, h.err = functions, nodes, err
}

func TestParseHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetFrontendHooks(h)
	t.Cleanup(observability.Reset)

	fg := parse(t, "package p\n\nfunc a() {}\n\nfunc b() {}\n", Options{File: "h.go"})

	assert.Equal(t, []string{"go:h.go"}, h.started)
	assert.Equal(t, 2, h.functions)
	assert.Equal(t, fg.NodeCount(), h.nodes)
	assert.NoError(t, h.err)

	_, err := Parse(context.Background(), []byte("package p\nfunc ("), Options{File: "h.go"})
	require.Error(t, err)
	assert.Equal(t, err, h.err)
}

func TestSourceRefString(t *testing.T) {
	assert.Equal(t, "x := 1", SourceRef{Text: "x := 1"}.String())
	assert.Equal(t, "a.go:3", SourceRef{File: "a.go", StartLine: 3}.String())
}
