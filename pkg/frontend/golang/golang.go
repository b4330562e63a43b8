package golang

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// Language is the name this frontend reports to observability hooks.
const Language = "go"

var parserPool = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(golang.GetLanguage())
		return p
	},
}

// Options configures Parse.
type Options struct {
	// File names the source in SourceRefs and errors. ParseFile sets it to
	// the path when empty.
	File string

	// IncludeComments lowers comments inside function bodies to comment
	// instructions.
	IncludeComments bool

	// Logger receives debug output about lowering. Nil disables logging.
	Logger *log.Logger

	// StoreOptions configure the store of the resulting graph.
	StoreOptions []store.Option
}

// SourceRef locates a node's origin in the parsed source. Lines are
// 1-based, byte offsets 0-based and half-open.
type SourceRef struct {
	File      string `json:"file,omitempty"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
	Text      string `json:"text"`
}

// String returns the source text, or file:line when there is none.
func (r SourceRef) String() string {
	if r.Text != "" {
		return r.Text
	}
	return fmt.Sprintf("%s:%d", r.File, r.StartLine)
}

// ParseFile reads path and parses it with Parse.
func ParseFile(ctx context.Context, path string, opts Options) (flow.FlowGraph, error) {
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return flow.FlowGraph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "source %s", path)
	}
	if err != nil {
		return flow.FlowGraph{}, fmt.Errorf("read %s: %w", path, err)
	}
	if opts.File == "" {
		opts.File = path
	}
	return Parse(ctx, src, opts)
}

// Parse lowers every function and method declared in src into a new
// FlowGraph. Source with syntax errors is rejected with INVALID_FORMAT.
func Parse(ctx context.Context, src []byte, opts Options) (fg flow.FlowGraph, err error) {
	start := time.Now()
	hooks := observability.Frontend()
	hooks.OnParseStart(ctx, Language, opts.File)
	defer func() {
		var functions, nodes int
		if err == nil {
			functions = len(fg.FunctionNames())
			nodes = fg.NodeCount()
		}
		hooks.OnParseComplete(ctx, Language, opts.File, functions, nodes, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return flow.FlowGraph{}, err
	}

	parser := parserPool.Get().(*sitter.Parser)
	defer parserPool.Put(parser)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return flow.FlowGraph{}, fmt.Errorf("parse %s: %w", displayName(opts.File), err)
	}
	if tree == nil {
		return flow.FlowGraph{}, errors.New(errors.ErrCodeInternal, "parse %s: no syntax tree", displayName(opts.File))
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line := 0
		if bad := firstError(root); bad != nil {
			line = int(bad.StartPoint().Row) + 1
		}
		return flow.FlowGraph{}, errors.New(errors.ErrCodeInvalidFormat, "%s:%d: syntax error", displayName(opts.File), line)
	}

	fg = flow.New(opts.StoreOptions...)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl.Type() != "function_declaration" && decl.Type() != "method_declaration" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return flow.FlowGraph{}, err
		}
		if err := lowerFunction(fg, decl, src, opts); err != nil {
			return flow.FlowGraph{}, err
		}
	}
	return fg, nil
}

func displayName(file string) string {
	if file == "" {
		return "<input>"
	}
	return file
}
