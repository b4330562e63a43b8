package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/render/dot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the flags of the render command. Unset flags fall back
// to the [render] section of the config.
type renderOpts struct {
	output   string // output path; "-" writes to stdout
	format   string // dot or svg
	detailed bool   // append node IDs and tags to labels
	rankDir  string // Graphviz rankdir
	name     string // digraph name
	function string // render only this function
	pick     bool   // choose the function interactively
	comments bool   // lower comments when the input is Go source
	noCache  bool   // bypass the artifact cache
}

// renderCommand creates the render command for Go sources and snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render <file.go|snapshot>",
		Short: "Render a flow graph to DOT or SVG",
		Long: `Render draws the control-flow graphs of a Go source file or a stored
snapshot with Graphviz.

Source text labels are only available when rendering Go source; snapshots
do not persist source references, so their nodes show their kind instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if opts.format != formatDOT && opts.format != formatSVG {
				return errors.New(errors.ErrCodeInvalidInput, "unknown render format %q (want dot or svg)", opts.format)
			}
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = c.Config.Render.Detailed
			}
			if opts.rankDir == "" {
				opts.rankDir = c.Config.Render.RankDir
			}
			if opts.name == "" {
				opts.name = c.Config.Render.GraphName
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (default: input name with the format extension, "-" for stdout)`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node IDs and tags in labels")
	cmd.Flags().StringVar(&opts.rankDir, "rankdir", "", "layout direction: TB, LR, BT, RL")
	cmd.Flags().StringVar(&opts.name, "name", "", "digraph name")
	cmd.Flags().StringVar(&opts.function, "function", "", "render only the named function")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the function to render interactively")
	cmd.Flags().BoolVar(&opts.comments, "comments", false, "lower comments inside function bodies (Go input)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts renderOpts) error {
	ctx := cmd.Context()
	prog := newProgress(loggerFromContext(ctx))

	fg, err := c.loadFlowGraph(ctx, path, opts.comments)
	if err != nil {
		return err
	}

	if opts.pick {
		name, err := pickFunction(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), collectStats(fg))
		if err != nil {
			return err
		}
		if name == "" {
			printInfo(cmd.ErrOrStderr(), "No function selected")
			return nil
		}
		opts.function = name
	}

	g := fg.Graph
	if opts.function != "" {
		if g, err = functionSubgraph(fg, opts.function); err != nil {
			return err
		}
	}

	text := c.formatDOT(g, opts)
	data := []byte(text)
	cached := false
	if opts.format == formatSVG {
		data, cached, err = c.renderSVG(ctx, cmd, text, opts.noCache)
		if err != nil {
			return err
		}
	}

	output := renderOutput(path, opts)
	if output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	prog.done("Rendered " + filepath.Base(path))
	w := cmd.ErrOrStderr()
	printSuccess(w, "Rendered %s", strings.ToUpper(opts.format))
	printFile(w, output)
	functions := fg.Functions().Len()
	if opts.function != "" {
		functions = 1
	}
	printStats(w, functions, g.NodeCount(), g.EdgeCount(), cached)
	return nil
}

func (c *CLI) formatDOT(g *graph.Graph, opts renderOpts) string {
	f := dot.FlowFormatter{Detailed: opts.detailed, MaxLabel: c.Config.Render.MaxLabel}
	return dot.FormatOptions(g, f, dot.Options{
		Name:    opts.name,
		RankDir: strings.ToUpper(opts.rankDir),
	})
}

// functionSubgraph copies the named function node, its control-flow nodes
// and the edges among them into a new graph. Records are shared with fg.
func functionSubgraph(fg flow.FlowGraph, name string) (*graph.Graph, error) {
	fn, ok := fg.GetFunction(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "function %q not found (have %s)", name, strings.Join(fg.FunctionNames(), ", "))
	}
	keep := map[string]bool{fn.ID(): true}
	for n := range fn.ControlFlowNodes().All() {
		keep[n.ID()] = true
	}
	sub := fg.Store().Subgraph(func(id string) bool { return keep[id] })
	return graph.FromStore(sub), nil
}

// renderSVG lays out DOT text with Graphviz, reusing a cached SVG of the
// same text when one exists.
func (c *CLI) renderSVG(ctx context.Context, cmd *cobra.Command, text string, noCache bool) ([]byte, bool, error) {
	backend, err := c.openCache(ctx, noCache, "artifact")
	if err != nil {
		return nil, false, err
	}
	defer backend.Close()

	key := keyer().ArtifactKey(cache.Hash([]byte(text)), cache.ArtifactKeyOpts{Format: formatSVG})
	if data, ok, err := backend.Get(ctx, key); err != nil {
		loggerFromContext(ctx).Warn("cache read failed", "error", err)
	} else if ok {
		return data, true, nil
	}

	var svg []byte
	err = withSpinner(ctx, cmd.ErrOrStderr(), "Running Graphviz...", func() error {
		var err error
		svg, err = dot.RenderSVG(ctx, text)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	ttl, err := c.Config.Cache.TTLDuration()
	if err != nil {
		return nil, false, err
	}
	if err := backend.Set(ctx, key, svg, ttl); err != nil {
		loggerFromContext(ctx).Warn("cache write failed", "error", err)
	}
	return svg, false, nil
}

// renderOutput returns the explicit output path or derives one from the
// input path.
func renderOutput(input string, opts renderOpts) string {
	if opts.output != "" {
		return opts.output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
}
