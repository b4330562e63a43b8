package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/frontend/golang"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/io"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// isGoSource reports whether path names a Go source file rather than a
// snapshot.
func isGoSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".go")
}

// loadFlowGraph parses a Go file or imports a snapshot, depending on the
// extension of path. Parsed graphs get sequential node IDs so that their
// DOT text, and with it the SVG cache key, is stable across runs.
func (c *CLI) loadFlowGraph(ctx context.Context, path string, comments bool) (flow.FlowGraph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return flow.FlowGraph{}, err
	}
	logger := loggerFromContext(ctx)
	if isGoSource(path) {
		return golang.ParseFile(ctx, path, golang.Options{
			IncludeComments: comments || c.Config.Frontend.IncludeComments,
			Logger:          logger,
			StoreOptions:    []store.Option{store.WithIDGenerator(store.Sequential("n"))},
		})
	}

	g, err := io.ImportFile(path, io.WithLogger(logger))
	if err != nil {
		return flow.FlowGraph{}, err
	}
	fg, ok := graph.TryAsGraph(g, flow.FlowGraphClass)
	if !ok {
		return flow.FlowGraph{}, errors.New(errors.ErrCodeInvalidFormat, "%s: not a flow graph snapshot", path)
	}
	return fg, nil
}
