package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/cache"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/frontend/golang"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/io"
)

const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

// parseOpts holds the flags of the parse command.
type parseOpts struct {
	output   string // snapshot path (stdout if empty)
	format   string // json or msgpack; inferred from output when empty
	comments bool   // lower comments to comment instructions
	noCache  bool   // bypass the snapshot cache
}

// parseCommand creates the parse command, which lowers a Go file into a
// flow graph snapshot.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <file.go>",
		Short: "Lower a Go source file into a flow graph snapshot",
		Long: `Parse lowers every function and method of a Go source file into a
control-flow graph and writes the result as a snapshot.

The snapshot format follows the output extension (.msgpack or .mp for
MessagePack, JSON otherwise) unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := snapshotFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			opts.format = format
			return c.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "snapshot format: json (default), msgpack")
	cmd.Flags().BoolVar(&opts.comments, "comments", false, "lower comments inside function bodies")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the snapshot cache")

	return cmd
}

// snapshotFormat validates an explicit format or infers it from output.
func snapshotFormat(format, output string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		if io.IsMsgpackPath(output) {
			return formatMsgpack, nil
		}
		return formatJSON, nil
	case formatJSON:
		return formatJSON, nil
	case formatMsgpack, "mp":
		return formatMsgpack, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown snapshot format %q (want json or msgpack)", format)
}

func (c *CLI) runParse(cmd *cobra.Command, path string, opts parseOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if !isGoSource(path) {
		return errors.New(errors.ErrCodeInvalidInput, "%s: expected a .go source file", path)
	}
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "source %s", path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	comments := opts.comments || c.Config.Frontend.IncludeComments
	data, fg, cached, err := c.snapshot(ctx, path, src, comments, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	prog.done("Parsed " + filepath.Base(path))
	w := cmd.ErrOrStderr()
	printSuccess(w, "Wrote %s snapshot", opts.format)
	printFile(w, opts.output)
	printStats(w, fg.Functions().Len(), fg.NodeCount(), fg.EdgeCount(), cached)
	return nil
}

// snapshot returns the encoded snapshot of src, from the cache when a
// matching entry exists.
func (c *CLI) snapshot(ctx context.Context, path string, src []byte, comments bool, opts parseOpts) ([]byte, flow.FlowGraph, bool, error) {
	backend, err := c.openCache(ctx, opts.noCache, "snapshot")
	if err != nil {
		return nil, flow.FlowGraph{}, false, err
	}
	defer backend.Close()

	key := keyer().SnapshotKey(cache.Hash(src), cache.SnapshotKeyOpts{
		Language:        golang.Language,
		IncludeComments: comments,
		Format:          opts.format,
	})

	if data, ok, err := backend.Get(ctx, key); err != nil {
		loggerFromContext(ctx).Warn("cache read failed", "error", err)
	} else if ok {
		fg, err := decodeSnapshot(data, opts.format)
		if err == nil {
			return data, fg, true, nil
		}
		loggerFromContext(ctx).Warn("discarding cached snapshot", "error", err)
	}

	fg, err := golang.Parse(ctx, src, golang.Options{
		File:            path,
		IncludeComments: comments,
		Logger:          loggerFromContext(ctx),
	})
	if err != nil {
		return nil, flow.FlowGraph{}, false, err
	}
	data, err := encodeSnapshot(fg, opts.format)
	if err != nil {
		return nil, flow.FlowGraph{}, false, err
	}

	ttl, err := c.Config.Cache.TTLDuration()
	if err != nil {
		return nil, flow.FlowGraph{}, false, err
	}
	if err := backend.Set(ctx, key, data, ttl); err != nil {
		loggerFromContext(ctx).Warn("cache write failed", "error", err)
	}
	return data, fg, false, nil
}

func encodeSnapshot(fg flow.FlowGraph, format string) ([]byte, error) {
	var buf bytes.Buffer
	write := io.WriteJSON
	if format == formatMsgpack {
		write = io.WriteMsgpack
	}
	if err := write(fg.Graph, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeSnapshot(data []byte, format string) (flow.FlowGraph, error) {
	var (
		g   *graph.Graph
		err error
	)
	if format == formatMsgpack {
		g, err = io.ReadMsgpack(bytes.NewReader(data))
	} else {
		g, err = io.ReadJSON(bytes.NewReader(data))
	}
	if err != nil {
		return flow.FlowGraph{}, err
	}
	fg, ok := graph.TryAsGraph(g, flow.FlowGraphClass)
	if !ok {
		return flow.FlowGraph{}, errors.New(errors.ErrCodeInvalidFormat, "snapshot is not a flow graph")
	}
	return fg, nil
}
