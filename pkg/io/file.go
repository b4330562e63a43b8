package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

// IsMsgpackPath reports whether path names a MessagePack snapshot.
func IsMsgpackPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return true
	}
	return false
}

// ExportJSON writes g as a JSON snapshot to path.
func ExportJSON(g *graph.Graph, path string) error {
	return export(path, func(w io.Writer) error { return WriteJSON(g, w) })
}

// ImportJSON reads a JSON snapshot from path.
func ImportJSON(path string, opts ...ReadOption) (*graph.Graph, error) {
	return load(path, func(r io.Reader) (*graph.Graph, error) { return ReadJSON(r, opts...) })
}

// ExportFile writes g to path, choosing the encoding by extension.
func ExportFile(g *graph.Graph, path string) error {
	if IsMsgpackPath(path) {
		return export(path, func(w io.Writer) error { return WriteMsgpack(g, w) })
	}
	return ExportJSON(g, path)
}

// ImportFile reads a snapshot from path, choosing the encoding by
// extension.
func ImportFile(path string, opts ...ReadOption) (*graph.Graph, error) {
	if IsMsgpackPath(path) {
		return load(path, func(r io.Reader) (*graph.Graph, error) { return ReadMsgpack(r, opts...) })
	}
	return ImportJSON(path, opts...)
}

func export(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func load(path string, read func(io.Reader) (*graph.Graph, error)) (*graph.Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
