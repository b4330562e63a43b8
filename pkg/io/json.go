package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

var jsonCodec = codec[json.RawMessage]{
	into: func(raw json.RawMessage, dst any) error { return json.Unmarshal(raw, dst) },
	generic: func(raw json.RawMessage) (any, error) {
		var v any
		err := json.Unmarshal(raw, &v)
		return v, err
	},
}

// WriteJSON encodes g as an indented JSON snapshot.
func WriteJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(encodeSnapshot(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON snapshot into a new graph. It does not close r.
func ReadJSON(r io.Reader, opts ...ReadOption) (*graph.Graph, error) {
	var in snapshot[json.RawMessage]
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	return decodeSnapshot(in, jsonCodec, opts)
}
