package io

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

var msgpackCodec = codec[msgpack.RawMessage]{
	into: func(raw msgpack.RawMessage, dst any) error { return msgpack.Unmarshal(raw, dst) },
	generic: func(raw msgpack.RawMessage) (any, error) {
		var v any
		err := msgpack.Unmarshal(raw, &v)
		return v, err
	},
}

// WriteMsgpack encodes g as a MessagePack snapshot. Map keys are sorted so
// equal graphs encode to equal bytes.
func WriteMsgpack(g *graph.Graph, w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(encodeSnapshot(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadMsgpack decodes a MessagePack snapshot into a new graph.
func ReadMsgpack(r io.Reader, opts ...ReadOption) (*graph.Graph, error) {
	var in snapshot[msgpack.RawMessage]
	if err := msgpack.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	return decodeSnapshot(in, msgpackCodec, opts)
}
