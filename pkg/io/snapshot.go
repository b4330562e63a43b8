package io

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/graph"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// Format identifies the snapshot layout. Readers reject any other value.
const Format = "flowgraph/v1"

// snapshot is the on-disk layout. V is the value type of data maps: the
// live records when writing, raw encoded bytes when reading.
type snapshot[V any] struct {
	Format string         `json:"format" msgpack:"format"`
	Data   map[string]V   `json:"data,omitempty" msgpack:"data,omitempty"`
	Nodes  []nodeEntry[V] `json:"nodes" msgpack:"nodes"`
	Edges  []edgeEntry[V] `json:"edges" msgpack:"edges"`
}

type nodeEntry[V any] struct {
	ID   string       `json:"id" msgpack:"id"`
	Data map[string]V `json:"data,omitempty" msgpack:"data,omitempty"`
}

type edgeEntry[V any] struct {
	ID   string       `json:"id" msgpack:"id"`
	From string       `json:"from" msgpack:"from"`
	To   string       `json:"to" msgpack:"to"`
	Data map[string]V `json:"data,omitempty" msgpack:"data,omitempty"`
}

// ReadOption configures snapshot decoding.
type ReadOption func(*readConfig)

type readConfig struct {
	logger *log.Logger
	opts   []store.Option
}

// WithLogger reports tags that decode as opaque records at debug level.
func WithLogger(l *log.Logger) ReadOption {
	return func(c *readConfig) { c.logger = l }
}

// WithStoreOptions passes options to the store the snapshot is read into,
// for example an ID generator for nodes added after loading.
func WithStoreOptions(opts ...store.Option) ReadOption {
	return func(c *readConfig) { c.opts = append(c.opts, opts...) }
}

func encodeSnapshot(g *graph.Graph) snapshot[any] {
	s := g.Store()
	out := snapshot[any]{
		Format: Format,
		Data:   encodeData(s.Data()),
		Nodes:  make([]nodeEntry[any], 0, s.NodeCount()),
		Edges:  make([]edgeEntry[any], 0, s.EdgeCount()),
	}
	for _, n := range s.Nodes() {
		out.Nodes = append(out.Nodes, nodeEntry[any]{ID: n.ID, Data: encodeData(n.Data)})
	}
	for _, e := range s.Edges() {
		out.Edges = append(out.Edges, edgeEntry[any]{ID: e.ID, From: e.From, To: e.To, Data: encodeData(e.Data)})
	}
	return out
}

func encodeData(data store.Metadata) map[string]any {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]any, len(data))
	for tag, v := range data {
		if op, ok := v.(*graph.OpaqueRecord); ok {
			out[tag] = op.Fields
			continue
		}
		out[tag] = v
	}
	return out
}

// codec decodes one raw value, either into a registered record or into a
// generic value.
type codec[V any] struct {
	into    func(raw V, dst any) error
	generic func(raw V) (any, error)
}

func decodeSnapshot[V any](in snapshot[V], c codec[V], opts []ReadOption) (*graph.Graph, error) {
	cfg := readConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if in.Format != Format {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported snapshot format %q", in.Format)
	}

	s := store.New(cfg.opts...)
	data, err := decodeData(in.Data, c, cfg)
	if err != nil {
		return nil, fmt.Errorf("graph data: %w", err)
	}
	s.SetData(data)

	for _, n := range in.Nodes {
		data, err := decodeData(n.Data, c, cfg)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		if _, err := s.AddNode(store.Node{ID: n.ID, Data: data}); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range in.Edges {
		data, err := decodeData(e.Data, c, cfg)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", e.ID, err)
		}
		if _, err := s.AddEdge(store.Edge{ID: e.ID, From: e.From, To: e.To, Data: data}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return graph.FromStore(s), nil
}

func decodeData[V any](in map[string]V, c codec[V], cfg readConfig) (store.Metadata, error) {
	out := make(store.Metadata, len(in))
	for tag, raw := range in {
		if rec, ok := graph.NewRecord(tag); ok {
			if err := c.into(raw, rec); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "record %s", tag)
			}
			out[tag] = rec
			continue
		}
		v, err := c.generic(raw)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "record %s", tag)
		}
		if fields, ok := v.(map[string]any); ok {
			if cfg.logger != nil {
				cfg.logger.Debug("keeping unregistered record", "tag", tag)
			}
			out[tag] = &graph.OpaqueRecord{Fields: fields}
			continue
		}
		out[tag] = v
	}
	return out, nil
}
