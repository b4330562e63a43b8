package graph

import (
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// Data maps a view tag to that view's record. It is the same map the store
// keeps on every node, edge and graph, so unrelated views coexist as
// separate keys.
type Data = store.Metadata

// Record is the value stored under a view's tag. The version lets a view
// refuse data written by a layout it does not understand.
type Record interface {
	RecordVersion() string
}

// RecordOf returns the record under tag asserted to R.
func RecordOf[R Record](data Data, tag string) (R, bool) {
	r, ok := data[tag].(R)
	return r, ok
}

// Extend returns a copy of data with rec stored under tag. Every other
// entry is carried over unchanged. Builders use it to add their own tag.
func Extend(data Data, tag string, rec Record) Data {
	out := maps.Clone(data)
	if out == nil {
		out = Data{}
	}
	out[tag] = rec
	return out
}

// RecordFactory allocates an empty record for decoding.
type RecordFactory func() Record

var (
	recordsMu sync.RWMutex
	records   = map[string]RecordFactory{}
)

// RegisterRecord makes a tag's record type known to decoders such as
// package io. It is meant to be called from init functions and panics if
// the tag is invalid, the factory is nil, or the tag is registered twice.
func RegisterRecord(tag string, factory RecordFactory) {
	if err := errors.ValidateTag(tag); err != nil {
		panic(err)
	}
	if factory == nil {
		panic(errors.New(errors.ErrCodeInvalidInput, "nil record factory for tag %s", tag))
	}
	recordsMu.Lock()
	defer recordsMu.Unlock()
	if _, dup := records[tag]; dup {
		panic(errors.New(errors.ErrCodeInvalidInput, "record tag %s registered twice", tag))
	}
	records[tag] = factory
}

// NewRecord allocates an empty record for a registered tag.
func NewRecord(tag string) (Record, bool) {
	recordsMu.RLock()
	defer recordsMu.RUnlock()
	f, ok := records[tag]
	if !ok {
		return nil, false
	}
	return f(), true
}

// RegisteredTags returns every registered tag in sorted order.
func RegisteredTags() []string {
	recordsMu.RLock()
	defer recordsMu.RUnlock()
	return slices.Sorted(maps.Keys(records))
}

// OpaqueRecord holds a decoded record whose tag is not registered in this
// process. It keeps the raw fields so the record survives a round trip.
type OpaqueRecord struct {
	Fields map[string]any
}

// RecordVersion returns the "version" field, or "" if absent.
func (r *OpaqueRecord) RecordVersion() string {
	v, _ := r.Fields["version"].(string)
	return v
}
