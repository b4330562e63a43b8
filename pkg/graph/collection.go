package graph

import (
	"iter"
	"slices"
)

// Element is anything identified within one graph: generic handles and
// every view that embeds them.
type Element interface {
	ID() string
}

// NodeElement is a generic node handle or a node view.
type NodeElement interface {
	Element
	Base() Node
}

// EdgeElement is a generic edge handle or an edge view.
type EdgeElement interface {
	Element
	Base() Edge
}

// Collection is an ordered set of graph elements, deduplicated by ID.
// Order is the order in which elements were supplied; the first occurrence
// of an ID wins. Collections are immutable values.
type Collection[T Element] struct {
	items []T
}

// NewCollection builds a collection from already-known elements.
func NewCollection[T Element](items ...T) Collection[T] {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID()]; dup {
			continue
		}
		seen[it.ID()] = struct{}{}
		out = append(out, it)
	}
	return Collection[T]{items: out}
}

// Len returns the number of elements.
func (c Collection[T]) Len() int { return len(c.items) }

// IsEmpty reports whether the collection has no elements.
func (c Collection[T]) IsEmpty() bool { return len(c.items) == 0 }

// At returns the i-th element. It panics if i is out of range.
func (c Collection[T]) At(i int) T { return c.items[i] }

// First returns the first element, if any.
func (c Collection[T]) First() (T, bool) {
	if len(c.items) == 0 {
		var zero T
		return zero, false
	}
	return c.items[0], true
}

// Slice returns a copy of the elements.
func (c Collection[T]) Slice() []T { return slices.Clone(c.items) }

// All iterates over the elements in order.
func (c Collection[T]) All() iter.Seq[T] { return slices.Values(c.items) }

// IDs returns the element IDs in order.
func (c Collection[T]) IDs() []string {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID()
	}
	return ids
}

// Contains reports whether an element with the given ID is present.
func (c Collection[T]) Contains(id string) bool {
	return slices.ContainsFunc(c.items, func(it T) bool { return it.ID() == id })
}

// Filter returns the elements for which keep returns true.
func (c Collection[T]) Filter(keep func(T) bool) Collection[T] {
	var out []T
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return Collection[T]{items: out}
}

// Union returns c followed by the elements of other not already in c.
func (c Collection[T]) Union(other Collection[T]) Collection[T] {
	return NewCollection(slices.Concat(c.items, other.items)...)
}

// Map converts every element with fn. The result is deduplicated by the
// IDs of the mapped elements.
func Map[T, U Element](c Collection[T], fn func(T) U) Collection[U] {
	out := make([]U, len(c.items))
	for i, it := range c.items {
		out[i] = fn(it)
	}
	return NewCollection(out...)
}

// AsNodes keeps the elements that satisfy class and re-types them as V,
// preserving relative order.
func AsNodes[T NodeElement, V Element](c Collection[T], class NodeClass[V]) Collection[V] {
	var out []V
	for _, it := range c.items {
		if v, ok := TryAsNode(it.Base(), class); ok {
			out = append(out, v)
		}
	}
	return Collection[V]{items: out}
}

// AsEdges keeps the edges that satisfy class and re-types them as V.
func AsEdges[T EdgeElement, V Element](c Collection[T], class EdgeClass[V]) Collection[V] {
	var out []V
	for _, it := range c.items {
		if v, ok := TryAsEdge(it.Base(), class); ok {
			out = append(out, v)
		}
	}
	return Collection[V]{items: out}
}
