package graph

// Builder computes the records for one view.
//
// BuildData and BuildScratchData receive an element's current maps and
// return them with exactly the view's tag added or overwritten. They must
// not modify their input. A builder for a view that extends another holds
// the parent's builder and calls it first, so the most specific record is
// written last and sees its ancestors' records already present.
//
// Builders capture their constructor arguments and are discarded after a
// single application.
type Builder interface {
	BuildData(data Data) Data
	BuildScratchData(scratch Data) Data
}

// NodeBuilder is a Builder that knows which node view it produces, so
// [InitNode] can apply it and cast in one step.
type NodeBuilder[V any] interface {
	Builder
	NodeClass() NodeClass[V]
}

// EdgeBuilder is the edge counterpart of NodeBuilder.
type EdgeBuilder[V any] interface {
	Builder
	EdgeClass() EdgeClass[V]
}

// GraphBuilder is the graph counterpart of NodeBuilder.
type GraphBuilder[V any] interface {
	Builder
	GraphClass() GraphClass[V]
}
