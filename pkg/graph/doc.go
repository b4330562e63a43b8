// Package graph layers typed views over the raw store.
//
// # Tagged Records
//
// Every node, edge and graph carries a [Data] map from tag to [Record] and
// a parallel scratch map for transient values. A view owns exactly one tag.
// Views that know nothing about each other coexist on the same element as
// separate keys.
//
// # Views
//
// A view is a value type embedding a generic handle ([Node], [Edge] or
// *[Graph]) plus a class ([NodeClass], [EdgeClass], [GraphClass]) that
// pairs its [TypeGuard] with a wrapper:
//
//	type FunctionNode struct{ graph.Node }
//
//	var FunctionNodeClass = graph.NewNodeClass("FunctionNode",
//	    graph.NewTagGuard(FunctionNodeTag, FunctionNodeVersion, nil),
//	    func(n graph.Node) FunctionNode { return FunctionNode{n} })
//
// Views extend one another by embedding: a view whose guard names a parent
// guard is only valid while the parent view is valid too.
//
// # Casting
//
//   - n.Is(class): the node currently satisfies the view
//   - [TryAsNode]: re-type if compatible, otherwise report false
//   - [AsNode]: re-type; panics on an incompatible node
//   - [InitNode]: apply a [Builder] in place and re-type in one step
//
// Casting never mutates. Only Init writes records, and records are never
// removed, so a handle does not silently downgrade.
//
// # Collections
//
// [Collection] is an ordered, ID-deduplicated set of handles or views.
// [AsNodes] keeps the members that satisfy a view, re-typed:
//
//	fns := graph.AsNodes(g.Nodes(), flow.FunctionNodeClass)
//
// # Registry
//
// [RegisterRecord] associates a tag with a record factory so persisted
// records can be decoded back into their Go types.
//
// # Concurrency
//
// Handles are not safe for concurrent use; they share the store's single
// writer model. The record registry is safe for concurrent use.
package graph
