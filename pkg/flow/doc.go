// Package flow specializes the generic graph for program structure.
//
// A [FlowGraph] is a graph view carrying a registry of named functions.
// Each function is a [FunctionNode]; the nodes that make up its body are
// [ControlFlowNode] views that point back at it, connected by
// [ControlFlowEdge] views. A function conventionally has exactly one
// [ControlFlowEndNode], but any control-flow node without outgoing
// control-flow edges is an exit, so [FunctionNode.Exits] does not depend on
// the end-node tag.
//
// [FlowNode] is a parallel chain classifying a node by its general kind
// (instruction, condition, loop). Package instruction refines it further.
// The two chains are independent views; a frontend may attach both to the
// same node.
//
// # Function Registry
//
// The registry maps a function name to a node ID. Entries are hints: a
// name whose node was removed, or no longer carries the FunctionNode
// record, is reported as absent and does not block re-registration.
// Nothing purges such entries eagerly.
//
//	fg := flow.New()
//	main, err := fg.AddFunction("main")
//	if err != nil {
//	    return err // DUPLICATE_FUNCTION
//	}
//	end := graph.InitNode(fg.AddNode(), flow.NewControlFlowEndNodeBuilder(main, nil))
//
// Adding a function under a name that is currently valid returns an error
// with code DUPLICATE_FUNCTION. Callers that allow overloading must mangle
// names themselves.
package flow
