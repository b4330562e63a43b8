// Package golang lowers Go source files into flow graphs.
//
// Parsing uses tree-sitter, so the frontend needs no type information and
// accepts single files that do not compile as a package. The lowering is
// structural: it records where control can go, never what values flow.
//
// # Shape
//
// Every function and method becomes a [flow.FunctionNode]. Methods are
// registered as "Recv.Name" with pointers and type parameters stripped from
// the receiver; repeated names such as several init functions get a "#2",
// "#3", ... suffix. Inside a function:
//
//   - a function_entry instruction starts the chain
//   - each statement is a statement instruction
//   - nested blocks and case clauses open with scope_start and close with
//     scope_end; the closing node is omitted when the block cannot finish
//   - if and switch headers are condition nodes with true and false edges
//   - for headers are loop nodes; the body returns to them over a
//     back_edge, and break and continue produce edges of their own kind
//   - return statements jump to the single [flow.ControlFlowEndNode],
//     which is also the function_exit instruction
//
// Statements that follow a return are still lowered; they simply have no
// predecessors. Comments inside function bodies become comment instructions
// when [Options.IncludeComments] is set.
//
// Every node carries a [SourceRef] in its scratch data.
//
// # Usage
//
//	fg, err := golang.ParseFile(ctx, "main.go", golang.Options{})
//	if err != nil {
//	    return err
//	}
//	for fn := range fg.Functions().All() {
//	    fmt.Println(fn.Name(), fn.ControlFlowNodes().Len())
//	}
package golang
