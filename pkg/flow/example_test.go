package flow_test

import (
	"fmt"

	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

func ExampleFlowGraph_AddFunction() {
	fg := flow.New()
	main, _ := fg.AddFunction("main")

	entry := graph.InitNode(fg.AddNode(), flow.NewControlFlowNodeBuilder(main, nil))
	end := graph.InitNode(fg.AddNode(), flow.NewControlFlowEndNodeBuilder(main, nil))
	_, _ = fg.Connect(entry, end, flow.EdgeUnconditional)

	_, err := fg.AddFunction("main")
	fmt.Println("duplicate:", err != nil)
	fmt.Println("nodes in main:", main.ControlFlowNodes().Len())
	fmt.Println("exits:", main.Exits().Len())

	main.Remove()
	fmt.Println("has main:", fg.HasFunction("main"))
	// Output:
	// duplicate: true
	// nodes in main: 2
	// exits: 1
	// has main: false
}

func ExampleFlowGraph_Functions() {
	fg := flow.New()
	for _, name := range []string{"parse", "render", "main"} {
		_, _ = fg.AddFunction(name)
	}
	for fn := range fg.Functions().All() {
		fmt.Println(fn.Name())
	}
	// Output:
	// parse
	// render
	// main
}
