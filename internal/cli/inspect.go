package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/graph"
)

// functionStats summarizes one function's control-flow subgraph.
type functionStats struct {
	Name       string
	Nodes      int
	Edges      int
	Conditions int
	Loops      int
	Exits      int
}

// collectStats returns the stats of every live function in registration
// order.
func collectStats(fg flow.FlowGraph) []functionStats {
	var stats []functionStats
	for fn := range fg.Functions().All() {
		s := functionStats{Name: fn.Name(), Exits: fn.Exits().Len()}
		for n := range fn.ControlFlowNodes().All() {
			s.Nodes++
			s.Edges += n.ControlFlowEdges().Len()
			if fl, ok := graph.TryAsNode(n.Node, flow.FlowNodeClass); ok {
				switch fl.Kind() {
				case flow.KindCondition:
					s.Conditions++
				case flow.KindLoop:
					s.Loops++
				}
			}
		}
		stats = append(stats, s)
	}
	return stats
}

// inspectCommand creates the inspect command, which prints a summary of
// each function in a Go file or snapshot.
func (c *CLI) inspectCommand() *cobra.Command {
	var comments bool

	cmd := &cobra.Command{
		Use:   "inspect <file.go|snapshot>",
		Short: "Summarize the functions of a flow graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fg, err := c.loadFlowGraph(cmd.Context(), args[0], comments)
			if err != nil {
				return err
			}
			stats := collectStats(fg)
			w := cmd.OutOrStdout()
			if len(stats) == 0 {
				printInfo(w, "No functions in %s", args[0])
				return nil
			}

			rows := make([][]string, 0, len(stats))
			for _, s := range stats {
				rows = append(rows, []string{
					s.Name,
					strconv.Itoa(s.Nodes),
					strconv.Itoa(s.Edges),
					strconv.Itoa(s.Conditions),
					strconv.Itoa(s.Loops),
					strconv.Itoa(s.Exits),
				})
			}
			fmt.Fprintln(w, StyleTitle.Render(args[0]))
			fmt.Fprintln(w, renderTable(
				[]string{"function", "nodes", "edges", "conditions", "loops", "exits"},
				rows,
				map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
			))
			printDetail(w, "%d functions · %d nodes · %d edges", len(stats), fg.NodeCount(), fg.EdgeCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&comments, "comments", false, "lower comments inside function bodies (Go input)")

	return cmd
}
