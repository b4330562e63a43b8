package flow

import "github.com/matzehuels/flowgraph/pkg/graph"

func init() {
	graph.RegisterRecord(FlowGraphTag, func() graph.Record { return &FlowGraphRecord{} })
	graph.RegisterRecord(FunctionNodeTag, func() graph.Record { return &FunctionNodeRecord{} })
	graph.RegisterRecord(ControlFlowNodeTag, func() graph.Record { return &ControlFlowNodeRecord{} })
	graph.RegisterRecord(ControlFlowEndNodeTag, func() graph.Record { return &ControlFlowEndNodeRecord{} })
	graph.RegisterRecord(ControlFlowEdgeTag, func() graph.Record { return &ControlFlowEdgeRecord{} })
	graph.RegisterRecord(FlowNodeTag, func() graph.Record { return &FlowNodeRecord{} })
}
