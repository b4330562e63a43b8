package store

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*Graph)
		node    Node
		wantErr error
	}{
		{name: "valid", node: Node{ID: "a"}},
		{name: "empty ID", node: Node{}, wantErr: ErrInvalidID},
		{
			name:    "duplicate node",
			setup:   func(g *Graph) { _, _ = g.AddNode(Node{ID: "a"}) },
			node:    Node{ID: "a"},
			wantErr: ErrDuplicateID,
		},
		{
			name: "collides with edge ID",
			setup: func(g *Graph) {
				_, _ = g.AddNode(Node{ID: "x"})
				_, _ = g.AddEdge(Edge{ID: "a", From: "x", To: "x"})
			},
			node:    Node{ID: "a"},
			wantErr: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			if tt.setup != nil {
				tt.setup(g)
			}
			n, err := g.AddNode(tt.node)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && (n.Data == nil || n.Scratch == nil) {
				t.Error("AddNode() should initialize data maps")
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	_, _ = g.AddNode(Node{ID: "a"})
	_, _ = g.AddNode(Node{ID: "b"})

	if _, err := g.AddEdge(Edge{ID: "e1", From: "missing", To: "b"}); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("AddEdge() error = %v, want %v", err, ErrUnknownSource)
	}
	if _, err := g.AddEdge(Edge{ID: "e1", From: "a", To: "missing"}); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("AddEdge() error = %v, want %v", err, ErrUnknownTarget)
	}
	if _, err := g.AddEdge(Edge{From: "a", To: "b"}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("AddEdge() error = %v, want %v", err, ErrInvalidID)
	}

	e, err := g.AddEdge(Edge{ID: "e1", From: "a", To: "b"})
	if err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	if e.Data == nil {
		t.Error("AddEdge() should initialize data map")
	}
	if len(g.Outgoing("a")) != 1 || len(g.Incoming("b")) != 1 {
		t.Errorf("degrees = (%d, %d), want (1, 1)", len(g.Outgoing("a")), len(g.Incoming("b")))
	}
}

func TestRemoveNodeRemovesIncidentEdges(t *testing.T) {
	g := New(WithIDGenerator(Sequential("n")))
	a, b, c := g.NewNode(), g.NewNode(), g.NewNode()
	_, _ = g.NewEdge(a.ID, b.ID)
	_, _ = g.NewEdge(b.ID, c.ID)
	_, _ = g.NewEdge(b.ID, b.ID)

	if !g.RemoveNode(b.ID) {
		t.Fatal("RemoveNode() = false, want true")
	}
	if g.RemoveNode(b.ID) {
		t.Error("second RemoveNode() = true, want false")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
	if g.Outgoing(a.ID) != nil || g.Incoming(c.ID) != nil {
		t.Error("adjacency should be cleaned up after RemoveNode")
	}
	if _, ok := g.Node(b.ID); ok {
		t.Error("Node() should not resolve a removed node")
	}
	if got := nodeIDs(g.Nodes()); !slices.Equal(got, []string{"n0", "n2"}) {
		t.Errorf("Nodes() = %v, want [n0 n2]", got)
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New(WithIDGenerator(Sequential("id")))
	for range 5 {
		g.NewNode()
	}
	want := []string{"id0", "id1", "id2", "id3", "id4"}
	if got := nodeIDs(g.Nodes()); !slices.Equal(got, want) {
		t.Errorf("Nodes() = %v, want %v", got, want)
	}
}

func TestFreshIDSkipsTakenIDs(t *testing.T) {
	g := New(WithIDGenerator(Sequential("n")))
	_, _ = g.AddNode(Node{ID: "n0"})
	n := g.NewNode()
	if n.ID != "n1" {
		t.Errorf("NewNode().ID = %q, want %q", n.ID, "n1")
	}
}

func TestSubgraph(t *testing.T) {
	g := New(WithIDGenerator(Sequential("n")))
	g.Data()["graph"] = "value"
	a, b, c := g.NewNode(), g.NewNode(), g.NewNode()
	a.Data["tag"] = "value"
	_, _ = g.NewEdge(a.ID, b.ID)
	_, _ = g.NewEdge(b.ID, c.ID)

	sub := g.Subgraph(func(id string) bool { return id != c.ID }, WithIDGenerator(Sequential("s")))
	if got := nodeIDs(sub.Nodes()); !slices.Equal(got, []string{a.ID, b.ID}) {
		t.Errorf("Subgraph().Nodes() = %v, want [%s %s]", got, a.ID, b.ID)
	}
	if sub.EdgeCount() != 1 {
		t.Errorf("Subgraph().EdgeCount() = %d, want 1", sub.EdgeCount())
	}
	if sub.Data()["graph"] != "value" {
		t.Errorf("Subgraph().Data() = %v, want the graph data", sub.Data())
	}

	sa, _ := sub.Node(a.ID)
	sa.Data["tag"] = "changed"
	sub.Data()["graph"] = "changed"
	sub.RemoveNode(b.ID)
	if a.Data["tag"] != "value" || g.Data()["graph"] != "value" {
		t.Error("Subgraph() shares data maps with the original")
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Error("Subgraph() shares structure with the original")
	}
	if n := sub.NewNode(); n.ID != "s0" {
		t.Errorf("Subgraph().NewNode().ID = %q, want s0", n.ID)
	}
	if n := g.NewNode(); n.ID != "n5" {
		t.Errorf("NewNode().ID = %q, want n5", n.ID)
	}
}

func nodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
