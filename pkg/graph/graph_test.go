package graph

import (
	"maps"
	"testing"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/store"
)

func TestFreshNodeSatisfiesNoView(t *testing.T) {
	g := New()
	n := g.AddNode()

	if n.Is(animalClass) {
		t.Error("fresh node Is(animal) = true, want false")
	}
	if n.Is(dogClass) {
		t.Error("fresh node Is(dog) = true, want false")
	}
	if _, ok := TryAsNode(n, animalClass); ok {
		t.Error("TryAsNode(fresh, animal) ok = true, want false")
	}
}

func TestInitNode(t *testing.T) {
	g := New()
	d := InitNode(g.AddNode(), newDogBuilder("rex", "collie"))

	if !d.Is(dogClass) {
		t.Error("built dog Is(dog) = false, want true")
	}
	if !d.Is(animalClass) {
		t.Error("built dog Is(animal) = false, want true")
	}
	if got := d.name(); got != "rex" {
		t.Errorf("name() = %q, want %q", got, "rex")
	}
	rec, ok := RecordOf[*dogRecord](d.Data(), dogTag)
	if !ok || rec.Breed != "collie" {
		t.Errorf("dog record = %+v, %v; want breed collie", rec, ok)
	}
}

func TestParentViewDoesNotImplyChild(t *testing.T) {
	g := New()
	a := InitNode(g.AddNode(), animalBuilder{name: "cat"})

	if !a.Is(animalClass) {
		t.Fatal("Is(animal) = false, want true")
	}
	if a.Is(dogClass) {
		t.Error("animal Is(dog) = true, want false")
	}
	if _, ok := TryAsNode(a.Base(), dogClass); ok {
		t.Error("TryAsNode(animal, dog) ok = true, want false")
	}
}

func TestChildGuardRequiresParent(t *testing.T) {
	g := New()
	n := g.AddNode()
	// A dog record without its animal record is not a dog.
	n.Data()[dogTag] = &dogRecord{Version: dogVersion}

	if n.Is(dogClass) {
		t.Error("Is(dog) without parent record = true, want false")
	}
}

func TestVersionMismatch(t *testing.T) {
	g := New()
	n := g.AddNode()
	n.Data()[animalTag] = &animalRecord{Version: "0", Name: "old"}

	if n.Is(animalClass) {
		t.Error("Is(animal) with version 0 = true, want false")
	}
}

func TestWrongRecordTypeUnderTag(t *testing.T) {
	g := New()
	n := g.AddNode()
	n.Data()[animalTag] = "not a record"

	if n.Is(animalClass) {
		t.Error("Is(animal) with non-record value = true, want false")
	}
}

func TestAsNodePanicsOnIncompatible(t *testing.T) {
	g := New()
	n := g.AddNode()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("AsNode did not panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value = %T, want error", r)
		}
		if !errors.Is(err, errors.ErrCodeIncompatibleView) {
			t.Errorf("panic code = %v, want %v", errors.GetCode(err), errors.ErrCodeIncompatibleView)
		}
	}()
	AsNode(n, animalClass)
}

func TestBuilderDoesNotMutateInput(t *testing.T) {
	in := Data{"other": &animalRecord{Version: "9"}}
	before := maps.Clone(in)

	out := newDogBuilder("rex", "pug").BuildData(in)

	if len(in) != len(before) {
		t.Errorf("input grew to %d entries, want %d", len(in), len(before))
	}
	if _, ok := in[dogTag]; ok {
		t.Error("builder wrote into its input map")
	}
	if out["other"] != before["other"] {
		t.Error("builder dropped an unrelated tag")
	}
	if len(out) != 3 {
		t.Errorf("len(out) = %d, want 3", len(out))
	}
}

func TestUnrelatedViewsCoexist(t *testing.T) {
	g := New()
	n := g.AddNode()
	n.Data()["__test__other"] = &edgeRecord{Version: "1"}

	d := InitNode(n, newDogBuilder("a", "b"))
	other := NewTagGuard("__test__other", "1", nil)

	if !d.Is(other) {
		t.Error("unrelated record lost after Init")
	}
	if !d.Is(dogClass) {
		t.Error("Is(dog) = false after Init")
	}
}

func TestRemovedNode(t *testing.T) {
	g := New()
	d := InitNode(g.AddNode(), newDogBuilder("a", "b"))

	if !d.Remove() {
		t.Fatal("Remove() = false, want true")
	}
	if d.Is(dogClass) {
		t.Error("removed node Is(dog) = true, want false")
	}
	if d.Exists() {
		t.Error("Exists() = true after Remove")
	}
	if d.Data() != nil {
		t.Error("Data() of removed node is not nil")
	}
	if d.Remove() {
		t.Error("second Remove() = true, want false")
	}

	defer func() {
		if recover() == nil {
			t.Error("Init on removed node did not panic")
		}
	}()
	d.Init(animalBuilder{})
}

func TestEdgeViews(t *testing.T) {
	g := New()
	a, b := g.AddNode(), g.AddNode()
	e, err := g.AddEdge(a, b)
	if err != nil {
		t.Fatalf("AddEdge() error: %v", err)
	}
	if e.Is(leashClass) {
		t.Error("fresh edge Is(leash) = true")
	}

	l := InitEdge(e, leashBuilder{})
	if l.Source().ID() != a.ID() || l.Target().ID() != b.ID() {
		t.Errorf("endpoints = %s->%s, want %s->%s", l.Source().ID(), l.Target().ID(), a.ID(), b.ID())
	}
	if got := AsEdges(a.Outgoing(), leashClass).Len(); got != 1 {
		t.Errorf("AsEdges(outgoing).Len() = %d, want 1", got)
	}
}

func TestGraphViews(t *testing.T) {
	g := New()
	if _, ok := TryAsGraph(g, zooClass); ok {
		t.Error("fresh graph TryAsGraph(zoo) ok = true")
	}
	z := InitGraph(g, zooBuilder{})
	if !z.Is(zooClass) {
		t.Error("Is(zoo) = false after InitGraph")
	}
	if z.Base() != g {
		t.Error("Base() does not return the wrapped graph")
	}
}

func TestAddEdgeRejectsForeignNode(t *testing.T) {
	g1, g2 := New(), New()
	a := g1.AddNode()
	b := g2.AddNode()

	_, err := g1.AddEdge(a, b)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("AddEdge(foreign) error = %v, want INVALID_INPUT", err)
	}
}

func TestSharedStore(t *testing.T) {
	s := store.New(store.WithIDGenerator(store.Sequential("n")))
	g1, g2 := FromStore(s), FromStore(s)

	n := InitNode(g1.AddNode(), animalBuilder{name: "shared"})
	got, ok := g2.Node(n.ID())
	if !ok {
		t.Fatal("node not visible through second handle")
	}
	if !got.Is(animalClass) {
		t.Error("second handle does not see the animal record")
	}
}

func TestSuccessorsAndPredecessors(t *testing.T) {
	g := New(store.WithIDGenerator(store.Sequential("x")))
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	for _, pair := range [][2]Node{{a, b}, {a, c}, {a, b}} {
		if _, err := g.AddEdge(pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}

	if got, want := a.Successors().IDs(), []string{b.ID(), c.ID()}; !equalStrings(got, want) {
		t.Errorf("Successors() = %v, want %v", got, want)
	}
	if got, want := b.Predecessors().IDs(), []string{a.ID()}; !equalStrings(got, want) {
		t.Errorf("Predecessors() = %v, want %v", got, want)
	}
	if got := a.Outgoing().Len(); got != 3 {
		t.Errorf("Outgoing().Len() = %d, want 3", got)
	}
}

func TestAllGuards(t *testing.T) {
	g := New()
	n := InitNode(g.AddNode(), animalBuilder{name: "kit"})

	named := DataCheck(func(d Data) bool {
		r, ok := RecordOf[*animalRecord](d, animalTag)
		return ok && r.Name == "kit"
	})
	if !n.Is(AllGuards(animalClass, named)) {
		t.Error("AllGuards(animal, named) = false, want true")
	}
	if n.Is(AllGuards(animalClass, named, dogClass)) {
		t.Error("AllGuards(animal, named, dog) = true, want false")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTypedTagGuard(t *testing.T) {
	g := New()
	n := g.AddNode()
	n.Data()[animalTag] = &OpaqueRecord{Fields: map[string]any{"version": animalVersion}}

	if !n.Is(NewTagGuard(animalTag, animalVersion, nil)) {
		t.Error("TagGuard rejected an opaque record at the right version")
	}
	if n.Is(NewTypedTagGuard[*animalRecord](animalTag, animalVersion, nil)) {
		t.Error("TypedTagGuard accepted an opaque record")
	}

	InitNode(n, animalBuilder{name: "x"})
	if !n.Is(NewTypedTagGuard[*animalRecord](animalTag, animalVersion, nil)) {
		t.Error("TypedTagGuard rejected a built record")
	}
}
