package graph

import "maps"

// A two-level test view chain: animal -> dog.

const (
	animalTag     = "__test__animal"
	animalVersion = "1"
	dogTag        = "__test__dog"
	dogVersion    = "2"
)

type animalRecord struct {
	Version string
	Name    string
}

func (r *animalRecord) RecordVersion() string { return r.Version }

type dogRecord struct {
	Version string
	Breed   string
}

func (r *dogRecord) RecordVersion() string { return r.Version }

type animal struct{ Node }

func (a animal) name() string {
	r, _ := RecordOf[*animalRecord](a.Data(), animalTag)
	return r.Name
}

type dog struct{ animal }

var (
	animalGuard = NewTagGuard(animalTag, animalVersion, nil)
	animalClass = NewNodeClass("animal", animalGuard, func(n Node) animal { return animal{n} })
	dogClass    = NewNodeClass("dog", NewTagGuard(dogTag, dogVersion, animalClass),
		func(n Node) dog { return dog{animal{n}} })
)

type animalBuilder struct{ name string }

func (b animalBuilder) BuildData(data Data) Data {
	return Extend(data, animalTag, &animalRecord{Version: animalVersion, Name: b.name})
}

func (b animalBuilder) BuildScratchData(scratch Data) Data { return maps.Clone(scratch) }

func (b animalBuilder) NodeClass() NodeClass[animal] { return animalClass }

type dogBuilder struct {
	parent animalBuilder
	breed  string
}

func newDogBuilder(name, breed string) dogBuilder {
	return dogBuilder{parent: animalBuilder{name: name}, breed: breed}
}

func (b dogBuilder) BuildData(data Data) Data {
	return Extend(b.parent.BuildData(data), dogTag, &dogRecord{Version: dogVersion, Breed: b.breed})
}

func (b dogBuilder) BuildScratchData(scratch Data) Data {
	return b.parent.BuildScratchData(scratch)
}

func (b dogBuilder) NodeClass() NodeClass[dog] { return dogClass }

type edgeRecord struct{ Version string }

func (r *edgeRecord) RecordVersion() string { return r.Version }

type leash struct{ Edge }

var leashClass = NewEdgeClass("leash", NewTagGuard("__test__leash", "1", nil), func(e Edge) leash { return leash{e} })

type leashBuilder struct{}

func (leashBuilder) BuildData(data Data) Data {
	return Extend(data, "__test__leash", &edgeRecord{Version: "1"})
}
func (leashBuilder) BuildScratchData(scratch Data) Data { return scratch }
func (leashBuilder) EdgeClass() EdgeClass[leash]       { return leashClass }

type zoo struct{ *Graph }

var zooClass = NewGraphClass("zoo", NewTagGuard("__test__zoo", "1", nil), func(g *Graph) zoo { return zoo{g} })

type zooBuilder struct{}

func (zooBuilder) BuildData(data Data) Data {
	return Extend(data, "__test__zoo", &edgeRecord{Version: "1"})
}
func (zooBuilder) BuildScratchData(scratch Data) Data { return scratch }
func (zooBuilder) GraphClass() GraphClass[zoo]        { return zooClass }
