package graph

// TypeGuard decides whether an element's current data satisfies a view.
// A false result is a normal answer, not a failure: callers use it to
// decide whether a cast is safe.
type TypeGuard interface {
	IsDataCompatible(data Data) bool
	IsScratchDataCompatible(scratch Data) bool
}

// TagGuard accepts data whose Tag entry is a Record at exactly Version,
// and which also satisfies Parent when Parent is set.
//
// Only exact version matches are accepted. A version bump is a breaking
// change and needs explicit migration.
type TagGuard struct {
	Tag     string
	Version string
	Parent  TypeGuard
}

// NewTagGuard builds the guard for a view identified by tag and version
// that extends the view guarded by parent (nil for a root view).
func NewTagGuard(tag, version string, parent TypeGuard) TagGuard {
	return TagGuard{Tag: tag, Version: version, Parent: parent}
}

// IsDataCompatible implements TypeGuard.
func (g TagGuard) IsDataCompatible(data Data) bool {
	if g.Parent != nil && !g.Parent.IsDataCompatible(data) {
		return false
	}
	rec, ok := data[g.Tag].(Record)
	return ok && rec.RecordVersion() == g.Version
}

// IsScratchDataCompatible implements TypeGuard. Scratch entries are
// optional, so only the parent chain is consulted.
func (g TagGuard) IsScratchDataCompatible(scratch Data) bool {
	return g.Parent == nil || g.Parent.IsScratchDataCompatible(scratch)
}

// TypedTagGuard is a TagGuard that also requires the record under Tag to
// have the concrete type R. Views whose methods read their record through
// [RecordOf] use it so that an undecoded record at the right version is
// not mistaken for theirs.
type TypedTagGuard[R Record] struct {
	TagGuard
}

// NewTypedTagGuard is NewTagGuard for a record of type R.
func NewTypedTagGuard[R Record](tag, version string, parent TypeGuard) TypedTagGuard[R] {
	return TypedTagGuard[R]{TagGuard: NewTagGuard(tag, version, parent)}
}

// IsDataCompatible implements TypeGuard.
func (g TypedTagGuard[R]) IsDataCompatible(data Data) bool {
	if !g.TagGuard.IsDataCompatible(data) {
		return false
	}
	_, ok := data[g.Tag].(R)
	return ok
}

// DataCheck adapts a predicate over the data map to a TypeGuard that
// accepts any scratch data.
type DataCheck func(data Data) bool

// IsDataCompatible implements TypeGuard.
func (f DataCheck) IsDataCompatible(data Data) bool { return f(data) }

// IsScratchDataCompatible implements TypeGuard.
func (f DataCheck) IsScratchDataCompatible(Data) bool { return true }

type allGuards []TypeGuard

// AllGuards returns a guard that holds when every given guard holds.
func AllGuards(guards ...TypeGuard) TypeGuard {
	return allGuards(guards)
}

func (a allGuards) IsDataCompatible(data Data) bool {
	for _, g := range a {
		if !g.IsDataCompatible(data) {
			return false
		}
	}
	return true
}

func (a allGuards) IsScratchDataCompatible(scratch Data) bool {
	for _, g := range a {
		if !g.IsScratchDataCompatible(scratch) {
			return false
		}
	}
	return true
}
