package model

import "fmt"

// Version is the owned bundle of one analyzed library version: its
// interner, its Type/Method tables, and a lock that turns on once
// detection begins. No pass outside this package writes to a Version after
// Freeze is called — a read-phase barrier.
type Version struct {
	Label string // "version1"/"version2" CLI label, or derived from the archive

	Names *Interner

	types       map[TypeID]*Type
	methodsByID map[MethodID]*Method
	nextMethod  MethodID

	// methodsByClass indexes methods declared directly on a class, used by
	// the merge pass's receiver-class and hierarchy-walk logic.
	methodsByClass map[TypeID][]*Method

	// constructible records classes with at least one public/protected
	// constructor, or classes reachable as a supertype of such a class —
	// the "constructible or extensible" predicate checked before a
	// non-static method's changes are even considered, since an
	// unconstructible class can never have an external client holding an
	// instance.
	constructible map[TypeID]bool

	frozen bool
}

// NewVersion creates an empty Version bundle labeled label.
func NewVersion(label string) *Version {
	return &Version{
		Label:          label,
		Names:          NewInterner(),
		types:          make(map[TypeID]*Type),
		methodsByID:    make(map[MethodID]*Method),
		methodsByClass: make(map[TypeID][]*Method),
		constructible:  make(map[TypeID]bool),
	}
}

// Freeze flips the read-phase barrier. Further calls to the mutating
// methods below panic, since a pass running after detection begins writing
// to the model is a bug, not a recoverable condition. Freeze also runs
// constructibility propagation, since by this point every type's
// SuperClass/SuperInterfaces links are fully populated.
func (v *Version) Freeze() {
	v.propagateConstructibility()
	v.frozen = true
}

// propagateConstructibility extends the directly-recorded constructible
// set (classes the disassembler saw a public/protected constructor on) up
// through every supertype reachable from one: an instance of a
// constructible subclass exposes its inherited ancestors' members through
// that same object, so a change to an ancestor is exactly as observable as
// one to the subclass itself.
func (v *Version) propagateConstructibility() {
	seeds := make([]TypeID, 0, len(v.constructible))
	for id := range v.constructible {
		seeds = append(seeds, id)
	}
	for _, id := range seeds {
		v.WalkSupers(id, func(ancestor TypeID) bool {
			v.constructible[ancestor] = true
			return true
		})
	}
}

func (v *Version) checkWritable() {
	if v.frozen {
		panic("model: write to frozen Version " + v.Label)
	}
}

// InternType interns name and ensures a Type record exists for it,
// returning the existing one if already registered.
func (v *Version) InternType(name string) *Type {
	v.checkWritable()
	id := v.Names.Intern(name)
	if t, ok := v.types[id]; ok {
		return t
	}
	t := NewType(id, name)
	v.types[id] = t
	return t
}

// Type returns the Type record for id, or nil if unregistered.
func (v *Version) Type(id TypeID) *Type {
	if id == NoType {
		return nil
	}
	return v.types[id]
}

// TypeByName looks up a Type by its canonical name without allocating.
func (v *Version) TypeByName(name string) (*Type, bool) {
	id, ok := v.Names.Lookup(name)
	if !ok {
		return nil, false
	}
	t, ok := v.types[id]
	return t, ok
}

// Types returns every registered Type, in no particular order.
func (v *Version) Types() []*Type {
	out := make([]*Type, 0, len(v.types))
	for _, t := range v.types {
		out = append(out, t)
	}
	return out
}

// NewMethod allocates and registers a Method on cls, assigning it the next
// MethodID in this Version.
func (v *Version) NewMethod(cls TypeID) *Method {
	v.checkWritable()
	id := v.nextMethod
	v.nextMethod++
	m := NewMethod(id)
	m.Class = cls
	v.methodsByID[id] = m
	v.methodsByClass[cls] = append(v.methodsByClass[cls], m)
	return m
}

// Method returns the Method record for id.
func (v *Version) Method(id MethodID) *Method {
	return v.methodsByID[id]
}

// Methods returns every registered method, in no particular order.
func (v *Version) Methods() []*Method {
	out := make([]*Method, 0, len(v.methodsByID))
	for _, m := range v.methodsByID {
		out = append(out, m)
	}
	return out
}

// MethodsOn returns the methods declared directly on cls (not inherited).
func (v *Version) MethodsOn(cls TypeID) []*Method {
	return v.methodsByClass[cls]
}

// MarkConstructible records that cls has at least one externally visible
// constructor (or is reachable as a supertype of one).
func (v *Version) MarkConstructible(cls TypeID) {
	v.checkWritable()
	v.constructible[cls] = true
}

// IsConstructible reports whether cls (or any of its subclasses analyzed so
// far) has a public or protected constructor — the "constructible or
// extensible" gate.
func (v *Version) IsConstructible(cls TypeID) bool {
	return v.constructible[cls]
}

// ResolveMethod finds the method with shortName and the given parameter
// type ids declared directly on cls. The diff's hierarchy-walk checks
// match methods by name-based signature keys and do not call it.
func (v *Version) ResolveMethod(cls TypeID, shortName string, params []TypeID) (*Method, bool) {
	for _, m := range v.methodsByClass[cls] {
		if m.ShortName != shortName || len(m.Params) != len(params) {
			continue
		}
		match := true
		for i, p := range m.ParamTypeDescriptors() {
			if p != params[i] {
				match = false
				break
			}
		}
		if match {
			return m, true
		}
	}
	return nil, false
}

// WalkSupers calls fn for cls and then, depth-first, every super-class and
// super-interface reachable from it. fn returning false for a type stops
// the walk from descending past that type (but siblings are still
// visited). A visited-set guards against cycles in malformed hierarchies.
func (v *Version) WalkSupers(cls TypeID, fn func(TypeID) bool) {
	visited := make(map[TypeID]bool)
	var walk func(TypeID)
	walk = func(id TypeID) {
		if id == NoType || visited[id] {
			return
		}
		visited[id] = true
		if !fn(id) {
			return
		}
		t := v.Type(id)
		if t == nil {
			return
		}
		walk(t.SuperClass)
		for iface := range t.SuperInterfaces {
			walk(iface)
		}
	}
	walk(cls)
}

// String gives a debug-friendly label for error messages.
func (v *Version) String() string {
	return fmt.Sprintf("Version(%s, %d types, %d methods)", v.Label, len(v.types), len(v.methodsByID))
}
