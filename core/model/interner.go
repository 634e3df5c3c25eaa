package model

// Interner maps every type-name string encountered in one version to a
// dense TypeID, and back. It is append-only: a name's ID never changes once
// assigned, matching the "type's kind is never mutated after first
// registration" invariant that lives one layer up in Type.
type Interner struct {
	byName map[string]TypeID
	names  []string
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{byName: make(map[string]TypeID)}
}

// Intern returns the TypeID for name, allocating a new one if this is the
// first time name has been seen.
func (in *Interner) Intern(name string) TypeID {
	if id, ok := in.byName[name]; ok {
		return id
	}
	id := TypeID(len(in.names))
	in.names = append(in.names, name)
	in.byName[name] = id
	return id
}

// Lookup returns the TypeID already assigned to name, if any.
func (in *Interner) Lookup(name string) (TypeID, bool) {
	id, ok := in.byName[name]
	return id, ok
}

// Name returns the canonical name for id. Panics on an out-of-range id,
// which indicates a bug in the caller (every handle stored in the model is
// guaranteed to have been produced by Intern).
func (in *Interner) Name(id TypeID) string {
	if id == NoType {
		return ""
	}
	return in.names[id]
}

// Len returns the number of distinct names interned so far.
func (in *Interner) Len() int {
	return len(in.names)
}

// Names returns every interned name in assignment order. The slice must not
// be mutated by the caller.
func (in *Interner) Names() []string {
	return in.names
}
