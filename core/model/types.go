package model

// Kind is the closed set of Type variants.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindPrimitive Kind = "primitive"
	KindArray     Kind = "array"
)

// Access is the closed set of member/type visibility levels.
type Access string

const (
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
	AccessPrivate   Access = "private"
	AccessPackage   Access = "package-private"
)

// primitiveNames is the closed set of Java primitive type names.
var primitiveNames = map[string]bool{
	"void": true, "boolean": true, "char": true, "byte": true,
	"short": true, "int": true, "float": true, "long": true, "double": true,
}

// IsPrimitiveName reports whether name belongs to the closed primitive set.
func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}

// Modifiers holds the boolean modifier bits shared by Type, Field and
// Method records.
type Modifiers struct {
	Access     Access
	Abstract   bool
	Final      bool
	Static     bool
	Annotation bool
	Deprecated bool
}

// Type is one record per class/interface/array/primitive.
type Type struct {
	ID   TypeID
	Name string // fully qualified, dots as package separator, "[]" suffix for arrays
	Kind Kind

	Package string
	Archive string // source archive's filename; empty for synthetic/unresolved types

	Modifiers

	SuperClass      TypeID // NoType for interfaces and java.lang.Object
	SuperInterfaces map[TypeID]bool

	// Fields is ordered; Position on each Field mirrors its index here, so
	// that field renames can be detected by positional-slot correlation.
	Fields     []*Field
	fieldIndex map[string]int // field name -> index into Fields

	Annotations map[TypeID]bool

	BaseType TypeID // for Kind == KindArray: the element type; NoType otherwise

	kindLocked bool // set once Kind has been assigned; later writes are rejected
}

// NewType allocates a Type record. kind may be changed exactly once more
// after construction via LockKind if the initial registration pre-dated
// full information (e.g. a forward reference created by a type that names
// this one before its own definition is parsed).
func NewType(id TypeID, name string) *Type {
	return &Type{
		ID:              id,
		Name:            name,
		SuperClass:      NoType,
		SuperInterfaces: make(map[TypeID]bool),
		Annotations:     make(map[TypeID]bool),
		BaseType:        NoType,
		fieldIndex:      make(map[string]int),
	}
}

// LockKind assigns kind if the type's kind has not yet been set, and is a
// no-op (not an error) on a second call with the same kind. It panics if
// called with a kind different from one already locked in — that indicates
// a parser bug (the same type name resolving to two different kinds) rather
// than a recoverable condition.
func (t *Type) LockKind(kind Kind) {
	if !t.kindLocked {
		t.Kind = kind
		t.kindLocked = true
		return
	}
	if t.Kind != kind {
		panic("model: type " + t.Name + " kind re-registered as " + string(kind) + ", was " + string(t.Kind))
	}
}

// AddField appends field to the type's ordered Fields slice, assigning its
// Position to the new positional index.
func (t *Type) AddField(f *Field) {
	f.Position = len(t.Fields)
	t.Fields = append(t.Fields, f)
	t.fieldIndex[f.Name] = f.Position
}

// FieldByName returns the field with the given name, if present.
func (t *Type) FieldByName(name string) (*Field, bool) {
	idx, ok := t.fieldIndex[name]
	if !ok {
		return nil, false
	}
	return t.Fields[idx], true
}

// FieldAt returns the field at the given positional slot, used for the
// positional rename-correlation rule in diff's field comparator.
func (t *Type) FieldAt(pos int) (*Field, bool) {
	if pos < 0 || pos >= len(t.Fields) {
		return nil, false
	}
	return t.Fields[pos], true
}

// EmptyStringValue is the sentinel for a zero-length string constant, so
// a later comparator can distinguish "unknown value" (empty Go string)
// from "known empty string literal".
const EmptyStringValue = "EMPTY_STRING"

// Field is one record per class/interface field.
type Field struct {
	Name      string
	Type      TypeID
	Access    Access
	Final     bool
	Static    bool
	Transient bool
	Volatile  bool
	Position  int    // insertion index within the owning Type
	Value     string // compile-time constant as a textual token; EmptyStringValue for ""; "" if not constant
	Mangled   string // canonical descriptor
}

// IsConstant reports whether the field is a compile-time constant eligible
// for inlining at call sites: static, final, and carries a Value.
func (f *Field) IsConstant() bool {
	return f.Static && f.Final && f.Value != ""
}

// Parameter is one method parameter.
type Parameter struct {
	Type TypeID
	Name string // "" if unavailable (parameter-name extraction skipped under quick mode)
}

// Method is one record per method/constructor.
type Method struct {
	ID        MethodID
	ShortName string
	Class     TypeID
	Return    TypeID // NoType for constructors
	Params    []Parameter
	Exceptions map[TypeID]bool

	Modifiers
	Native        bool
	Synchronized  bool
	Constructor   bool

	Annotations map[TypeID]bool
	Archive     string

	// Descriptor is the JVM type descriptor, e.g. "(Ljava/lang/String;)V".
	Descriptor string
}

// CanonicalID renders the canonical method id:
// "[package/]class.\"name\":descriptor".
func (m *Method) CanonicalID(in *Interner) string {
	className := in.Name(m.Class)
	return className + ".\"" + m.ShortName + "\":" + m.Descriptor
}

// NewMethod allocates a Method with its map fields initialized.
func NewMethod(id MethodID) *Method {
	return &Method{
		ID:          id,
		Return:      NoType,
		Class:       NoType,
		Exceptions:  make(map[TypeID]bool),
		Annotations: make(map[TypeID]bool),
	}
}

// ParamTypeDescriptors returns just the parameter type ids, used by
// Version.ResolveMethod to match an overload by parameter types.
func (m *Method) ParamTypeDescriptors() []TypeID {
	out := make([]TypeID, len(m.Params))
	for i, p := range m.Params {
		out[i] = p.Type
	}
	return out
}
