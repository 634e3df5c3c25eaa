// Package report defines the Problem record — the output of the
// difference detector and the unit the problem classifier annotates with
// severities — plus the Report container and its JSON emitter.
package report

import "github.com/lvc/japi-compliance-checker/core/model"

// Kind is the closed set of compatibility-problem tags.
type Kind string

const (
	KindAddedMethod                   Kind = "Added_Method"
	KindChangedMethodReturnFromVoid   Kind = "Changed_Method_Return_From_Void"
	KindClassOverriddenMethod         Kind = "Class_Overridden_Method"
	KindRemovedMethod                 Kind = "Removed_Method"
	KindClassMethodMovedUpHierarchy   Kind = "Class_Method_Moved_Up_Hierarchy"

	KindMethodBecameStatic           Kind = "Method_Became_Static"
	KindMethodBecameNonStatic        Kind = "Method_Became_NonStatic"
	KindMethodBecameSynchronized     Kind = "Method_Became_Synchronized"
	KindMethodBecameNonSynchronized  Kind = "Method_Became_NonSynchronized"
	KindNonStaticMethodBecameFinal   Kind = "NonStatic_Method_Became_Final"
	KindStaticMethodBecameFinal      Kind = "Static_Method_Became_Final"
	KindChangedMethodAccess          Kind = "Changed_Method_Access"
	KindMethodBecameAbstract         Kind = "Method_Became_Abstract"
	KindMethodBecameNonAbstract      Kind = "Method_Became_NonAbstract"
	KindClassMethodBecameAbstract    Kind = "Class_Method_Became_Abstract"

	KindNonAbstractMethodAddedCheckedException Kind = "NonAbstract_Method_Added_Checked_Exception"
	KindNonAbstractMethodRemovedCheckedException Kind = "NonAbstract_Method_Removed_Checked_Exception"
	KindAbstractMethodAddedCheckedException     Kind = "Abstract_Method_Added_Checked_Exception"
	KindAbstractMethodRemovedCheckedException   Kind = "Abstract_Method_Removed_Checked_Exception"
	KindAddedUncheckedException                Kind = "Added_Unchecked_Exception"
	KindRemovedUncheckedException              Kind = "Removed_Unchecked_Exception"

	KindNonAbstractClassAddedAbstractMethod Kind = "NonAbstract_Class_Added_Abstract_Method"
	KindAbstractClassAddedAbstractMethod    Kind = "Abstract_Class_Added_Abstract_Method"
	KindInterfaceAddedAbstractMethod        Kind = "Interface_Added_Abstract_Method"
	KindClassRemovedAbstractMethod          Kind = "Class_Removed_Abstract_Method"
	KindInterfaceRemovedAbstractMethod      Kind = "Interface_Removed_Abstract_Method"

	KindClassBecameInterface Kind = "Class_Became_Interface"
	KindInterfaceBecameClass Kind = "Interface_Became_Class"
	KindClassBecameFinal     Kind = "Class_Became_Final"
	KindClassBecameNonFinal  Kind = "Class_Became_NonFinal"
	KindClassBecameAbstract  Kind = "Class_Became_Abstract"
	KindClassBecameNonAbstract Kind = "Class_Became_NonAbstract"

	KindAddedSuperClass                     Kind = "Added_Super_Class"
	KindRemovedSuperClass                   Kind = "Removed_Super_Class"
	KindChangedSuperClass                   Kind = "Changed_Super_Class"
	KindAbstractClassAddedSuperAbstractClass Kind = "Abstract_Class_Added_Super_Abstract_Class"

	KindNonAbstractClassAddedSuperInterface   Kind = "NonAbstract_Class_Added_Super_Interface"
	KindAbstractClassAddedSuperInterface      Kind = "Abstract_Class_Added_Super_Interface"
	KindInterfaceAddedSuperInterface          Kind = "Interface_Added_Super_Interface"
	KindInterfaceAddedSuperConstantInterface  Kind = "Interface_Added_Super_Constant_Interface"
	KindNonAbstractClassRemovedSuperInterface Kind = "NonAbstract_Class_Removed_Super_Interface"
	KindAbstractClassRemovedSuperInterface    Kind = "Abstract_Class_Removed_Super_Interface"
	KindInterfaceRemovedSuperInterface        Kind = "Interface_Removed_Super_Interface"
	KindInterfaceRemovedSuperConstantInterface Kind = "Interface_Removed_Super_Constant_Interface"

	KindRemovedConstantField    Kind = "Removed_Constant_Field"
	KindRemovedNonConstantField Kind = "Removed_NonConstant_Field"
	KindRenamedConstantField    Kind = "Renamed_Constant_Field"
	KindRenamedNonConstantField Kind = "Renamed_NonConstant_Field"
	KindChangedFieldType        Kind = "Changed_Field_Type"
	KindChangedFieldAccess      Kind = "Changed_Field_Access"
	KindChangedFinalFieldValue  Kind = "Changed_Final_Field_Value"
	KindFieldBecameFinal        Kind = "Field_Became_Final"
	KindFieldBecameNonFinal     Kind = "Field_Became_NonFinal"
	KindFieldBecameStatic       Kind = "Field_Became_Static"
	KindConstantFieldBecameStatic Kind = "Constant_Field_Became_Static"
	KindFieldBecameNonStatic    Kind = "Field_Became_NonStatic"
	KindConstantFieldBecameNonStatic Kind = "Constant_Field_Became_NonStatic"
	KindClassAddedField         Kind = "Class_Added_Field"
	KindInterfaceAddedField     Kind = "Interface_Added_Field"
)

// Severity is the four-level compatibility-impact scale.
type Severity string

const (
	SeveritySafe   Severity = "Safe"
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// severityRank gives Severity a total order for the ceiling pass.
var severityRank = map[Severity]int{
	SeveritySafe: 0, SeverityLow: 1, SeverityMedium: 2, SeverityHigh: 3,
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if severityRank[b] > severityRank[a] {
		return b
	}
	return a
}

// Problem is keyed by (MethodID, Kind, Location).
// ClassLevel is true for the additional per-type entries some kinds emit
// (e.g. the "listed once" class-level marker for Method_Became_Abstract),
// in which case MethodID is meaningless and Target carries the type name.
type Problem struct {
	MethodID   model.MethodID
	ClassLevel bool

	Kind     Kind
	Location string // "this", "RetVal", "RetVal.field", "<param>.field", or ""

	TypeName string
	Target   string
	OldValue string
	NewValue string

	ParameterPosition int
	ParameterName     string

	FieldType  string
	FieldValue string

	AddEffect string // narrative refinement, e.g. first caller's name

	BinarySeverity Severity
	SourceSeverity Severity
}

// Key returns the (method, kind, location) triple problems are keyed by.
type Key struct {
	MethodID   model.MethodID
	ClassLevel bool
	Kind       Kind
	Location   string
}

func (p *Problem) Key() Key {
	return Key{MethodID: p.MethodID, ClassLevel: p.ClassLevel, Kind: p.Kind, Location: p.Location}
}

// CeilingKey is the (type, kind, target) triple the severity-ceiling pass
// deduplicates on.
type CeilingKey struct {
	TypeName string
	Kind     Kind
	Target   string
}

func (p *Problem) CeilingKey() CeilingKey {
	return CeilingKey{TypeName: p.TypeName, Kind: p.Kind, Target: p.Target}
}
