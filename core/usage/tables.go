// Package usage holds the per-version bytecode cross-reference tables —
// the "usage tables": which methods invoke which, and (optionally) which
// fields are touched. They are populated by core/disasm
// while scanning method bodies and read only by core/classify's
// context-sensitive severity overrides.
package usage

import "github.com/lvc/japi-compliance-checker/core/model"

// Tables is the usage-recorder state for one version.
type Tables struct {
	// InvokedBy maps an invoked method's descriptor string (as it appears
	// in the class file's constant-pool "//Method" comment, e.g.
	// "com/acme/Foo.bar:(I)V") to the set of caller MethodIDs.
	InvokedBy map[string]map[model.MethodID]bool

	// AddedInvokedByClass maps a target class name to an invoked short
	// method name to the first caller MethodID recorded — only populated
	// for invocations resolving to a method not declared directly on the
	// nominal target class. This asymmetric shape (only the first caller,
	// not the full set) matches its sole use: filling
	// the add_effect narrative field and answering "is there any caller at
	// all" for the no-callers severity downgrade.
	AddedInvokedByClass map[string]map[string]model.MethodID

	// FieldUsedBy maps a field descriptor to the set of caller MethodIDs
	// that read or write it. It is filled only through RecordFieldUse,
	// which core/disasm does not call, so it stays empty after ingestion.
	FieldUsedBy map[string]map[model.MethodID]bool
}

// NewTables creates an empty Tables.
func NewTables() *Tables {
	return &Tables{
		InvokedBy:           make(map[string]map[model.MethodID]bool),
		AddedInvokedByClass: make(map[string]map[string]model.MethodID),
		FieldUsedBy:         make(map[string]map[model.MethodID]bool),
	}
}

// ignoredInvocationPrefixes are targets ignored when recording
// invocations: java.lang/util/io calls and constructor calls carry no
// API-evolution signal for this engine's purposes.
var ignoredInvocationPrefixes = []string{"java/lang/", "java/util/", "java/io/"}

// ShouldIgnoreInvocation reports whether an invoke* target should be
// dropped rather than recorded.
func ShouldIgnoreInvocation(targetClass, methodName string) bool {
	if methodName == "<init>" {
		return true
	}
	for _, p := range ignoredInvocationPrefixes {
		if len(targetClass) >= len(p) && targetClass[:len(p)] == p {
			return true
		}
	}
	return false
}

// RecordInvocation records that caller invokes methodName, identified by
// descriptor, on targetClass. declaredDirectly is false when the method is
// not declared directly on targetClass (the call resolves through
// inheritance); only then is the AddedInvokedByClass entry made.
func (t *Tables) RecordInvocation(descriptor string, caller model.MethodID, targetClass, methodName string, declaredDirectly bool) {
	if t.InvokedBy[descriptor] == nil {
		t.InvokedBy[descriptor] = make(map[model.MethodID]bool)
	}
	t.InvokedBy[descriptor][caller] = true

	if declaredDirectly {
		return
	}
	if t.AddedInvokedByClass[targetClass] == nil {
		t.AddedInvokedByClass[targetClass] = make(map[string]model.MethodID)
	}
	if _, exists := t.AddedInvokedByClass[targetClass][methodName]; !exists {
		t.AddedInvokedByClass[targetClass][methodName] = caller
	}
}

// RecordFieldUse records that caller touches the field identified by
// descriptor.
func (t *Tables) RecordFieldUse(descriptor string, caller model.MethodID) {
	if t.FieldUsedBy[descriptor] == nil {
		t.FieldUsedBy[descriptor] = make(map[model.MethodID]bool)
	}
	t.FieldUsedBy[descriptor][caller] = true
}

// HasCaller reports whether descriptor has at least one recorded caller —
// the "added method is unreachable" test the severity overrides use.
func (t *Tables) HasCaller(descriptor string) bool {
	return len(t.InvokedBy[descriptor]) > 0
}

// HasAddedInvocations reports whether className has any recorded
// AddedInvokedByClass entries at all, used by the
// Interface_Added_Super_Interface-family downgrades.
func (t *Tables) HasAddedInvocations(className string) bool {
	return len(t.AddedInvokedByClass[className]) > 0
}

// FirstCaller returns the first caller recorded for methodName on
// className, for the add_effect narrative field.
func (t *Tables) FirstCaller(className, methodName string) (model.MethodID, bool) {
	m, ok := t.AddedInvokedByClass[className]
	if !ok {
		return 0, false
	}
	id, ok := m[methodName]
	return id, ok
}
