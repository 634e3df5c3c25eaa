package disasm

import (
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/usage"
)

// pendingInvocation is a raw invoke-instruction record collected while
// scanning a method body. Resolution against the completed model (to
// decide whether the target method is declared directly on targetClass)
// happens in a second pass after the whole version has been parsed, since
// the target class may not have been registered yet at the point the
// instruction is seen — forward references are routine in bytecode.
type pendingInvocation struct {
	caller      model.MethodID
	targetClass string
	methodName  string
	descriptor  string // full "class.name:desc" key used in InvokedBy
}

// resolvePendingInvocations performs the second-pass resolution the
// AddedInvokedByClass table requires: for each pending invocation,
// determine whether methodName is declared directly on targetClass in v;
// if not (including when targetClass is unknown to this version at all,
// e.g. a java.* supertype outside the analyzed archive set), additionally
// record an AddedInvokedByClass entry.
func resolvePendingInvocations(v *model.Version, tables *usage.Tables, pending []pendingInvocation) {
	for _, p := range pending {
		declaredDirectly := false
		if t, ok := v.TypeByName(p.targetClass); ok {
			for _, m := range v.MethodsOn(t.ID) {
				if m.ShortName == p.methodName {
					declaredDirectly = true
					break
				}
			}
		}
		tables.RecordInvocation(p.descriptor, p.caller, p.targetClass, p.methodName, declaredDirectly)
	}
}
