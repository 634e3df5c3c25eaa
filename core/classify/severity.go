// Package classify assigns the binary and source severities to each
// report.Problem the difference detector emits, applies
// the context-sensitive downgrades, and runs the final severity-ceiling
// pass that collapses duplicate (type, kind, target) entries to their max.
package classify

import "github.com/lvc/japi-compliance-checker/core/report"

// binaryTable and sourceTable are the two static severity tables. Every
// report.Kind must appear in both; lookup (called by Classify) panics if
// one is missing,
// the same invariant-violation-panic idiom core/model uses for impossible
// states rather than a silently wrong default.
var binaryTable = map[report.Kind]report.Severity{
	report.KindAddedMethod:                 report.SeveritySafe,
	report.KindChangedMethodReturnFromVoid: report.SeverityHigh,
	report.KindClassOverriddenMethod:       report.SeverityLow,
	report.KindRemovedMethod:               report.SeverityHigh,
	report.KindClassMethodMovedUpHierarchy: report.SeveritySafe,

	report.KindMethodBecameStatic:          report.SeverityHigh,
	report.KindMethodBecameNonStatic:       report.SeverityHigh,
	report.KindMethodBecameSynchronized:    report.SeveritySafe,
	report.KindMethodBecameNonSynchronized: report.SeveritySafe,
	report.KindNonStaticMethodBecameFinal:  report.SeverityHigh,
	report.KindStaticMethodBecameFinal:     report.SeverityMedium,
	report.KindChangedMethodAccess:         report.SeverityHigh,
	report.KindMethodBecameAbstract:        report.SeverityHigh,
	report.KindMethodBecameNonAbstract:     report.SeveritySafe,
	report.KindClassMethodBecameAbstract:   report.SeverityHigh,

	report.KindNonAbstractMethodAddedCheckedException:   report.SeverityLow,
	report.KindNonAbstractMethodRemovedCheckedException: report.SeveritySafe,
	report.KindAbstractMethodAddedCheckedException:      report.SeverityLow,
	report.KindAbstractMethodRemovedCheckedException:    report.SeveritySafe,
	report.KindAddedUncheckedException:                  report.SeveritySafe,
	report.KindRemovedUncheckedException:                report.SeveritySafe,

	report.KindNonAbstractClassAddedAbstractMethod: report.SeverityHigh,
	report.KindAbstractClassAddedAbstractMethod:    report.SeverityMedium,
	report.KindInterfaceAddedAbstractMethod:         report.SeverityMedium,
	report.KindClassRemovedAbstractMethod:           report.SeveritySafe,
	report.KindInterfaceRemovedAbstractMethod:       report.SeveritySafe,

	report.KindClassBecameInterface:    report.SeverityHigh,
	report.KindInterfaceBecameClass:    report.SeverityHigh,
	report.KindClassBecameFinal:        report.SeverityHigh,
	report.KindClassBecameNonFinal:     report.SeveritySafe,
	report.KindClassBecameAbstract:     report.SeverityHigh,
	report.KindClassBecameNonAbstract:  report.SeveritySafe,

	report.KindAddedSuperClass:                      report.SeverityLow,
	report.KindRemovedSuperClass:                    report.SeverityMedium,
	report.KindChangedSuperClass:                     report.SeverityMedium,
	report.KindAbstractClassAddedSuperAbstractClass:  report.SeverityMedium,

	report.KindNonAbstractClassAddedSuperInterface:    report.SeverityLow,
	report.KindAbstractClassAddedSuperInterface:       report.SeverityMedium,
	report.KindInterfaceAddedSuperInterface:           report.SeverityMedium,
	report.KindInterfaceAddedSuperConstantInterface:   report.SeverityLow,
	report.KindNonAbstractClassRemovedSuperInterface:  report.SeverityLow,
	report.KindAbstractClassRemovedSuperInterface:     report.SeverityLow,
	report.KindInterfaceRemovedSuperInterface:         report.SeverityMedium,
	report.KindInterfaceRemovedSuperConstantInterface: report.SeverityLow,

	report.KindRemovedConstantField:        report.SeverityLow,
	report.KindRemovedNonConstantField:     report.SeverityHigh,
	report.KindRenamedConstantField:        report.SeverityLow,
	report.KindRenamedNonConstantField:     report.SeverityHigh,
	report.KindChangedFieldType:            report.SeverityHigh,
	report.KindChangedFieldAccess:          report.SeverityMedium,
	report.KindChangedFinalFieldValue:      report.SeverityMedium,
	report.KindFieldBecameFinal:            report.SeverityMedium,
	report.KindFieldBecameNonFinal:         report.SeveritySafe,
	report.KindFieldBecameStatic:           report.SeverityHigh,
	report.KindConstantFieldBecameStatic:   report.SeverityHigh,
	report.KindFieldBecameNonStatic:        report.SeverityHigh,
	report.KindConstantFieldBecameNonStatic: report.SeverityHigh,
	report.KindClassAddedField:             report.SeveritySafe,
	report.KindInterfaceAddedField:         report.SeveritySafe,
}

var sourceTable = map[report.Kind]report.Severity{
	report.KindAddedMethod:                 report.SeveritySafe,
	report.KindChangedMethodReturnFromVoid: report.SeverityHigh,
	report.KindClassOverriddenMethod:       report.SeverityLow,
	report.KindRemovedMethod:               report.SeverityHigh,
	report.KindClassMethodMovedUpHierarchy: report.SeveritySafe,

	report.KindMethodBecameStatic:          report.SeverityHigh,
	report.KindMethodBecameNonStatic:       report.SeverityHigh,
	report.KindMethodBecameSynchronized:    report.SeveritySafe,
	report.KindMethodBecameNonSynchronized: report.SeveritySafe,
	report.KindNonStaticMethodBecameFinal:  report.SeverityHigh,
	report.KindStaticMethodBecameFinal:     report.SeverityHigh,
	report.KindChangedMethodAccess:         report.SeverityHigh,
	report.KindMethodBecameAbstract:        report.SeverityHigh,
	report.KindMethodBecameNonAbstract:     report.SeveritySafe,
	report.KindClassMethodBecameAbstract:   report.SeverityHigh,

	report.KindNonAbstractMethodAddedCheckedException:   report.SeverityMedium,
	report.KindNonAbstractMethodRemovedCheckedException: report.SeverityMedium,
	report.KindAbstractMethodAddedCheckedException:      report.SeverityMedium,
	report.KindAbstractMethodRemovedCheckedException:    report.SeverityMedium,
	report.KindAddedUncheckedException:                  report.SeveritySafe,
	report.KindRemovedUncheckedException:                report.SeveritySafe,

	report.KindNonAbstractClassAddedAbstractMethod: report.SeverityHigh,
	report.KindAbstractClassAddedAbstractMethod:    report.SeverityHigh,
	report.KindInterfaceAddedAbstractMethod:         report.SeverityHigh,
	report.KindClassRemovedAbstractMethod:           report.SeveritySafe,
	report.KindInterfaceRemovedAbstractMethod:       report.SeveritySafe,

	report.KindClassBecameInterface:    report.SeverityHigh,
	report.KindInterfaceBecameClass:    report.SeverityHigh,
	report.KindClassBecameFinal:        report.SeverityHigh,
	report.KindClassBecameNonFinal:     report.SeveritySafe,
	report.KindClassBecameAbstract:     report.SeverityHigh,
	report.KindClassBecameNonAbstract:  report.SeveritySafe,

	report.KindAddedSuperClass:                      report.SeverityLow,
	report.KindRemovedSuperClass:                    report.SeverityHigh,
	report.KindChangedSuperClass:                     report.SeverityHigh,
	report.KindAbstractClassAddedSuperAbstractClass:  report.SeverityHigh,

	report.KindNonAbstractClassAddedSuperInterface:    report.SeverityLow,
	report.KindAbstractClassAddedSuperInterface:       report.SeverityHigh,
	report.KindInterfaceAddedSuperInterface:           report.SeverityHigh,
	report.KindInterfaceAddedSuperConstantInterface:   report.SeverityLow,
	report.KindNonAbstractClassRemovedSuperInterface:  report.SeverityMedium,
	report.KindAbstractClassRemovedSuperInterface:     report.SeverityMedium,
	report.KindInterfaceRemovedSuperInterface:         report.SeverityHigh,
	report.KindInterfaceRemovedSuperConstantInterface: report.SeverityLow,

	report.KindRemovedConstantField:        report.SeverityHigh,
	report.KindRemovedNonConstantField:     report.SeverityHigh,
	report.KindRenamedConstantField:        report.SeverityHigh,
	report.KindRenamedNonConstantField:     report.SeverityHigh,
	report.KindChangedFieldType:            report.SeverityHigh,
	report.KindChangedFieldAccess:          report.SeverityHigh,
	report.KindChangedFinalFieldValue:      report.SeverityLow,
	report.KindFieldBecameFinal:            report.SeverityMedium,
	report.KindFieldBecameNonFinal:         report.SeveritySafe,
	report.KindFieldBecameStatic:           report.SeverityHigh,
	report.KindConstantFieldBecameStatic:   report.SeverityHigh,
	report.KindFieldBecameNonStatic:        report.SeverityHigh,
	report.KindConstantFieldBecameNonStatic: report.SeverityHigh,
	report.KindClassAddedField:             report.SeveritySafe,
	report.KindInterfaceAddedField:         report.SeveritySafe,
}

// lookup panics on an unmapped kind rather than silently returning Safe —
// a missing table entry means a detector kind shipped without a severity
// decision, which is a defect in this package, not in the input.
func lookup(table map[report.Kind]report.Severity, k report.Kind) report.Severity {
	sev, ok := table[k]
	if !ok {
		panic("classify: no severity mapped for kind " + string(k))
	}
	return sev
}
