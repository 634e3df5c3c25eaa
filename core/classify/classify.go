package classify

import (
	"regexp"

	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/report"
	"github.com/lvc/japi-compliance-checker/core/usage"
)

// noCallerDowngradable is the set of kinds whose context-sensitive
// overrides downgrade when the affected type has no recorded caller for the
// newly added member: the binary risk of an unreachable addition is much
// lower than a reachable one, but the source-level obligation to implement
// it is unconditional, so only the binary severity is touched.
var noCallerDowngradable = map[report.Kind]bool{
	report.KindInterfaceAddedAbstractMethod:        true,
	report.KindAbstractClassAddedAbstractMethod:    true,
	report.KindInterfaceAddedSuperInterface:        true,
	report.KindAbstractClassAddedSuperInterface:    true,
	report.KindAbstractClassAddedSuperAbstractClass: true,
}

// perMethodNoCaller is the subset of noCallerDowngradable that must be
// checked per added method rather than per class: a class gaining two
// abstract methods where only one is ever invoked should downgrade the
// unused one and leave the other at its table severity. The
// *_Added_Super_Interface family stays on the coarser class-wide check —
// adding a super-interface affects the whole type at once, not one method.
var perMethodNoCaller = map[report.Kind]bool{
	report.KindInterfaceAddedAbstractMethod:     true,
	report.KindAbstractClassAddedAbstractMethod: true,
}

// versionFieldNamePattern matches the VERSION/VERNUM-style constant field
// names exempted from the usual Changed_Final_Field_Value severity, since
// such fields are conventionally bumped every release and
// rarely represent a real compatibility hazard.
var versionFieldNamePattern = regexp.MustCompile(`(?i)^(version|vernum)$`)

// Mode carries the flags that affect classification: Quick controls how far
// the no-caller downgrade goes (Safe normally, Low under -quick, mirroring
// the reduced-confidence usage data quick mode collects).
type Mode struct {
	Quick bool
}

// Classify assigns BinarySeverity and SourceSeverity to every problem in
// place, using newV (the version the member was added to, for resolving a
// MethodID back to its short name) and newTables (that version's usage
// tables) to resolve the no-caller downgrade. It returns the same slice
// for chaining.
func Classify(problems []report.Problem, newV *model.Version, newTables *usage.Tables, mode Mode) []report.Problem {
	for i := range problems {
		classifyOne(&problems[i], newV, newTables, mode)
	}
	return problems
}

func classifyOne(p *report.Problem, newV *model.Version, newTables *usage.Tables, mode Mode) {
	p.BinarySeverity = lookup(binaryTable, p.Kind)
	p.SourceSeverity = lookup(sourceTable, p.Kind)

	if noCallerDowngradable[p.Kind] && newTables != nil && !hasCaller(p, newV, newTables) {
		if mode.Quick {
			p.BinarySeverity = report.SeverityLow
		} else {
			p.BinarySeverity = report.SeveritySafe
		}
	}

	if p.Kind == report.KindChangedFinalFieldValue && versionFieldNamePattern.MatchString(p.Target) {
		p.BinarySeverity = report.SeverityLow
	}
}

// hasCaller resolves the no-caller check at the granularity the kind
// requires: per method for the two *_Added_Abstract_Method kinds, per
// class for the rest.
func hasCaller(p *report.Problem, newV *model.Version, newTables *usage.Tables) bool {
	if !perMethodNoCaller[p.Kind] {
		return newTables.HasAddedInvocations(p.Target)
	}
	if newV == nil {
		return false
	}
	m := newV.Method(p.MethodID)
	if m == nil {
		return false
	}
	_, ok := newTables.FirstCaller(p.Target, m.ShortName)
	return ok
}

// Ceiling runs the severity-ceiling pass: problems sharing a CeilingKey
// (type, kind, target) are collapsed into the one with the maximum
// binary and source severity seen across the group, since duplicate
// entries at different call sites should not each count independently
// toward a section's reported severity.
func Ceiling(problems []report.Problem) []report.Problem {
	order := make([]report.CeilingKey, 0, len(problems))
	best := make(map[report.CeilingKey]report.Problem, len(problems))

	for _, p := range problems {
		key := p.CeilingKey()
		existing, ok := best[key]
		if !ok {
			best[key] = p
			order = append(order, key)
			continue
		}
		existing.BinarySeverity = report.MaxSeverity(existing.BinarySeverity, p.BinarySeverity)
		existing.SourceSeverity = report.MaxSeverity(existing.SourceSeverity, p.SourceSeverity)
		best[key] = existing
	}

	out := make([]report.Problem, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}
