// Package selftest implements a self-test harness: six concrete
// before/after model.Version fixtures, hand-built without going
// through disassembly or archive ingestion, each run through the same
// diff.Compare/classify.Classify/classify.Ceiling pipeline the CLI's
// "compare" subcommand uses, and checked against the expected kind and
// severity pair the specification pins down.
package selftest

import (
	"fmt"

	"github.com/lvc/japi-compliance-checker/core/classify"
	"github.com/lvc/japi-compliance-checker/core/diff"
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/report"
	"github.com/lvc/japi-compliance-checker/core/usage"
)

// Result is the outcome of one scenario.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Run executes every registered scenario and returns one Result per
// scenario, in declaration order.
func Run() []Result {
	scenarios := []struct {
		name string
		fn   func() (report.Problem, error)
	}{
		{"removed non-constant field", removedNonConstantField},
		{"renamed constant field by position", renamedConstantFieldByPosition},
		{"added checked exception to non-abstract method", addedCheckedExceptionNonAbstract},
		{"added abstract method to interface with caller", addedAbstractMethodWithCaller},
		{"changed method return from void", changedMethodReturnFromVoid},
		{"class became interface", classBecameInterface},
	}

	out := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		p, err := s.fn()
		if err != nil {
			out = append(out, Result{Name: s.name, Passed: false, Detail: err.Error()})
			continue
		}
		out = append(out, Result{
			Name:   s.name,
			Passed: true,
			Detail: fmt.Sprintf("%s binary=%s source=%s", p.Kind, p.BinarySeverity, p.SourceSeverity),
		})
	}
	return out
}

// AllPassed reports whether every scenario in results succeeded.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// expectOne runs the standard pipeline over oldV/newV and asserts that
// exactly one problem matching kind and target survived classification and
// ceiling dedup, returning it for the caller to check severities on.
func expectOne(oldV, newV *model.Version, kind report.Kind, target string, mode classify.Mode) (report.Problem, error) {
	oldV.Freeze()
	newV.Freeze()

	problems := diff.Compare(oldV, newV, diff.Options{Quick: mode.Quick})
	classify.Classify(problems, newV, usage.NewTables(), mode)
	problems = classify.Ceiling(problems)

	var matches []report.Problem
	for _, p := range problems {
		if p.Kind == kind && p.Target == target {
			matches = append(matches, p)
		}
	}
	if len(matches) != 1 {
		return report.Problem{}, fmt.Errorf("expected exactly one %s problem on %q, found %d (total problems: %d)", kind, target, len(matches), len(problems))
	}
	return matches[0], nil
}

func expectSeverity(p report.Problem, binary, source report.Severity) error {
	if p.BinarySeverity != binary || p.SourceSeverity != source {
		return fmt.Errorf("severity mismatch: got binary=%s source=%s, want binary=%s source=%s",
			p.BinarySeverity, p.SourceSeverity, binary, source)
	}
	return nil
}

func removedNonConstantField() (report.Problem, error) {
	oldV := model.NewVersion("v1")
	newV := model.NewVersion("v2")

	oldT := oldV.InternType("com.example.Widget")
	oldT.LockKind(model.KindClass)
	oldT.AddField(&model.Field{Name: "removedField", Type: oldV.InternType("java.lang.Integer").ID, Access: model.AccessPublic})

	newT := newV.InternType("com.example.Widget")
	newT.LockKind(model.KindClass)

	p, err := expectOne(oldV, newV, report.KindRemovedNonConstantField, "removedField", classify.Mode{})
	if err != nil {
		return p, err
	}
	return p, expectSeverity(p, report.SeverityHigh, report.SeverityHigh)
}

func renamedConstantFieldByPosition() (report.Problem, error) {
	oldV := model.NewVersion("v1")
	newV := model.NewVersion("v2")

	oldT := oldV.InternType("com.example.Widget")
	oldT.LockKind(model.KindClass)
	oldT.AddField(&model.Field{
		Name: "oldName", Type: oldV.InternType("java.lang.String").ID,
		Access: model.AccessPublic, Final: true, Static: true, Value: "Value",
	})

	newT := newV.InternType("com.example.Widget")
	newT.LockKind(model.KindClass)
	newT.AddField(&model.Field{
		Name: "newName", Type: newV.InternType("java.lang.String").ID,
		Access: model.AccessPublic, Final: true, Static: true, Value: "Value",
	})

	p, err := expectOne(oldV, newV, report.KindRenamedConstantField, "oldName", classify.Mode{})
	if err != nil {
		return p, err
	}
	return p, expectSeverity(p, report.SeverityLow, report.SeverityHigh)
}

func addedCheckedExceptionNonAbstract() (report.Problem, error) {
	oldV := model.NewVersion("v1")
	newV := model.NewVersion("v2")

	oldCls := oldV.InternType("com.example.Widget")
	oldCls.LockKind(model.KindClass)
	oldV.MarkConstructible(oldCls.ID)
	firstExc := oldV.InternType("com.example.FirstCheckedException")
	firstExc.LockKind(model.KindClass)
	firstExc.SuperClass = oldV.InternType("java.lang.Exception").ID

	oldM := oldV.NewMethod(oldCls.ID)
	oldM.ShortName = "doWork"
	oldM.Access = model.AccessPublic
	oldM.Descriptor = "()V"
	oldM.Exceptions[firstExc.ID] = true

	newCls := newV.InternType("com.example.Widget")
	newCls.LockKind(model.KindClass)
	newV.MarkConstructible(newCls.ID)
	newFirstExc := newV.InternType("com.example.FirstCheckedException")
	newFirstExc.LockKind(model.KindClass)
	newFirstExc.SuperClass = newV.InternType("java.lang.Exception").ID
	newSecondExc := newV.InternType("com.example.SecondCheckedException")
	newSecondExc.LockKind(model.KindClass)
	newSecondExc.SuperClass = newV.InternType("java.lang.Exception").ID

	newM := newV.NewMethod(newCls.ID)
	newM.ShortName = "doWork"
	newM.Access = model.AccessPublic
	newM.Descriptor = "()V"
	newM.Exceptions[newFirstExc.ID] = true
	newM.Exceptions[newSecondExc.ID] = true

	p, err := expectOne(oldV, newV, report.KindNonAbstractMethodAddedCheckedException, "com.example.Widget", classify.Mode{})
	if err != nil {
		return p, err
	}
	return p, expectSeverity(p, report.SeverityLow, report.SeverityMedium)
}

func addedAbstractMethodWithCaller() (report.Problem, error) {
	oldV := model.NewVersion("v1")
	newV := model.NewVersion("v2")

	oldIface := oldV.InternType("com.example.Widget")
	oldIface.LockKind(model.KindInterface)
	oldIface.Abstract = true

	newIface := newV.InternType("com.example.Widget")
	newIface.LockKind(model.KindInterface)
	newIface.Abstract = true

	addedMethod := newV.NewMethod(newIface.ID)
	addedMethod.ShortName = "addedMethod"
	addedMethod.Access = model.AccessPublic
	addedMethod.Abstract = true
	addedMethod.Descriptor = "()V"

	caller := newV.InternType("com.example.Caller")
	caller.LockKind(model.KindClass)
	callerM := newV.NewMethod(caller.ID)
	callerM.ShortName = "callIt"
	callerM.Access = model.AccessPublic
	callerM.Descriptor = "()V"

	tables := usage.NewTables()
	tables.RecordInvocation("com/example/Widget.addedMethod:()V", callerM.ID, "com.example.Widget", "addedMethod", false)

	oldV.Freeze()
	newV.Freeze()
	problems := diff.Compare(oldV, newV, diff.Options{})
	classify.Classify(problems, newV, tables, classify.Mode{})
	problems = classify.Ceiling(problems)

	var matches []report.Problem
	for _, p := range problems {
		if p.Kind == report.KindInterfaceAddedAbstractMethod && p.Target == "com.example.Widget" {
			matches = append(matches, p)
		}
	}
	if len(matches) != 1 {
		return report.Problem{}, fmt.Errorf("expected exactly one Interface_Added_Abstract_Method problem on %q, found %d", "com.example.Widget", len(matches))
	}
	return matches[0], expectSeverity(matches[0], report.SeverityMedium, report.SeverityHigh)
}

func changedMethodReturnFromVoid() (report.Problem, error) {
	oldV := model.NewVersion("v1")
	newV := model.NewVersion("v2")

	oldCls := oldV.InternType("com.example.Widget")
	oldCls.LockKind(model.KindClass)
	oldV.MarkConstructible(oldCls.ID)
	oldInt := oldV.InternType("java.lang.Integer")
	oldStrArr := oldV.InternType("java.lang.String[]")

	oldM := oldV.NewMethod(oldCls.ID)
	oldM.ShortName = "changedMethod"
	oldM.Access = model.AccessPublic
	oldM.Descriptor = "(Ljava/lang/Integer;[Ljava/lang/String;)V"
	oldM.Params = []model.Parameter{{Type: oldInt.ID}, {Type: oldStrArr.ID}}

	newCls := newV.InternType("com.example.Widget")
	newCls.LockKind(model.KindClass)
	newV.MarkConstructible(newCls.ID)
	newInt := newV.InternType("java.lang.Integer")
	newStrArr := newV.InternType("java.lang.String[]")

	newM := newV.NewMethod(newCls.ID)
	newM.ShortName = "changedMethod"
	newM.Access = model.AccessPublic
	newM.Descriptor = "(Ljava/lang/Integer;[Ljava/lang/String;)Ljava/lang/Integer;"
	newM.Params = []model.Parameter{{Type: newInt.ID}, {Type: newStrArr.ID}}
	newM.Return = newInt.ID

	oldV.Freeze()
	newV.Freeze()
	problems := diff.Compare(oldV, newV, diff.Options{})
	classify.Classify(problems, newV, usage.NewTables(), classify.Mode{})
	problems = classify.Ceiling(problems)

	var matches []report.Problem
	for _, p := range problems {
		switch p.Kind {
		case report.KindChangedMethodReturnFromVoid:
			matches = append(matches, p)
		case report.KindAddedMethod, report.KindRemovedMethod:
			return report.Problem{}, fmt.Errorf("changedMethod leaked into the %s section", p.Kind)
		}
	}
	if len(matches) != 1 {
		return report.Problem{}, fmt.Errorf("expected exactly one Changed_Method_Return_From_Void problem, found %d", len(matches))
	}
	return matches[0], expectSeverity(matches[0], report.SeverityHigh, report.SeverityHigh)
}

func classBecameInterface() (report.Problem, error) {
	oldV := model.NewVersion("v1")
	newV := model.NewVersion("v2")

	oldBase := oldV.InternType("com.example.Base")
	oldBase.LockKind(model.KindClass)
	oldT := oldV.InternType("com.example.Widget")
	oldT.LockKind(model.KindClass)
	oldT.SuperClass = oldBase.ID

	newFirstIface := newV.InternType("com.example.FirstInterface")
	newFirstIface.LockKind(model.KindInterface)
	newSecondIface := newV.InternType("com.example.SecondInterface")
	newSecondIface.LockKind(model.KindInterface)
	newT := newV.InternType("com.example.Widget")
	newT.LockKind(model.KindInterface)
	newT.SuperInterfaces[newFirstIface.ID] = true
	newT.SuperInterfaces[newSecondIface.ID] = true

	p, err := expectOne(oldV, newV, report.KindClassBecameInterface, "com.example.Widget", classify.Mode{})
	if err != nil {
		return p, err
	}
	return p, expectSeverity(p, report.SeverityHigh, report.SeverityHigh)
}
