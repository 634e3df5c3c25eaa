package diff

import (
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/report"
)

// instanceGateOpen implements the constructibility gate: a non-static,
// non-constructor method on a class that no external client
// can ever instantiate or extend produces no problems, since nothing can
// observe the change. Interfaces and static members are never gated —
// an interface method is reachable through any implementing class
// regardless of who can construct the interface's own (nonexistent)
// instances, and a static member needs no receiver at all.
func instanceGateOpen(v *model.Version, t *model.Type, m *model.Method, opts Options) bool {
	if t.Kind != model.KindClass {
		return true
	}
	if m.Static || m.Constructor {
		return true
	}
	if opts.Quick {
		// Quick mode bypasses the gate: every class counts as
		// constructible, whatever Version.constructible records.
		return true
	}
	return v.IsConstructible(t.ID)
}

// methodVisible reports whether m is part of the observable API surface:
// a private method, or any method on a private class, can never be
// called or overridden from outside the declaring archive, so a change to
// it is never a compatibility problem.
func methodVisible(t *model.Type, m *model.Method) bool {
	return comparableAccess(t.Access) && comparableAccess(m.Access)
}

// mergeMethods finds added and removed methods by signature key, and
// dispatches matched pairs into mergeMethodPair.
func mergeMethods(oldV, newV *model.Version, oldT *model.Type, newT *model.Type, opts Options) []report.Problem {
	var problems []report.Problem

	oldMethods := oldV.MethodsOn(oldT.ID)
	oldByKey := make(map[string]*model.Method, len(oldMethods))
	for _, m := range oldMethods {
		oldByKey[sigKey(oldV, m)] = m
	}

	var newMethods []*model.Method
	if newT != nil {
		newMethods = newV.MethodsOn(newT.ID)
	}
	newByKey := make(map[string]*model.Method, len(newMethods))
	for _, m := range newMethods {
		newByKey[sigKey(newV, m)] = m
	}

	for key, m := range oldByKey {
		if !methodVisible(oldT, m) {
			continue
		}
		if !instanceGateOpen(oldV, oldT, m, opts) {
			continue
		}
		newM, stillPresent := newByKey[key]
		if stillPresent {
			problems = append(problems, mergeMethodPair(oldV, newV, oldT, newT, m, newM)...)
			continue
		}

		if newT != nil && !m.Constructor && foundOnAncestor(newV, newT.ID, key) {
			problems = append(problems, report.Problem{
				MethodID: m.ID,
				Kind:     report.KindClassMethodMovedUpHierarchy,
				TypeName: oldT.Name,
				Target:   oldT.Name,
			})
			continue
		}

		if m.Abstract {
			kind := report.KindClassRemovedAbstractMethod
			if oldT.Kind == model.KindInterface {
				kind = report.KindInterfaceRemovedAbstractMethod
			}
			problems = append(problems, report.Problem{
				MethodID: m.ID,
				Kind:     kind,
				TypeName: oldT.Name,
				Target:   oldT.Name,
			})
			continue
		}

		problems = append(problems, report.Problem{
			MethodID: m.ID,
			Kind:     report.KindRemovedMethod,
			TypeName: oldT.Name,
			Target:   oldT.Name,
		})
	}

	if newT == nil {
		return problems
	}

	for key, m := range newByKey {
		if _, existedBefore := oldByKey[key]; existedBefore {
			continue
		}
		if !methodVisible(newT, m) {
			continue
		}
		if !instanceGateOpen(newV, newT, m, opts) {
			continue
		}

		if m.Abstract {
			var kind report.Kind
			switch {
			case newT.Kind == model.KindInterface:
				kind = report.KindInterfaceAddedAbstractMethod
			case newT.Abstract:
				kind = report.KindAbstractClassAddedAbstractMethod
			default:
				kind = report.KindNonAbstractClassAddedAbstractMethod
			}
			problems = append(problems, report.Problem{
				MethodID: m.ID,
				Kind:     kind,
				TypeName: newT.Name,
				Target:   newT.Name,
			})
			continue
		}

		problems = append(problems, report.Problem{
			MethodID: m.ID,
			Kind:     report.KindAddedMethod,
			TypeName: newT.Name,
			Target:   newT.Name,
		})
	}

	return problems
}

// mergeMethodPair compares a method declared under the same signature in
// both versions: the attribute transitions, throws-clause deltas, the
// return-type-from-void special case, and the overridden-by-new-ancestor
// detection.
func mergeMethodPair(oldV, newV *model.Version, oldT, newT *model.Type, oldM, newM *model.Method) []report.Problem {
	var problems []report.Problem
	base := report.Problem{MethodID: oldM.ID, TypeName: oldT.Name, Target: oldT.Name}

	key := sigKey(oldV, oldM)
	if !oldM.Constructor && !foundOnAncestor(oldV, oldT.ID, key) && foundOnAncestor(newV, newT.ID, key) {
		p := base
		p.Kind = report.KindClassOverriddenMethod
		problems = append(problems, p)
	}

	if !oldM.Static && newM.Static {
		p := base
		p.Kind = report.KindMethodBecameStatic
		problems = append(problems, p)
	} else if oldM.Static && !newM.Static {
		p := base
		p.Kind = report.KindMethodBecameNonStatic
		problems = append(problems, p)
	}

	if !oldM.Synchronized && newM.Synchronized {
		p := base
		p.Kind = report.KindMethodBecameSynchronized
		problems = append(problems, p)
	} else if oldM.Synchronized && !newM.Synchronized {
		p := base
		p.Kind = report.KindMethodBecameNonSynchronized
		problems = append(problems, p)
	}

	if !oldM.Final && newM.Final {
		p := base
		p.Kind = report.KindStaticMethodBecameFinal
		if !newM.Static {
			p.Kind = report.KindNonStaticMethodBecameFinal
		}
		problems = append(problems, p)
	}

	if narrowed(oldM.Access, newM.Access) {
		p := base
		p.Kind = report.KindChangedMethodAccess
		p.OldValue, p.NewValue = string(oldM.Access), string(newM.Access)
		problems = append(problems, p)
	}

	if !oldM.Abstract && newM.Abstract {
		p := base
		p.Kind = report.KindMethodBecameAbstract
		problems = append(problems, p)
		problems = append(problems, report.Problem{
			ClassLevel: true,
			Kind:       report.KindClassMethodBecameAbstract,
			TypeName:   oldT.Name,
			Target:     oldT.Name,
		})
	} else if oldM.Abstract && !newM.Abstract {
		p := base
		p.Kind = report.KindMethodBecameNonAbstract
		problems = append(problems, p)
	}

	problems = append(problems, mergeExceptions(oldV, newV, oldT, oldM, newM)...)

	oldRet := typeName(oldV, oldM.Return)
	newRet := typeName(newV, newM.Return)
	if (oldRet == "" || oldRet == "void") && newRet != "" && newRet != "void" {
		p := base
		p.Kind = report.KindChangedMethodReturnFromVoid
		p.OldValue, p.NewValue = oldRet, newRet
		problems = append(problems, p)
	}

	return problems
}

// mergeExceptions implements the checked/unchecked throws-clause delta
// between a matched method pair.
func mergeExceptions(oldV, newV *model.Version, oldT *model.Type, oldM, newM *model.Method) []report.Problem {
	var problems []report.Problem
	base := report.Problem{MethodID: oldM.ID, TypeName: oldT.Name, Target: oldT.Name}

	oldExc := exceptionNameSet(oldV, oldM)
	newExc := exceptionNameSet(newV, newM)

	for name := range newExc {
		if oldExc[name] {
			continue
		}
		if isUnchecked(newV, name) && (oldM.Abstract || newM.Abstract) {
			// An unchecked exception thrown from a method that has no body
			// on at least one side (abstract) has no caller to observe it
			// from — only a concrete method's actual throw behavior counts.
			continue
		}
		p := base
		p.NewValue = name
		if isUnchecked(newV, name) {
			p.Kind = report.KindAddedUncheckedException
		} else if newM.Abstract {
			p.Kind = report.KindAbstractMethodAddedCheckedException
		} else {
			p.Kind = report.KindNonAbstractMethodAddedCheckedException
		}
		problems = append(problems, p)
	}

	for name := range oldExc {
		if newExc[name] {
			continue
		}
		if isUnchecked(oldV, name) && (oldM.Abstract || newM.Abstract) {
			continue
		}
		p := base
		p.OldValue = name
		if isUnchecked(oldV, name) {
			p.Kind = report.KindRemovedUncheckedException
		} else if oldM.Abstract {
			p.Kind = report.KindAbstractMethodRemovedCheckedException
		} else {
			p.Kind = report.KindNonAbstractMethodRemovedCheckedException
		}
		problems = append(problems, p)
	}

	return problems
}
