package diff

import (
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/report"
)

// Options carries the flags that affect what the detector looks at, mostly
// passed straight through from the CLI.
type Options struct {
	Quick               bool
	CheckImplementation bool
}

// Compare runs the difference detector over every type declared in oldV,
// matching each by name against newV. Types that exist
// only in newV produce no problems — a wholly new class or interface is
// never a compatibility hazard by itself.
func Compare(oldV, newV *model.Version, opts Options) []report.Problem {
	var problems []report.Problem
	for _, oldT := range oldV.Types() {
		newT, _ := newV.TypeByName(oldT.Name)
		problems = append(problems, mergeType(oldV, newV, oldT, newT, opts)...)
	}
	return problems
}

// typeGateOpen mirrors instanceGateOpen at the whole-type level: a type
// that never resolved to a real archive (a synthetic forward-reference
// placeholder the parser created but never filled in) carries no real
// shape to compare, and an unconstructible class's own structural
// transitions are no more observable than its instance methods are.
func typeGateOpen(v *model.Version, t *model.Type) bool {
	if t.Archive == "" {
		return false
	}
	if t.Kind != model.KindClass {
		return true
	}
	return v.IsConstructible(t.ID)
}

// mergeType compares one type present in oldV against its namesake in
// newV (nil if the type was removed entirely), covering the type-level
// kind/final/abstract transitions, the super-class and super-interface
// deltas, and the method and field loops.
func mergeType(oldV, newV *model.Version, oldT, newT *model.Type, opts Options) []report.Problem {
	var problems []report.Problem

	gateOpen := typeGateOpen(oldV, oldT)
	if newT != nil && !typeGateOpen(newV, newT) {
		gateOpen = false
	}

	if gateOpen && newT != nil {
		problems = append(problems, typeLevelTransitions(oldT, newT)...)
		problems = append(problems, superClassDelta(oldV, newV, oldT, newT)...)
		problems = append(problems, superInterfaceDelta(oldV, newV, oldT, newT)...)
	}

	problems = append(problems, mergeMethods(oldV, newV, oldT, newT, opts)...)

	if !gateOpen {
		return problems
	}

	if newT != nil {
		problems = append(problems, mergeFields(oldV, newV, oldT, newT)...)
	} else {
		for _, f := range oldT.Fields {
			if !comparableAccess(f.Access) {
				continue
			}
			kind := report.KindRemovedNonConstantField
			if f.IsConstant() {
				kind = report.KindRemovedConstantField
			}
			problems = append(problems, report.Problem{
				ClassLevel: true,
				Kind:       kind,
				TypeName:   oldT.Name,
				Target:     f.Name,
			})
		}
	}

	return problems
}

func typeLevelTransitions(oldT, newT *model.Type) []report.Problem {
	var problems []report.Problem
	base := report.Problem{ClassLevel: true, TypeName: oldT.Name, Target: oldT.Name}

	if oldT.Kind != newT.Kind {
		p := base
		switch {
		case oldT.Kind == model.KindClass && newT.Kind == model.KindInterface:
			p.Kind = report.KindClassBecameInterface
		case oldT.Kind == model.KindInterface && newT.Kind == model.KindClass:
			p.Kind = report.KindInterfaceBecameClass
		default:
			return problems
		}
		problems = append(problems, p)
	}

	if !oldT.Final && newT.Final {
		p := base
		p.Kind = report.KindClassBecameFinal
		problems = append(problems, p)
	} else if oldT.Final && !newT.Final {
		p := base
		p.Kind = report.KindClassBecameNonFinal
		problems = append(problems, p)
	}

	if !oldT.Abstract && newT.Abstract {
		p := base
		p.Kind = report.KindClassBecameAbstract
		problems = append(problems, p)
	} else if oldT.Abstract && !newT.Abstract {
		p := base
		p.Kind = report.KindClassBecameNonAbstract
		problems = append(problems, p)
	}

	return problems
}

func superClassDelta(oldV, newV *model.Version, oldT, newT *model.Type) []report.Problem {
	if oldT.Kind != model.KindClass || newT.Kind != model.KindClass {
		return nil
	}

	oldSuper := typeName(oldV, oldT.SuperClass)
	newSuper := typeName(newV, newT.SuperClass)
	if oldSuper == newSuper {
		return nil
	}

	base := report.Problem{ClassLevel: true, TypeName: oldT.Name, Target: oldT.Name}

	switch {
	case oldSuper == "" && newSuper != "":
		p := base
		p.NewValue = newSuper
		p.Kind = report.KindAddedSuperClass
		if newT.Abstract {
			if superT, ok := newV.TypeByName(newSuper); ok && superT.Abstract {
				p.Kind = report.KindAbstractClassAddedSuperAbstractClass
			}
		}
		return []report.Problem{p}

	case oldSuper != "" && newSuper == "":
		p := base
		p.OldValue = oldSuper
		p.Kind = report.KindRemovedSuperClass
		return []report.Problem{p}

	default:
		p := base
		p.OldValue, p.NewValue = oldSuper, newSuper
		p.Kind = report.KindChangedSuperClass
		return []report.Problem{p}
	}
}

func superInterfaceDelta(oldV, newV *model.Version, oldT, newT *model.Type) []report.Problem {
	var problems []report.Problem
	base := report.Problem{ClassLevel: true, TypeName: newT.Name, Target: newT.Name}

	oldNames := superInterfaceNames(oldV, oldT)
	newNames := superInterfaceNames(newV, newT)

	for name := range newNames {
		if oldNames[name] {
			continue
		}
		p := base
		p.NewValue = name
		ifaceT, _ := newV.TypeByName(name)
		constantOnly := isConstantOnlyInterface(newV, ifaceT)
		switch {
		case newT.Kind == model.KindInterface && constantOnly:
			p.Kind = report.KindInterfaceAddedSuperConstantInterface
		case newT.Kind == model.KindInterface:
			p.Kind = report.KindInterfaceAddedSuperInterface
		case newT.Abstract:
			p.Kind = report.KindAbstractClassAddedSuperInterface
		default:
			p.Kind = report.KindNonAbstractClassAddedSuperInterface
		}
		problems = append(problems, p)
	}

	base.TypeName, base.Target = oldT.Name, oldT.Name
	for name := range oldNames {
		if newNames[name] {
			continue
		}
		p := base
		p.OldValue = name
		ifaceT, _ := oldV.TypeByName(name)
		constantOnly := isConstantOnlyInterface(oldV, ifaceT)
		switch {
		case oldT.Kind == model.KindInterface && constantOnly:
			p.Kind = report.KindInterfaceRemovedSuperConstantInterface
		case oldT.Kind == model.KindInterface:
			p.Kind = report.KindInterfaceRemovedSuperInterface
		case oldT.Abstract:
			p.Kind = report.KindAbstractClassRemovedSuperInterface
		default:
			p.Kind = report.KindNonAbstractClassRemovedSuperInterface
		}
		problems = append(problems, p)
	}

	return problems
}
