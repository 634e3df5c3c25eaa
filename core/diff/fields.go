package diff

import (
	"github.com/lvc/japi-compliance-checker/core/model"
	"github.com/lvc/japi-compliance-checker/core/report"
)

// mergeFields implements the field comparison loop: rename correlation by
// positional slot, then added/removed/changed detection for whatever
// remains after renames are paired off.
func mergeFields(oldV, newV *model.Version, oldT, newT *model.Type) []report.Problem {
	var problems []report.Problem

	oldByName := make(map[string]*model.Field, len(oldT.Fields))
	for _, f := range oldT.Fields {
		oldByName[f.Name] = f
	}
	newByName := make(map[string]*model.Field, len(newT.Fields))
	for _, f := range newT.Fields {
		newByName[f.Name] = f
	}

	renamedOld := make(map[string]bool)
	renamedNew := make(map[string]bool)

	// Rename correlation: a removed field and an added field at the same
	// positional slot, with the same resolved type and (if constant) the
	// same value, are almost certainly the same field renamed rather than
	// an unrelated remove+add pair.
	for _, oldF := range oldT.Fields {
		if !comparableAccess(oldF.Access) {
			continue
		}
		if _, stillPresent := newByName[oldF.Name]; stillPresent {
			continue
		}
		newF, ok := newT.FieldAt(oldF.Position)
		if !ok {
			continue
		}
		if _, stillPresentOld := oldByName[newF.Name]; stillPresentOld {
			continue
		}
		if typeName(oldV, oldF.Type) != typeName(newV, newF.Type) {
			continue
		}
		if oldF.IsConstant() != newF.IsConstant() {
			continue
		}
		if oldF.IsConstant() && oldF.Value != newF.Value {
			continue
		}

		renamedOld[oldF.Name] = true
		renamedNew[newF.Name] = true

		kind := report.KindRenamedNonConstantField
		if oldF.IsConstant() {
			kind = report.KindRenamedConstantField
		}
		problems = append(problems, report.Problem{
			ClassLevel: true,
			Kind:       kind,
			TypeName:   oldT.Name,
			Target:     oldF.Name,
			OldValue:   oldF.Name,
			NewValue:   newF.Name,
		})
	}

	for _, oldF := range oldT.Fields {
		if renamedOld[oldF.Name] {
			continue
		}
		if !comparableAccess(oldF.Access) {
			continue
		}
		newF, ok := newByName[oldF.Name]
		if !ok {
			kind := report.KindRemovedNonConstantField
			if oldF.IsConstant() {
				kind = report.KindRemovedConstantField
			}
			problems = append(problems, report.Problem{
				ClassLevel: true,
				Kind:       kind,
				TypeName:   oldT.Name,
				Target:     oldF.Name,
			})
			continue
		}
		problems = append(problems, mergeFieldPair(oldV, newV, oldT, oldF, newF)...)
	}

	for _, newF := range newT.Fields {
		if renamedNew[newF.Name] {
			continue
		}
		if _, existed := oldByName[newF.Name]; existed {
			continue
		}
		if !comparableAccess(newF.Access) {
			continue
		}
		kind := report.KindClassAddedField
		if newT.Kind == model.KindInterface {
			kind = report.KindInterfaceAddedField
		}
		problems = append(problems, report.Problem{
			ClassLevel: true,
			Kind:       kind,
			TypeName:   newT.Name,
			Target:     newF.Name,
		})
	}

	return problems
}

// mergeFieldPair compares a field present under the same name in both
// versions: type, access, and the final/static/value attribute transitions.
func mergeFieldPair(oldV, newV *model.Version, t *model.Type, oldF, newF *model.Field) []report.Problem {
	var problems []report.Problem
	base := report.Problem{ClassLevel: true, TypeName: t.Name, Target: oldF.Name}

	oldTypeName := typeName(oldV, oldF.Type)
	newTypeName := typeName(newV, newF.Type)
	if oldTypeName != newTypeName {
		p := base
		p.Kind = report.KindChangedFieldType
		p.OldValue, p.NewValue = oldTypeName, newTypeName
		p.FieldType = newTypeName
		problems = append(problems, p)
	}

	if narrowed(oldF.Access, newF.Access) {
		p := base
		p.Kind = report.KindChangedFieldAccess
		p.OldValue, p.NewValue = string(oldF.Access), string(newF.Access)
		problems = append(problems, p)
	}

	if !oldF.Final && newF.Final {
		p := base
		p.Kind = report.KindFieldBecameFinal
		problems = append(problems, p)
	} else if oldF.Final && !newF.Final {
		p := base
		p.Kind = report.KindFieldBecameNonFinal
		problems = append(problems, p)
	}

	wasConstant := oldF.IsConstant()
	isConstant := newF.IsConstant()
	if !oldF.Static && newF.Static {
		p := base
		p.Kind = report.KindFieldBecameStatic
		if isConstant {
			p.Kind = report.KindConstantFieldBecameStatic
		}
		problems = append(problems, p)
	} else if oldF.Static && !newF.Static {
		p := base
		p.Kind = report.KindFieldBecameNonStatic
		if wasConstant {
			p.Kind = report.KindConstantFieldBecameNonStatic
		}
		problems = append(problems, p)
	}

	if wasConstant && isConstant && oldF.Value != newF.Value {
		p := base
		p.Kind = report.KindChangedFinalFieldValue
		p.OldValue, p.NewValue = oldF.Value, newF.Value
		p.FieldValue = newF.Value
		problems = append(problems, p)
	}

	return problems
}
